package vm

import (
	"strings"

	"agivm/internal/logic"
)

// wordAny and wordRestOfInput are the two reserved vocabulary word ids
// spec.md's `said` scenario names: group 1 matches any single word, group
// 9999 consumes every remaining parsed word regardless of content.
const (
	wordAny         = 1
	wordRestOfInput = 9999
)

// parseInputInto implements the parse opcode: tokenise text (normally the
// command-line string slot) against the loaded vocabulary, filling
// ParsedWords with each token's group id, flagCommandEntered/flagSaidAccepted
// bookkeeping, and MissingWordAt with the 1-based index of the first word
// the vocabulary does not know.
func (vm *VM) parseInputInto(text string) {
	vm.state.ParsedWords = nil
	vm.state.MissingWordAt = 0
	vm.state.Flags[flagSaidAccepted] = false

	fields := strings.Fields(strings.ToLower(text))
	for i, w := range fields {
		group, ok := vm.words.GroupOf(w)
		if !ok {
			if vm.state.MissingWordAt == 0 {
				vm.state.MissingWordAt = i + 1
				vm.state.Vars[varMissingWord] = uint8(i + 1)
			}
			continue
		}
		vm.state.ParsedWords = append(vm.state.ParsedWords, group)
	}

	vm.state.Flags[flagCommandEntered] = len(fields) > 0
}

// evalSaid implements the `said` condition test: ops is the pattern's word
// list (each a logic.Word carrying a vocabulary group id, or the reserved
// wordAny/wordRestOfInput sentinels), matched positionally against
// ParsedWords. A match sets flagSaidAccepted so later `said` tests in the
// same tick (and %w message expansion) see the parse as consumed.
func (vm *VM) evalSaid(ops []logic.Operand) bool {
	if vm.state.Flags[flagSaidAccepted] {
		return false
	}
	words := vm.state.ParsedWords
	pi := 0
	for _, o := range ops {
		w := o.(logic.Word)
		switch w.Value {
		case wordRestOfInput:
			vm.state.Flags[flagSaidAccepted] = true
			return true
		case wordAny:
			if pi >= len(words) {
				return false
			}
			pi++
		default:
			if pi >= len(words) || words[pi] != w.Value {
				return false
			}
			pi++
		}
	}
	if pi != len(words) {
		return false
	}
	vm.state.Flags[flagSaidAccepted] = true
	return true
}
