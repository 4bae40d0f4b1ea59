package logic

import (
	"errors"
	"fmt"
)

// ErrMissingLabelBase is returned when a Goto/If's displacement cannot be
// resolved because it is the last operation in the program (there is no
// following operation address to measure the displacement from).
var ErrMissingLabelBase = errors.New("logic: goto/if has no following operation to resolve from")

// ErrUnresolvedDestination is returned when a Goto/If's resolved absolute
// address does not land on the start of any decoded operation.
var ErrUnresolvedDestination = errors.New("logic: jump target does not land on an operation boundary")

// Label records what is known about one jump destination: whether a Goto
// lands there, how many If tests reference it, and which operation index
// it resolves to.
type Label struct {
	IsGotoDestination bool
	IfDestinationCnt  int
	OperationIndex    int
}

// Sequence is a fully decoded, label-resolved logic program. Callers never
// deal in raw byte offsets: every Goto/If Target.Address is an absolute
// program-byte address that Labels maps back to an operation index.
type Sequence struct {
	Operations []Action
	Labels     map[int]Label
}

// LookupOperation returns the operation index a resolved jump address
// refers to.
func (s *Sequence) LookupOperation(address int) (int, bool) {
	l, ok := s.Labels[address]
	if !ok {
		return 0, false
	}
	return l.OperationIndex, true
}

// ParseSequence decodes a logic resource's bytecode region into a fully
// resolved operation list. version selects between the two opcode-byte
// meanings (0x86, 0x97/0x98) that changed across AGI releases.
func ParseSequence(program []byte, version Version) (*Sequence, error) {
	if len(program) == 0 {
		return &Sequence{Labels: map[int]Label{}}, nil
	}

	r := &reader{data: program}
	var operations []Action
	offsets := map[int]int{}    // byte address -> operation index
	offsetsRev := map[int]int{} // operation index -> byte address

	for {
		address := r.pos
		b, ok := r.peek()
		if !ok {
			break
		}
		r.pos++

		index := len(operations)
		offsets[address] = index
		offsetsRev[index] = address

		action, err := parseAction(r, b, version)
		if err != nil {
			return nil, fmt.Errorf("logic: decoding operation at byte %d: %w", address, err)
		}
		operations = append(operations, action)
	}

	labels := map[int]Label{}
	for index := range operations {
		op := &operations[index]
		isGoto := op.Op == OpGoto
		isJump := isGoto || op.Op == OpIf
		if !isJump {
			continue
		}

		baseAddress, ok := offsetsRev[index+1]
		if !ok {
			return nil, fmt.Errorf("logic: operation %d: %w", index, ErrMissingLabelBase)
		}
		destination := baseAddress + op.Target.Address

		opIndex, ok := offsets[destination]
		if !ok {
			return nil, fmt.Errorf("logic: operation %d: %w (address %d)", index, ErrUnresolvedDestination, destination)
		}

		if existing, seen := labels[destination]; seen {
			if existing.OperationIndex != opIndex {
				return nil, fmt.Errorf("logic: internal inconsistency resolving address %d", destination)
			}
			if isGoto {
				existing.IsGotoDestination = true
			} else {
				existing.IfDestinationCnt++
			}
			labels[destination] = existing
		} else {
			l := Label{OperationIndex: opIndex}
			if isGoto {
				l.IsGotoDestination = true
			} else {
				l.IfDestinationCnt = 1
			}
			labels[destination] = l
		}

		op.Target = Goto{Address: destination}
	}

	return &Sequence{Operations: operations, Labels: labels}, nil
}

// Resource is a fully decoded logic resource: its resolved operation
// sequence plus its decrypted message pool.
type Resource struct {
	Sequence *Sequence
	Messages *MessagePool
}

// ErrTruncatedResource is returned when a logic resource's top-level
// text-start pointer does not fit inside the resource's own bytes.
var ErrTruncatedResource = errors.New("logic: truncated logic resource")

// ParseResource decodes a whole logic resource: the 2-byte text_start
// pointer splitting the bytecode region from the message-pool region, then
// both regions in turn. A resource shorter than 2 bytes (as can appear for
// an intentionally empty logic.0 placeholder) decodes to an empty
// sequence and message pool rather than an error.
func ParseResource(data []byte, version Version, compression Compression) (*Resource, error) {
	if len(data) < 2 {
		return &Resource{
			Sequence: &Sequence{Labels: map[int]Label{}},
			Messages: &MessagePool{Strings: []string{""}},
		}, nil
	}

	textStart := int(data[1])<<8 | int(data[0])
	if 2+textStart > len(data) {
		return nil, fmt.Errorf("logic: %w: text_start %d exceeds resource length %d", ErrTruncatedResource, textStart, len(data))
	}

	logicSlice := data[2 : textStart+2]
	textSlice := data[textStart+2:]

	sequence, err := ParseSequence(logicSlice, version)
	if err != nil {
		return nil, err
	}
	messages, err := parseMessagePool(textSlice, compression)
	if err != nil {
		return nil, err
	}

	return &Resource{Sequence: sequence, Messages: messages}, nil
}
