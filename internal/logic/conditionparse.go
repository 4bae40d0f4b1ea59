package logic

import (
	"errors"
	"fmt"
)

// ErrUnhandledCondition is returned for a condition test byte (0x01-0x12)
// this decoder does not recognise.
var ErrUnhandledCondition = errors.New("logic: unhandled condition code")

// parseConditionWithCode decodes one condition test's operands, given code
// as the test-code byte already consumed from r.
func parseConditionWithCode(r *reader, code uint8) (Condition, error) {
	switch code {
	case 0x01:
		return condVarNum(r, CondEqualN)
	case 0x02:
		return condVarVar(r, CondEqualV)
	case 0x03:
		return condVarNum(r, CondLessN)
	case 0x04:
		return condVarVar(r, CondLessV)
	case 0x05:
		return condVarNum(r, CondGreaterN)
	case 0x06:
		return condVarVar(r, CondGreaterV)
	case 0x07:
		v, err := r.flag()
		return Condition{Code: CondIsSet, Operands: []Operand{v}}, err
	case 0x08:
		v, err := r.varOperand()
		return Condition{Code: CondIsSetV, Operands: []Operand{v}}, err
	case 0x09:
		v, err := r.item()
		return Condition{Code: CondHas, Operands: []Operand{v}}, err
	case 0x0A:
		a, err := r.item()
		if err != nil {
			return Condition{}, err
		}
		b, err := r.varOperand()
		return Condition{Code: CondObjInRoom, Operands: []Operand{a, b}}, err
	case 0x0B:
		return condObjectNumNumNumNum(r, CondPosN)
	case 0x0C:
		v, err := r.controller()
		return Condition{Code: CondController, Operands: []Operand{v}}, err
	case 0x0D:
		return Condition{Code: CondHaveKey}, nil
	case 0x0E:
		said, err := r.said()
		if err != nil {
			return Condition{}, err
		}
		ops := make([]Operand, len(said.Words))
		for i, w := range said.Words {
			ops[i] = w
		}
		return Condition{Code: CondSaid, Operands: ops}, nil
	case 0x0F:
		a, err := r.stringSlot()
		if err != nil {
			return Condition{}, err
		}
		b, err := r.stringSlot()
		return Condition{Code: CondCompareStrings, Operands: []Operand{a, b}}, err
	case 0x10:
		return condObjectNumNumNumNum(r, CondObjInBox)
	case 0x11:
		return condObjectNumNumNumNum(r, CondCenterPosN)
	case 0x12:
		return condObjectNumNumNumNum(r, CondRightPosN)
	default:
		return Condition{}, fmt.Errorf("logic: %w: 0x%02X", ErrUnhandledCondition, code)
	}
}

func condVarNum(r *reader, code ConditionCode) (Condition, error) {
	a, err := r.varOperand()
	if err != nil {
		return Condition{}, err
	}
	b, err := r.num()
	return Condition{Code: code, Operands: []Operand{a, b}}, err
}

func condVarVar(r *reader, code ConditionCode) (Condition, error) {
	a, err := r.varOperand()
	if err != nil {
		return Condition{}, err
	}
	b, err := r.varOperand()
	return Condition{Code: code, Operands: []Operand{a, b}}, err
}

func condObjectNumNumNumNum(r *reader, code ConditionCode) (Condition, error) {
	a, err := r.object()
	if err != nil {
		return Condition{}, err
	}
	vals := make([]Operand, 4)
	for i := range vals {
		v, err := r.num()
		if err != nil {
			return Condition{}, err
		}
		vals[i] = v
	}
	return Condition{Code: code, Operands: append([]Operand{a}, vals...)}, nil
}

// parseCondition decodes one condition test, consuming its code byte and
// operands.
func parseCondition(r *reader) (Condition, error) {
	code, err := r.u8()
	if err != nil {
		return Condition{}, err
	}
	return parseConditionWithCode(r, code)
}

// parseOr decodes the contents of an OR-group, terminated by 0xFC. Inside
// an OR-group a 0xFD byte negates the single condition that follows it;
// any other byte is a plain condition test code.
func parseOr(r *reader) ([]Condition, error) {
	var conds []Condition
	for {
		b, ok := r.peek()
		if !ok {
			return nil, fmt.Errorf("logic: %w: unterminated or-group", ErrTruncatedOperand)
		}
		if b == 0xFC {
			r.pos++
			return conds, nil
		}
		if b == 0xFD {
			r.pos++
			c, err := parseCondition(r)
			if err != nil {
				return nil, err
			}
			c.Negate = true
			conds = append(conds, c)
			continue
		}
		c, err := parseCondition(r)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
}

// parseIfConditions decodes the condition list of an `if`, terminated by
// 0xFF, followed immediately by the goto displacement to resolve once the
// whole program has been parsed.
func parseIfConditions(r *reader) ([]Condition, Goto, error) {
	var conds []Condition
	for {
		b, ok := r.peek()
		if !ok {
			return nil, Goto{}, fmt.Errorf("logic: %w: unterminated if", ErrTruncatedOperand)
		}
		if b == 0xFF {
			r.pos++
			break
		}
		if b == 0xFD {
			r.pos++
			c, err := parseCondition(r)
			if err != nil {
				return nil, Goto{}, err
			}
			c.Negate = true
			conds = append(conds, c)
			continue
		}
		if b == 0xFC {
			r.pos++
			or, err := parseOr(r)
			if err != nil {
				return nil, Goto{}, err
			}
			conds = append(conds, Condition{Or: or})
			continue
		}
		r.pos++
		c, err := parseConditionWithCode(r, b)
		if err != nil {
			return nil, Goto{}, err
		}
		conds = append(conds, c)
	}

	target, err := r.goto_()
	return conds, target, err
}
