package logic

// This file holds the per-shape operand parsers that parseAction dispatches
// to. Each shape mirrors one of the original logic compiler's parameter
// tuples (var+num, object+var+var, and so on); keeping them as small named
// functions rather than one generic reader keeps each opcode's argument
// list readable at the call site in opcode.go.

func parseFlag1(r *reader, op OpCode) (Action, error) {
	v, err := r.flag()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseVar1(r *reader, op OpCode) (Action, error) {
	v, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseNum1(r *reader, op OpCode) (Action, error) {
	v, err := r.num()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseObject1(r *reader, op OpCode) (Action, error) {
	v, err := r.object()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseController1(r *reader, op OpCode) (Action, error) {
	v, err := r.controller()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseMessage1(r *reader, op OpCode) (Action, error) {
	v, err := r.message()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseStringSlot1(r *reader, op OpCode) (Action, error) {
	v, err := r.stringSlot()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseItem1(r *reader, op OpCode) (Action, error) {
	v, err := r.item()
	return Action{Op: op, Operands: []Operand{v}}, err
}

func parseVarNum(r *reader, op OpCode) (Action, error) {
	a, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseVarVar(r *reader, op OpCode) (Action, error) {
	a, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	b, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseItemNum(r *reader, op OpCode) (Action, error) {
	a, err := r.item()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseNumFlag(r *reader, op OpCode) (Action, error) {
	a, err := r.num()
	if err != nil {
		return Action{}, err
	}
	b, err := r.flag()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.num()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseObjectNum(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseObjectVar(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseObjectFlag(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.flag()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseStringMessage(r *reader, op OpCode) (Action, error) {
	a, err := r.stringSlot()
	if err != nil {
		return Action{}, err
	}
	b, err := r.message()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseMessageVar(r *reader, op OpCode) (Action, error) {
	a, err := r.message()
	if err != nil {
		return Action{}, err
	}
	b, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseMessageController(r *reader, op OpCode) (Action, error) {
	a, err := r.message()
	if err != nil {
		return Action{}, err
	}
	b, err := r.controller()
	return Action{Op: op, Operands: []Operand{a, b}}, err
}

func parseNumNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.num()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseNumNumMessage(r *reader, op OpCode) (Action, error) {
	a, err := r.num()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.message()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseNumNumController(r *reader, op OpCode) (Action, error) {
	a, err := r.num()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.controller()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseNumNumVar(r *reader, op OpCode) (Action, error) {
	a, err := r.num()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseVarVarVar(r *reader, op OpCode) (Action, error) {
	a, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	b, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	c, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseObjectObjectVar(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.object()
	if err != nil {
		return Action{}, err
	}
	c, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseObjectNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseObjectVarVar(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	c, err := r.varOperand()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseObjectNumFlag(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.flag()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseMessageNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.message()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseVarNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c}}, err
}

func parseNumNumNumNum(r *reader, op OpCode) (Action, error) {
	vals := make([]Operand, 4)
	for i := range vals {
		v, err := r.num()
		if err != nil {
			return Action{}, err
		}
		vals[i] = v
	}
	return Action{Op: op, Operands: vals}, nil
}

func parseObjectNumNumNumFlag(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	if err != nil {
		return Action{}, err
	}
	d, err := r.num()
	if err != nil {
		return Action{}, err
	}
	f, err := r.flag()
	return Action{Op: op, Operands: []Operand{a, b, c, d, f}}, err
}

func parseObjectVarVarVarFlag(r *reader, op OpCode) (Action, error) {
	a, err := r.object()
	if err != nil {
		return Action{}, err
	}
	b, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	c, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	d, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	f, err := r.flag()
	return Action{Op: op, Operands: []Operand{a, b, c, d, f}}, err
}

func parseMessageNumNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.message()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	if err != nil {
		return Action{}, err
	}
	d, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c, d}}, err
}

func parseVarNumNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.varOperand()
	if err != nil {
		return Action{}, err
	}
	b, err := r.num()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	if err != nil {
		return Action{}, err
	}
	d, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c, d}}, err
}

func parseNumNumNumNumNum(r *reader, op OpCode) (Action, error) {
	vals := make([]Operand, 5)
	for i := range vals {
		v, err := r.num()
		if err != nil {
			return Action{}, err
		}
		vals[i] = v
	}
	return Action{Op: op, Operands: vals}, nil
}

func parseStringMessageNumNumNum(r *reader, op OpCode) (Action, error) {
	a, err := r.stringSlot()
	if err != nil {
		return Action{}, err
	}
	b, err := r.message()
	if err != nil {
		return Action{}, err
	}
	c, err := r.num()
	if err != nil {
		return Action{}, err
	}
	d, err := r.num()
	if err != nil {
		return Action{}, err
	}
	e, err := r.num()
	return Action{Op: op, Operands: []Operand{a, b, c, d, e}}, err
}

func parseNumNumNumNumNumNumNum(r *reader, op OpCode) (Action, error) {
	vals := make([]Operand, 7)
	for i := range vals {
		v, err := r.num()
		if err != nil {
			return Action{}, err
		}
		vals[i] = v
	}
	return Action{Op: op, Operands: vals}, nil
}

func parseVarVarVarVarVarVarVar(r *reader, op OpCode) (Action, error) {
	vals := make([]Operand, 7)
	for i := range vals {
		v, err := r.varOperand()
		if err != nil {
			return Action{}, err
		}
		vals[i] = v
	}
	return Action{Op: op, Operands: vals}, nil
}
