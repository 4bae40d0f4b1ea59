package logic

import "testing"

func le16(v int) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func buildMessagePool(t *testing.T, messages []string, key string, adjust int) []byte {
	t.Helper()
	offsetBytes := make([]byte, 0, len(messages)*2)
	textBytes := []byte{}
	offsets := make([]int, len(messages))

	for i, m := range messages {
		if m == "" {
			offsets[i] = 0
			continue
		}
		// Offsets count from data[1] (the end-of-pool pointer), so the
		// first text byte sits at offset adjust = 2 + 2*count.
		offset := adjust + len(textBytes)
		offsets[i] = offset
		skip := offset - adjust
		for skip < 0 {
			skip += len(key)
		}
		// The NUL terminator is obfuscated along with the text.
		for j := 0; j <= len(m); j++ {
			c := byte(0)
			if j < len(m) {
				c = m[j]
			}
			k := key[(skip+j)%len(key)]
			textBytes = append(textBytes, c^k)
		}
	}
	for _, o := range offsets {
		offsetBytes = append(offsetBytes, le16(o)...)
	}

	buf := []byte{byte(len(messages))}
	buf = append(buf, 0, 0) // end-of-pool pointer, unread
	buf = append(buf, offsetBytes...)
	buf = append(buf, textBytes...)
	return buf
}

func TestParseMessagePoolRoundTrip(t *testing.T) {
	messages := []string{"go north", "you can't go that way"}
	adjust := 2 + len(messages)*2
	data := buildMessagePool(t, messages, messageXORKey, adjust)

	pool, err := parseMessagePool(data, CompressionNone)
	if err != nil {
		t.Fatalf("parseMessagePool: %v", err)
	}
	if len(pool.Strings) != len(messages)+1 {
		t.Fatalf("got %d strings, want %d", len(pool.Strings), len(messages)+1)
	}
	if pool.Strings[0] != "" {
		t.Fatalf("index 0 should be empty, got %q", pool.Strings[0])
	}
	for i, want := range messages {
		if got := pool.String(uint8(i + 1)); got != want {
			t.Errorf("message %d = %q, want %q", i+1, got, want)
		}
	}
}

func TestParseMessagePoolEmptyMessage(t *testing.T) {
	messages := []string{"", "hello"}
	adjust := 2 + len(messages)*2
	data := buildMessagePool(t, messages, messageXORKey, adjust)

	pool, err := parseMessagePool(data, CompressionNone)
	if err != nil {
		t.Fatalf("parseMessagePool: %v", err)
	}
	if pool.String(1) != "" {
		t.Errorf("message 1 = %q, want empty", pool.String(1))
	}
	if pool.String(2) != "hello" {
		t.Errorf("message 2 = %q, want hello", pool.String(2))
	}
}

func buildOp(op byte, operands ...byte) []byte {
	return append([]byte{op}, operands...)
}

func TestParseSequenceSimpleOps(t *testing.T) {
	program := []byte{}
	program = append(program, buildOp(0x03, 5, 10)...)  // assignn v5, 10
	program = append(program, buildOp(0x01, 5)...)       // increment v5
	program = append(program, buildOp(0x00)...)          // return

	seq, err := ParseSequence(program, version2400)
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	if len(seq.Operations) != 3 {
		t.Fatalf("got %d operations, want 3", len(seq.Operations))
	}
	if seq.Operations[0].Op != OpAssignN {
		t.Errorf("op 0 = %v, want OpAssignN", seq.Operations[0].Op)
	}
	want := []Operand{Var{5}, Num{10}}
	if len(seq.Operations[0].Operands) != 2 || seq.Operations[0].Operands[0] != want[0] || seq.Operations[0].Operands[1] != want[1] {
		t.Errorf("op 0 operands = %#v, want %#v", seq.Operations[0].Operands, want)
	}
	if seq.Operations[2].Op != OpReturn {
		t.Errorf("op 2 = %v, want OpReturn", seq.Operations[2].Op)
	}
}

// TestParseSequenceIfGotoResolution builds the equivalent of:
//
//	if (equaln(var:0, 0)) { goto skip }
//	increment(var:1)
//	skip: return
//
// and checks that the if's goto displacement resolves to the absolute
// address of the return operation, and that the goto's own target does
// too.
func TestParseSequenceIfGotoResolution(t *testing.T) {
	var program []byte

	// if (equaln(var:0,0)) <displacement> ; displacement computed below
	ifHeader := []byte{0xFF, 0x01, 0x00, 0x00, 0xFF}
	// increment(var:1) is 2 bytes; it directly precedes the return at
	// the if's target, so the if's body (when untaken) falls through to
	// increment then return. The if jumps over increment straight to
	// return.
	incrementOp := []byte{0x01, 0x01}
	returnOp := []byte{0x00}

	// The displacement is measured from the address right after the
	// if's goto i16, i.e. from the start of incrementOp; the target is
	// the start of returnOp, len(incrementOp) bytes further on.
	displacement := len(incrementOp)

	program = append(program, ifHeader...)
	program = append(program, le16(displacement)...)
	program = append(program, incrementOp...)
	program = append(program, returnOp...)

	seq, err := ParseSequence(program, version2400)
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	if len(seq.Operations) != 3 {
		t.Fatalf("got %d operations, want 3 (if, increment, return)", len(seq.Operations))
	}
	ifOp := seq.Operations[0]
	if ifOp.Op != OpIf {
		t.Fatalf("op 0 = %v, want OpIf", ifOp.Op)
	}
	if len(ifOp.Conditions) != 1 || ifOp.Conditions[0].Code != CondEqualN {
		t.Fatalf("if conditions = %#v, want one CondEqualN", ifOp.Conditions)
	}
	returnIndex, ok := seq.LookupOperation(ifOp.Target.Address)
	if !ok {
		t.Fatalf("if target address %d not in label table", ifOp.Target.Address)
	}
	if seq.Operations[returnIndex].Op != OpReturn {
		t.Fatalf("if jumps to op %d (%v), want OpReturn", returnIndex, seq.Operations[returnIndex].Op)
	}
	if seq.Labels[ifOp.Target.Address].IfDestinationCnt == 0 {
		t.Fatalf("expected label at %d to record an if-destination", ifOp.Target.Address)
	}
}

func TestParseSequenceOrAndNot(t *testing.T) {
	// if (or(!isset(f:0), controller(c:2))) goto +0
	program := []byte{
		0xFF,
		0xFC,
		0xFD, 0x07, 0x00, // not isset(flag 0)
		0x0C, 0x02, // controller(2)
		0xFC,
		0xFF,
	}
	program = append(program, le16(0)...)
	// The displacement resolves against the following operation, so the
	// if cannot be the last one.
	program = append(program, buildOp(0x00)...) // return

	seq, err := ParseSequence(program, version2400)
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	ifOp := seq.Operations[0]
	if len(ifOp.Conditions) != 1 || ifOp.Conditions[0].Or == nil {
		t.Fatalf("expected a single or-group condition, got %#v", ifOp.Conditions)
	}
	or := ifOp.Conditions[0].Or
	if len(or) != 2 {
		t.Fatalf("or-group has %d conditions, want 2", len(or))
	}
	if !or[0].Negate || or[0].Code != CondIsSet {
		t.Errorf("or[0] = %#v, want negated CondIsSet", or[0])
	}
	if or[1].Negate || or[1].Code != CondController {
		t.Errorf("or[1] = %#v, want plain CondController", or[1])
	}
}

func TestParseActionVersionSensitiveOpcodes(t *testing.T) {
	// The trailing 0x00 is quit's operand under 2.400 and a separate
	// return under 2.089, where quit takes no operand.
	program := buildOp(0x86, 0x00)
	seq, err := ParseSequence(program, version2089)
	if err != nil {
		t.Fatalf("ParseSequence (2.089): %v", err)
	}
	if seq.Operations[0].Op != OpQuitV0 {
		t.Errorf("0x86 under 2.089 = %v, want OpQuitV0", seq.Operations[0].Op)
	}

	seq, err = ParseSequence(program, version2400)
	if err != nil {
		t.Fatalf("ParseSequence (2.400): %v", err)
	}
	if seq.Operations[0].Op != OpQuitV1 {
		t.Errorf("0x86 under 2.400 = %v, want OpQuitV1", seq.Operations[0].Op)
	}

	// Likewise the final 0x00 is print.at's third number outside
	// 2.089-2.400 and a separate return inside that range.
	printAt := buildOp(0x97, 1, 2, 3, 0x00)
	seq, err = ParseSequence(printAt, Version{2, 300})
	if err != nil {
		t.Fatalf("ParseSequence (2.300): %v", err)
	}
	if seq.Operations[0].Op != OpPrintAtV0 {
		t.Errorf("0x97 under 2.300 = %v, want OpPrintAtV0", seq.Operations[0].Op)
	}

	seq, err = ParseSequence(printAt, Version{3, 2086})
	if err != nil {
		t.Fatalf("ParseSequence (3.2086): %v", err)
	}
	if seq.Operations[0].Op != OpPrintAtV1 {
		t.Errorf("0x97 under 3.2086 = %v, want OpPrintAtV1", seq.Operations[0].Op)
	}
}

func TestParseActionUnhandledByteFails(t *testing.T) {
	if _, err := ParseSequence([]byte{0x11}, version2400); err == nil {
		t.Fatal("expected ErrUnhandledAction for gap byte 0x11")
	}
}

func TestParseResourceSplitsBytecodeAndMessages(t *testing.T) {
	bytecode := buildOp(0x00) // return
	messages := []string{"hi"}
	adjust := 2 + len(messages)*2
	pool := buildMessagePool(t, messages, messageXORKey, adjust)

	var data []byte
	data = append(data, le16(len(bytecode))...)
	data = append(data, bytecode...)
	data = append(data, pool...)

	resource, err := ParseResource(data, version2400, CompressionNone)
	if err != nil {
		t.Fatalf("ParseResource: %v", err)
	}
	if len(resource.Sequence.Operations) != 1 || resource.Sequence.Operations[0].Op != OpReturn {
		t.Fatalf("sequence = %#v, want single OpReturn", resource.Sequence.Operations)
	}
	if resource.Messages.String(1) != "hi" {
		t.Fatalf("message 1 = %q, want hi", resource.Messages.String(1))
	}
}

func TestParseResourceEmptyIsNotAnError(t *testing.T) {
	resource, err := ParseResource([]byte{0x01}, version2400, CompressionNone)
	if err != nil {
		t.Fatalf("ParseResource on short input: %v", err)
	}
	if len(resource.Sequence.Operations) != 0 {
		t.Fatalf("expected empty sequence, got %d operations", len(resource.Sequence.Operations))
	}
}
