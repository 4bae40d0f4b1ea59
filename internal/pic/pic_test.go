package pic

import "testing"

func TestDrawLinesScenario4(t *testing.T) {
	program := []byte{0xF0, 0x04, 0xF6, 0x00, 0x00, 0x05, 0x00, 0x05, 0x05, 0x00, 0x05, 0xFF}
	planes := NewPlanes()

	if err := Draw(program, planes); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	// Horizontal run (0,0)-(5,0) and vertical run (5,0)-(5,5) must be
	// colour 4 on the visual plane.
	for x := 0; x <= 5; x++ {
		if got := planes.Visual[0*Width+x]; got != 4 {
			t.Errorf("visual(%d,0) = %d, want 4", x, got)
		}
	}
	for y := 0; y <= 5; y++ {
		if got := planes.Visual[y*Width+5]; got != 4 {
			t.Errorf("visual(5,%d) = %d, want 4", y, got)
		}
	}

	for i, v := range planes.Priority {
		if v != defaultPriority {
			t.Fatalf("priority[%d] = %d, want unchanged default %d", i, v, defaultPriority)
		}
	}
}

func TestFloodFillBoundedByPlane(t *testing.T) {
	planes := NewPlanes()
	program := []byte{0xF0, 0x01, 0xF8, 0x00, 0x00, 0xFF}

	if err := Draw(program, planes); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for i, v := range planes.Visual {
		if v != 1 {
			t.Fatalf("visual[%d] = %d, want fully flooded to 1", i, v)
		}
	}
}

func TestFloodFillSeedOutsidePlaneIsNoop(t *testing.T) {
	planes := NewPlanes()
	d := &decoder{planes: planes, pen: pen{colourOn: true, colour: 1}}
	d.floodFill(200, 50) // x=200 is out of the 0..159 range

	for i, v := range planes.Visual {
		if v != defaultVisual {
			t.Fatalf("visual[%d] = %d, want untouched default %d", i, v, defaultVisual)
		}
	}
}

func TestUnhandledOpcodeFails(t *testing.T) {
	planes := NewPlanes()
	if err := Draw([]byte{0xF9}, planes); err == nil {
		t.Fatal("expected error for unhandled opcode 0xF9")
	}
}

func TestDecodeRelativeSignMagnitude(t *testing.T) {
	cases := []struct {
		in   uint8
		want int16
	}{
		{0x0, 0}, {0x3, 3}, {0x7, 7}, {0x8, 0}, {0xB, -3}, {0xF, -7},
	}
	for _, c := range cases {
		if got := decodeRelative(c.in); got != c.want {
			t.Errorf("decodeRelative(0x%X) = %d, want %d", c.in, got, c.want)
		}
	}
}
