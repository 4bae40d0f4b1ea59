package dirres

import (
	"errors"
	"testing"
)

func TestParseDirectoryScenario1(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x12, 0x34, 0x56}
	dir, err := ParseDirectory(data)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}
	if dir.Len() != 3 {
		t.Fatalf("got %d entries, want 3", dir.Len())
	}

	e0, ok := dir.Get(0)
	if !ok || e0.Volume != 0 || e0.Offset != 0 || !e0.Present() {
		t.Fatalf("entry 0 = %+v", e0)
	}
	e1, ok := dir.Get(1)
	if !ok || e1.Present() {
		t.Fatalf("entry 1 should be empty, got %+v", e1)
	}
	e2, ok := dir.Get(2)
	if !ok || e2.Volume != 1 || e2.Offset != 0x23456 {
		t.Fatalf("entry 2 = %+v, want vol=1 off=0x23456", e2)
	}
}

func TestParseDirectoryLengths(t *testing.T) {
	for n := 0; n <= 9; n++ {
		data := make([]byte, n)
		_, err := ParseDirectory(data)
		if n%3 == 0 {
			if err != nil {
				t.Errorf("len %d: unexpected error %v", n, err)
			}
		} else {
			if !errors.Is(err, ErrMalformedDirectory) {
				t.Errorf("len %d: want ErrMalformedDirectory, got %v", n, err)
			}
		}
	}
}

func TestDirectoryGetOutOfRange(t *testing.T) {
	dir, _ := ParseDirectory([]byte{0, 0, 0})
	if _, ok := dir.Get(1); ok {
		t.Fatal("expected out-of-range Get to report !ok")
	}
}
