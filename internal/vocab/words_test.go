package vocab

import (
	"errors"
	"testing"
)

func TestParseVocabularyConstructOKA(t *testing.T) {
	data := make([]byte, wordsHeaderSize)
	data = append(data, 0x00, ('a'^0x7F)|0x80, 0x12, 0x34)

	v, err := ParseVocabulary(data)
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}
	g, ok := v.GroupOf("a")
	if !ok || g != 0x1234 {
		t.Fatalf("GroupOf(a) = %d, %v; want 0x1234, true", g, ok)
	}
}

func TestParseVocabularyTrailingZero(t *testing.T) {
	data := make([]byte, wordsHeaderSize)
	data = append(data, 0x00, ('a'^0x7F)|0x80, 0x12, 0x34, 0x00)

	v, err := ParseVocabulary(data)
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}
	if g, ok := v.GroupOf("a"); !ok || g != 0x1234 {
		t.Fatalf("GroupOf(a) = %d, %v", g, ok)
	}
}

func TestParseVocabularyEmpty(t *testing.T) {
	data := make([]byte, wordsHeaderSize)
	if _, err := ParseVocabulary(data); !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("got %v, want ErrEmptyVocabulary", err)
	}
}

func TestParseVocabularyBrokenString(t *testing.T) {
	data := make([]byte, wordsHeaderSize)
	// High bit never set on the suffix byte, so the terminator is missing
	// and the stream runs out before finding one.
	data = append(data, 0x00, 'a'^0x7F, 0x12, 0x34)

	if _, err := ParseVocabulary(data); !errors.Is(err, ErrTruncatedVocabulary) {
		t.Fatalf("got %v, want ErrTruncatedVocabulary", err)
	}
}

func TestParseVocabularyPrefixSharing(t *testing.T) {
	data := make([]byte, wordsHeaderSize)
	// "an" (prefix 0), then "and" reusing 2 chars of the prefix ("an" + "d").
	data = append(data,
		0x00, ('a' ^ 0x7F), (('n' ^ 0x7F) | 0x80), 0x00, 0x01,
		0x02, (('d' ^ 0x7F) | 0x80), 0x00, 0x02,
	)

	v, err := ParseVocabulary(data)
	if err != nil {
		t.Fatalf("ParseVocabulary: %v", err)
	}
	if g, ok := v.GroupOf("an"); !ok || g != 1 {
		t.Fatalf("GroupOf(an) = %d, %v", g, ok)
	}
	if g, ok := v.GroupOf("and"); !ok || g != 2 {
		t.Fatalf("GroupOf(and) = %d, %v", g, ok)
	}
}
