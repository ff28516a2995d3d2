package format

import (
	"errors"
	"testing"
)

func TestLayoutEncodeDecode(t *testing.T) {
	l := Layout{WordSize: 4, DataSize: 2}

	word := l.Encode(0x0012, 0xBEEF)
	if word != 0x0012BEEF {
		t.Fatalf("Encode = 0x%08X, want 0x0012BEEF", word)
	}
	rec := l.Decode(word)
	if rec.Key != 0x12 || rec.Value != 0xBEEF {
		t.Fatalf("Decode = %+v", rec)
	}
}

func TestLayoutEncodeTruncatesValue(t *testing.T) {
	l := Layout{WordSize: 4, DataSize: 1}
	if got := l.Encode(3, 0x1FF); got != 0x03FF {
		t.Fatalf("Encode = 0x%X, want 0x3FF", got)
	}
}

func TestLayoutWidths(t *testing.T) {
	tests := []struct {
		name      string
		layout    Layout
		valueMask uint64
		keyLimit  uint64
	}{
		{"16/8", Layout{WordSize: 2, DataSize: 1}, 0xFF, 0x100},
		{"32/8", Layout{WordSize: 4, DataSize: 1}, 0xFF, 0x1000000},
		{"32/16", Layout{WordSize: 4, DataSize: 2}, 0xFFFF, 0x10000},
		{"64/32", Layout{WordSize: 8, DataSize: 4}, 0xFFFFFFFF, 0x100000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.layout.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got := tt.layout.ValueMask(); got != tt.valueMask {
				t.Fatalf("ValueMask = 0x%X, want 0x%X", got, tt.valueMask)
			}
			if got := tt.layout.KeyLimit(); got != tt.keyLimit {
				t.Fatalf("KeyLimit = 0x%X, want 0x%X", got, tt.keyLimit)
			}
		})
	}
}

func TestLayoutValidateRejects(t *testing.T) {
	for _, l := range []Layout{
		{WordSize: 3, DataSize: 1},
		{WordSize: 4, DataSize: 0},
		{WordSize: 4, DataSize: 4},
	} {
		if err := l.Validate(); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("Validate(%+v) = %v, want ErrUnsupported", l, err)
		}
	}
}

func TestFreeSlotNeverDecodesToValidKey(t *testing.T) {
	l := Layout{WordSize: 8, DataSize: 1}
	erased := ErasedWord(8)
	if !l.Free(erased) {
		t.Fatalf("erased word not reported free")
	}
	if l.Key(erased) != l.KeyLimit()-1 {
		t.Fatalf("free slot key = 0x%X, want reserved key 0x%X", l.Key(erased), l.KeyLimit()-1)
	}
}

func TestStatusWords(t *testing.T) {
	if got := ErasedWord(4); got != 0xFFFFFFFF {
		t.Fatalf("ErasedWord(4) = 0x%X", got)
	}
	if got := ReceivingWord(4); got != 0xEEEEEEEE {
		t.Fatalf("ReceivingWord(4) = 0x%X", got)
	}
	if got := ReceivingWord(2); got != 0xEEEE {
		t.Fatalf("ReceivingWord(2) = 0x%X", got)
	}
	if got := ErasedWord(8); got != ^uint64(0) {
		t.Fatalf("ErasedWord(8) = 0x%X", got)
	}
	// Valid must be reachable from Receiving by clearing bits only.
	if ValidWord()&^ReceivingWord(4) != 0 {
		t.Fatalf("Valid tag sets bits absent from Receiving")
	}
}
