package format

import "fmt"

// Record is a decoded (key, value) pair.
type Record struct {
	Key   uint32 `json:"key"`
	Value uint64 `json:"value"`
}

// Layout describes how a record packs into one flash word: the key occupies
// the high WordSize-DataSize bytes and the value the low DataSize bytes.
type Layout struct {
	WordSize int // W, bytes per program word
	DataSize int // D, bytes per logical cell
}

// Validate reports whether the widths can be packed.
func (l Layout) Validate() error {
	switch l.WordSize {
	case Word16, Word32, Word64:
	default:
		return fmt.Errorf("%w: word size %d (want 2, 4 or 8)", ErrUnsupported, l.WordSize)
	}
	if l.DataSize < 1 || l.DataSize >= l.WordSize {
		return fmt.Errorf("%w: data size %d with word size %d", ErrUnsupported, l.DataSize, l.WordSize)
	}
	return nil
}

// ValueMask is the mask of bits available to a cell value.
func (l Layout) ValueMask() uint64 {
	return WordMask(l.DataSize)
}

// KeyLimit is one past the largest key the layout can encode. The all-ones key
// is reserved: combined with an all-ones value it would read as a free slot.
func (l Layout) KeyLimit() uint64 {
	return WordMask(l.WordSize-l.DataSize) + 1
}

// Encode packs key and value into a word. value is truncated to the cell width.
func (l Layout) Encode(key uint32, value uint64) uint64 {
	return (uint64(key)<<(8*uint(l.DataSize)) | value&l.ValueMask()) & WordMask(l.WordSize)
}

// Key extracts the key bits of word. It is kept 64 bits wide so a corrupt
// slot never truncates into a valid key.
func (l Layout) Key(word uint64) uint64 {
	return (word & WordMask(l.WordSize)) >> (8 * uint(l.DataSize))
}

// Value extracts the value bits of word.
func (l Layout) Value(word uint64) uint64 {
	return word & l.ValueMask()
}

// Decode unpacks a word.
func (l Layout) Decode(word uint64) Record {
	return Record{Key: uint32(l.Key(word)), Value: l.Value(word)}
}

// Free reports whether word is an unused (erased) slot.
func (l Layout) Free(word uint64) bool {
	return word == ErasedWord(l.WordSize)
}
