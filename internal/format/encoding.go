package format

// WordMask returns the all-ones pattern for a word of width bytes.
func WordMask(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return uint64(1)<<(8*uint(width)) - 1
}

// ErasedWord is the value read back from an erased word of the given width.
func ErasedWord(width int) uint64 {
	return WordMask(width)
}

// ReceivingWord is the Receiving tag for the given width (0xEE in every byte).
func ReceivingWord(width int) uint64 {
	var w uint64
	for i := 0; i < width && i < 8; i++ {
		w = w<<8 | ReceivingByte
	}
	return w
}

// ValidWord is the Valid tag. Programming it over a Receiving tag only clears
// bits, so promotion never needs an erase.
func ValidWord() uint64 {
	return 0
}
