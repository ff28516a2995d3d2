package writer

// MemWriter keeps the latest image in memory, for snapshots of an array
// under test.
type MemWriter struct {
	// Size, when non-zero, is the only image length accepted.
	Size int
	Buf  []byte
	// Writes counts accepted images.
	Writes int
}

// WriteImage stores a copy of img, reusing Buf.
func (w *MemWriter) WriteImage(img []byte) error {
	if err := checkSize(w.Size, img); err != nil {
		return err
	}
	w.Buf = append(w.Buf[:0], img...)
	w.Writes++
	return nil
}
