package format

import "errors"

var (
	// ErrInvalidParam indicates a key range outside the capacity, an empty
	// batch, or a value wider than the cell.
	ErrInvalidParam = errors.New("eeprom: invalid parameter")
	// ErrNotFound indicates a key with no record on the valid sector.
	ErrNotFound = errors.New("eeprom: key not found")
	// ErrSectorInvalid indicates neither sector carries a usable tag.
	ErrSectorInvalid = errors.New("eeprom: no valid sector")
	// ErrSectorFull indicates the write target has no free slot left.
	ErrSectorFull = errors.New("eeprom: sector full")
	// ErrUnsupported indicates a word or cell width the codec cannot express.
	ErrUnsupported = errors.New("format: unsupported layout")
)
