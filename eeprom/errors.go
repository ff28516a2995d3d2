package eeprom

import (
	"errors"

	"github.com/joshuapare/eekit/internal/format"
)

var (
	// ErrInvalidParam indicates a key range outside [0, Capacity), an empty
	// batch, or a value wider than the cell.
	ErrInvalidParam = format.ErrInvalidParam

	// ErrNotFound indicates a key that was never written on the valid sector.
	ErrNotFound = format.ErrNotFound

	// ErrSectorInvalid indicates neither sector is valid. After Init it means
	// the flash was corrupted underneath the engine and should be treated as
	// fatal.
	ErrSectorInvalid = format.ErrSectorInvalid

	// ErrNotInitialized indicates a Read or Write before a successful Init.
	ErrNotInitialized = errors.New("eeprom: store not initialized")

	// ErrRecoveryNeeded indicates a compaction failed part way through
	// without power loss. The sector pair is left for Init to repair.
	ErrRecoveryNeeded = errors.New("eeprom: compaction interrupted, Init required")
)
