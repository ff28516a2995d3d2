package eeprom

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/eekit/flash"
	"github.com/joshuapare/eekit/internal/buf"
	"github.com/joshuapare/eekit/internal/format"
)

// Record is a decoded key/value pair.
type Record = format.Record

// Store is an EEPROM emulation over a pair of NOR flash sectors.
//
// A Store is not safe for concurrent use. Callers serialize access.
type Store struct {
	dev    flash.Device
	geo    Geometry
	layout format.Layout
	log    *slog.Logger
	cache  positionCache

	ready         bool
	needsRecovery bool
	last          RecoveryReport
}

// sized is implemented by devices that know their own geometry, such as
// flash.Array and flash.FileDevice.
type sized interface {
	Config() flash.ArrayConfig
	Size() int
}

// New validates geo against dev and returns a Store. No flash is touched
// until Init.
func New(dev flash.Device, geo Geometry, opts *Options) (*Store, error) {
	if err := CheckDevice(dev, geo); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = DefaultOptions().Logger
	}
	return &Store{
		dev:    dev,
		geo:    geo,
		layout: geo.layout(),
		log:    logger,
	}, nil
}

// CheckDevice reports whether geo is usable on dev: the geometry must be
// valid and, when dev knows its own layout, both sectors must fit inside it
// with matching word and erase block sizes. Errors wrap ErrInvalidParam.
func CheckDevice(dev flash.Device, geo Geometry) error {
	if dev == nil {
		return fmt.Errorf("eeprom: nil device: %w", ErrInvalidParam)
	}
	if err := geo.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	if d, ok := dev.(sized); ok {
		if err := checkDevice(d.Config(), d.Size(), geo); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidParam, err)
		}
	}
	return nil
}

func checkDevice(cfg flash.ArrayConfig, size int, geo Geometry) error {
	if cfg.WordSize != geo.WordSize {
		return fmt.Errorf("eeprom: device word size %d, geometry wants %d", cfg.WordSize, geo.WordSize)
	}
	if geo.BlockSize != cfg.BlockSize {
		return fmt.Errorf("eeprom: block size %d, device erases %d byte blocks", geo.BlockSize, cfg.BlockSize)
	}
	for i, base := range geo.Bases {
		if base < cfg.Base {
			return fmt.Errorf("eeprom: sector %d at 0x%X below device base 0x%X", i, base, cfg.Base)
		}
		words := geo.SectorSize / geo.WordSize
		if _, err := buf.CheckSpan(size, int(base-cfg.Base), words, geo.WordSize); err != nil {
			return fmt.Errorf("eeprom: sector %d at 0x%X outside device: %w", i, base, err)
		}
	}
	return nil
}

// Init repairs whatever state a previous power loss left behind and primes
// the position cache. It must succeed before Read or Write. Calling it again
// is harmless: a consistent pair is left untouched.
func (st *Store) Init() error {
	rep, err := st.recover()
	st.last = rep
	if err != nil {
		st.ready = false
		return fmt.Errorf("eeprom: recovery (%s): %w", rep.Action, err)
	}
	st.ready = true
	st.needsRecovery = false
	return nil
}

// Write stores values at consecutive keys starting at start. Every value
// must fit in the cell width.
//
// On a device error part of the batch may already be durable. A power loss
// during Write never loses a key written by an earlier, successful Write.
func (st *Store) Write(start uint32, values []uint64) error {
	if err := st.check(start, len(values)); err != nil {
		return err
	}
	mask := st.layout.ValueMask()
	for i, v := range values {
		if v > mask {
			return fmt.Errorf("eeprom: value 0x%X for key %d exceeds cell mask 0x%X: %w", v, start+uint32(i), mask, ErrInvalidParam)
		}
	}
	return st.writeRange(start, values)
}

// Read returns the most recent values of the n keys starting at start. Any
// key in the range that was never written fails the whole call with
// ErrNotFound.
func (st *Store) Read(start uint32, n int) ([]uint64, error) {
	if err := st.check(start, n); err != nil {
		return nil, err
	}
	return st.readRange(start, n)
}

// Get returns the value of a single key.
func (st *Store) Get(key uint32) (uint64, error) {
	vals, err := st.Read(key, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

// Set stores a single key.
func (st *Store) Set(key uint32, value uint64) error {
	return st.Write(key, []uint64{value})
}

// Dump returns the current value of every written key in key order.
func (st *Store) Dump() ([]Record, error) {
	if err := st.checkState(); err != nil {
		return nil, err
	}
	var out []Record
	for k := uint32(0); k < st.geo.Capacity; k++ {
		v, err := st.readKey(k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Key: k, Value: v})
	}
	return out, nil
}

// Info describes both sectors as they are on flash now.
func (st *Store) Info() (Info, error) {
	return Inspect(st.dev, st.geo)
}

// Geometry returns the geometry the Store was built with.
func (st *Store) Geometry() Geometry { return st.geo }

// LastRecovery returns the report of the most recent Init.
func (st *Store) LastRecovery() RecoveryReport { return st.last }

func (st *Store) checkState() error {
	if !st.ready {
		return ErrNotInitialized
	}
	if st.needsRecovery {
		return ErrRecoveryNeeded
	}
	return nil
}

// check validates state and a key range [start, start+n).
func (st *Store) check(start uint32, n int) error {
	if err := st.checkState(); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("eeprom: empty batch: %w", ErrInvalidParam)
	}
	if uint64(start)+uint64(n) > uint64(st.geo.Capacity) {
		return fmt.Errorf("eeprom: keys [%d, %d) exceed capacity %d: %w",
			start, uint64(start)+uint64(n), st.geo.Capacity, ErrInvalidParam)
	}
	return nil
}
