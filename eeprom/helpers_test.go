package eeprom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/eekit/eeprom"
	"github.com/joshuapare/eekit/eeprom/verify"
	"github.com/joshuapare/eekit/flash"
	"github.com/joshuapare/eekit/internal/format"
)

// smallGeometry is four keys over 64-byte sectors: 15 record slots each.
func smallGeometry() eeprom.Geometry {
	return eeprom.NewGeometry(0, 64, 4, 4, 2)
}

func newArray(t *testing.T, geo eeprom.Geometry) *flash.Array {
	t.Helper()
	a, err := flash.NewArray(2*geo.SectorSize, flash.ArrayConfig{
		Base:      geo.Bases[0],
		WordSize:  geo.WordSize,
		BlockSize: geo.BlockSize,
	})
	require.NoError(t, err)
	return a
}

func openStore(t *testing.T, dev flash.Device, geo eeprom.Geometry) *eeprom.Store {
	t.Helper()
	st, err := eeprom.New(dev, geo, nil)
	require.NoError(t, err)
	require.NoError(t, st.Init())
	return st
}

func requireSettled(t *testing.T, dev flash.Device, geo eeprom.Geometry) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(dev, geo))
}

func requireValues(t *testing.T, st *eeprom.Store, want map[uint32]uint64) {
	t.Helper()
	for k := uint32(0); k < st.Geometry().Capacity; k++ {
		got, err := st.Get(k)
		v, ok := want[k]
		if !ok {
			require.ErrorIs(t, err, eeprom.ErrNotFound, "key %d", k)
			continue
		}
		require.NoError(t, err, "key %d", k)
		require.Equal(t, v, got, "key %d", k)
	}
}

// program writes raw words into a, for building flash states by hand.
func program(t *testing.T, a *flash.Array, addr uint32, words ...uint64) {
	t.Helper()
	for i, w := range words {
		require.NoError(t, a.WriteWord(addr+uint32(i*a.Config().WordSize), w))
	}
}

func record(geo eeprom.Geometry, key uint32, value uint64) uint64 {
	return format.Layout{WordSize: geo.WordSize, DataSize: geo.DataSize}.Encode(key, value)
}
