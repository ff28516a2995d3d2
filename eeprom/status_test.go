package eeprom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/eekit/flash"
	"github.com/joshuapare/eekit/internal/format"
)

func newTestStore(t *testing.T) (*Store, *flash.Array) {
	t.Helper()
	geo := NewGeometry(0, 64, 4, 4, 2)
	a, err := flash.NewArray(128, flash.ArrayConfig{WordSize: 4, BlockSize: 64})
	require.NoError(t, err)
	st, err := New(a, geo, nil)
	require.NoError(t, err)
	return st, a
}

func tag(status SectorStatus) uint64 {
	switch status {
	case StatusReceiving:
		return format.ReceivingWord(4)
	case StatusValid:
		return format.ValidWord()
	case StatusInvalid:
		return 0x12345678
	}
	return format.ErasedWord(4)
}

func TestClassifyTag(t *testing.T) {
	tests := []struct {
		word  uint64
		width int
		want  SectorStatus
	}{
		{0xFFFF, 2, StatusErased},
		{0xEEEE, 2, StatusReceiving},
		{0, 2, StatusValid},
		{0xFFFFFFFF, 4, StatusErased},
		{0xEEEEEEEE, 4, StatusReceiving},
		{0xEEEE, 4, StatusInvalid},
		{0xFFFFFFFFFFFFFFFF, 8, StatusErased},
		{0xEEEEEEEEEEEEEEEE, 8, StatusReceiving},
		{0xEEEEEEEE, 8, StatusInvalid},
		{1, 4, StatusInvalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTag(tt.word, tt.width), "0x%X/%d", tt.word, tt.width)
	}
}

func TestFindActive(t *testing.T) {
	const none = Sector(-1)
	tests := []struct {
		s0, s1 SectorStatus
		read   Sector
		write  Sector
	}{
		{StatusValid, StatusErased, Sector0, Sector0},
		{StatusErased, StatusValid, Sector1, Sector1},
		{StatusValid, StatusReceiving, Sector0, Sector1},
		{StatusReceiving, StatusValid, Sector1, Sector0},
		{StatusErased, StatusErased, none, none},
		{StatusErased, StatusReceiving, none, none},
		{StatusInvalid, StatusInvalid, none, none},
		{StatusValid, StatusInvalid, Sector0, Sector0},
	}
	for _, tt := range tests {
		t.Run(tt.s0.String()+"/"+tt.s1.String(), func(t *testing.T) {
			st, a := newTestStore(t)
			for s, status := range map[Sector]SectorStatus{Sector0: tt.s0, Sector1: tt.s1} {
				if status != StatusErased {
					require.NoError(t, a.WriteWord(st.geo.SectorBase(s), tag(status)))
				}
			}
			for mode, want := range map[accessMode]Sector{modeRead: tt.read, modeWrite: tt.write} {
				got, err := st.findActive(mode)
				if want == none {
					require.ErrorIs(t, err, ErrSectorInvalid)
					continue
				}
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestSetStatusRejectsErasedAndInvalid(t *testing.T) {
	st, _ := newTestStore(t)
	assert.Panics(t, func() { _ = st.setStatus(Sector0, StatusErased) })
	assert.Panics(t, func() { _ = st.setStatus(Sector0, StatusInvalid) })
}

func TestEnsureErasedSkipsCleanSector(t *testing.T) {
	st, a := newTestStore(t)

	erased, err := st.ensureErased(Sector1)
	require.NoError(t, err)
	assert.False(t, erased)
	assert.Zero(t, a.EraseCount(st.geo.SectorBase(Sector1)))

	// A stray word deep in the sector still counts as dirty.
	require.NoError(t, a.WriteWord(st.geo.SectorBase(Sector1)+60, 0))
	erased, err = st.ensureErased(Sector1)
	require.NoError(t, err)
	assert.True(t, erased)
	assert.True(t, st.isFullyErased(Sector1))
}

func TestRebuildCache(t *testing.T) {
	st, a := newTestStore(t)
	require.NoError(t, st.Init())
	require.NoError(t, st.Write(0, []uint64{1, 2, 3}))

	st.rebuildCache()
	assert.Equal(t, positionCache{
		writeSector: Sector0, writeSlot: 3, writeKnown: true,
		readSector: Sector0, readSlot: 3, readKnown: true,
	}, st.cache)

	// Mid-compaction the read cursor is left for the first read to compute.
	require.NoError(t, a.WriteWord(st.geo.SectorBase(Sector1), format.ReceivingWord(4)))
	require.NoError(t, a.WriteWord(st.geo.SlotAddr(Sector1, 0), st.layout.Encode(0, 9)))
	st.rebuildCache()
	assert.Equal(t, Sector1, st.cache.writeSector)
	assert.Equal(t, 1, st.cache.writeSlot)
	assert.False(t, st.cache.readKnown)

	v, err := st.readKey(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v, "reads stay on the valid sector")
	assert.True(t, st.cache.readKnown)
	assert.Equal(t, 3, st.cache.readSlot)
}

func TestGeometryAddressing(t *testing.T) {
	geo := Geometry{Bases: [2]uint32{0x8000, 0x2000}, SectorSize: 0x2000, BlockSize: 0x800, WordSize: 8, DataSize: 4, Capacity: 100}
	require.NoError(t, geo.Validate())
	assert.Equal(t, 0x2000/8-1, geo.Slots())
	assert.Equal(t, uint32(0x8008), geo.SlotAddr(Sector0, 0))
	assert.Equal(t, uint32(0x2000+8*11), geo.SlotAddr(Sector1, 10))
	assert.Equal(t, []uint32{0x2000, 0x2800, 0x3000, 0x3800}, geo.Blocks(Sector1))
	assert.Equal(t, uint64(0xFFFFFFFF), geo.ValueMask())
	assert.Equal(t, Sector1, Sector0.Other())
	assert.Equal(t, "sector1", Sector1.String())

	def := DefaultGeometry()
	require.NoError(t, def.Validate())
	assert.Equal(t, [2]uint32{0, 8192}, def.Bases)
	assert.Equal(t, 2047, def.Slots())
}
