package eeprom

import (
	"github.com/joshuapare/eekit/flash"
)

// SectorInfo summarizes one sector.
type SectorInfo struct {
	Sector      Sector       `json:"sector"`
	Base        uint32       `json:"base"`
	Status      SectorStatus `json:"status"`
	UsedSlots   int          `json:"used_slots"`
	FreeSlots   int          `json:"free_slots"`
	FullyErased bool         `json:"fully_erased"`
	// Erases is the highest erase count among the sector's blocks, zero when
	// the device does not track wear.
	Erases uint32 `json:"erases"`
}

// Info summarizes a sector pair.
type Info struct {
	Geometry Geometry      `json:"geometry"`
	Sectors  [2]SectorInfo `json:"sectors"`
	// ReadSector is the sector reads resolve to, -1 when neither is Valid.
	ReadSector int `json:"read_sector"`
	// WriteSector is the sector the next append lands in, -1 when none.
	WriteSector int `json:"write_sector"`
}

// Inspect reads both sectors without mutating flash. It does not require an
// initialized Store, so it can examine an image before recovery runs.
func Inspect(dev flash.Device, geo Geometry) (Info, error) {
	if err := CheckDevice(dev, geo); err != nil {
		return Info{}, err
	}
	st := &Store{dev: dev, geo: geo, layout: geo.layout(), log: DefaultOptions().Logger}
	info := Info{Geometry: geo, ReadSector: -1, WriteSector: -1}

	counter, _ := dev.(flash.EraseCounter)
	for _, s := range []Sector{Sector0, Sector1} {
		used := st.scanFree(s, 0)
		si := SectorInfo{
			Sector:      s,
			Base:        geo.SectorBase(s),
			Status:      st.statusOf(s),
			UsedSlots:   used,
			FreeSlots:   geo.Slots() - used,
			FullyErased: st.isFullyErased(s),
		}
		if counter != nil {
			for _, addr := range geo.Blocks(s) {
				si.Erases = max(si.Erases, counter.EraseCount(addr))
			}
		}
		info.Sectors[s] = si
	}
	if s, err := st.findActive(modeRead); err == nil {
		info.ReadSector = int(s)
	}
	if s, err := st.findActive(modeWrite); err == nil {
		info.WriteSector = int(s)
	}
	return info, nil
}
