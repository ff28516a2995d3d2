package flash

// FaultDevice wraps a Device and injects failures into its mutations.
// Reads always pass through, so a test can "reboot" onto the same
// contents after a simulated power cut.
type FaultDevice struct {
	dev Device

	budget  int // mutations left before the cut; -1 means no cut armed
	lost    bool
	failN   int
	failErr error

	writes int
	erases int
}

// NewFaultDevice wraps dev with no faults armed.
func NewFaultDevice(dev Device) *FaultDevice {
	return &FaultDevice{dev: dev, budget: -1}
}

// CutAfter lets n more mutations through, then drops every later one with
// ErrPowerLoss until Restore is called.
func (f *FaultDevice) CutAfter(n int) {
	f.budget = n
	f.lost = false
}

// FailNext makes the next n mutations fail with err without applying them.
func (f *FaultDevice) FailNext(n int, err error) {
	f.failN = n
	f.failErr = err
}

// Restore brings power back and disarms every fault.
func (f *FaultDevice) Restore() {
	f.budget = -1
	f.lost = false
	f.failN = 0
	f.failErr = nil
}

// PowerLost reports whether the cut has been reached.
func (f *FaultDevice) PowerLost() bool { return f.lost }

// Mutations returns the number of writes and erases applied to the inner device.
func (f *FaultDevice) Mutations() int { return f.writes + f.erases }

// Writes returns the number of word programs applied.
func (f *FaultDevice) Writes() int { return f.writes }

// Erases returns the number of block erases applied.
func (f *FaultDevice) Erases() int { return f.erases }

// ReadWord passes through to the wrapped device.
func (f *FaultDevice) ReadWord(addr uint32) uint64 {
	return f.dev.ReadWord(addr)
}

// WriteWord programs a word unless a fault is armed.
func (f *FaultDevice) WriteWord(addr uint32, word uint64) error {
	if err := f.admit(); err != nil {
		return err
	}
	if err := f.dev.WriteWord(addr, word); err != nil {
		return err
	}
	f.writes++
	return nil
}

// EraseBlock erases a block unless a fault is armed.
func (f *FaultDevice) EraseBlock(addr uint32) error {
	if err := f.admit(); err != nil {
		return err
	}
	if err := f.dev.EraseBlock(addr); err != nil {
		return err
	}
	f.erases++
	return nil
}

// EraseCount forwards to the wrapped device when it tracks wear.
func (f *FaultDevice) EraseCount(addr uint32) uint32 {
	if ec, ok := f.dev.(EraseCounter); ok {
		return ec.EraseCount(addr)
	}
	return 0
}

func (f *FaultDevice) admit() error {
	if f.lost {
		return ErrPowerLoss
	}
	if f.budget == 0 {
		f.lost = true
		return ErrPowerLoss
	}
	if f.failN > 0 {
		f.failN--
		return f.failErr
	}
	if f.budget > 0 {
		f.budget--
	}
	return nil
}
