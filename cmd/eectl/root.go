package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/eekit/cmd/eectl/logger"
	"github.com/joshuapare/eekit/eeprom"
	"github.com/joshuapare/eekit/flash"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	logDir  string

	// Geometry flags
	sectorSize int
	blockSize  int
	capacity   uint32
	wordSize   int
	dataSize   int
	baseAddr   uint32
)

var rootCmd = &cobra.Command{
	Use:   "eectl",
	Short: "Inspect and edit emulated EEPROM flash images",
	Long: `eectl works on image files holding the two NOR flash sectors of an
emulated EEPROM. It can create blank images, run power-loss recovery, read
and write cells, and check the on-flash invariants.

The geometry flags must match the firmware that owns the image.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return logger.Init(logger.Options{
			Enabled: logDir != "",
			LogDir:  logDir,
			Level:   level,
		})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logDir, "log", "", "Write engine logs to a dated file in this directory")

	def := eeprom.DefaultGeometry()
	rootCmd.PersistentFlags().IntVar(&sectorSize, "sector-size", def.SectorSize, "Sector size in bytes")
	rootCmd.PersistentFlags().
		IntVar(&blockSize, "block-size", 0, "Erase block size in bytes (default: one block per sector)")
	rootCmd.PersistentFlags().Uint32Var(&capacity, "capacity", def.Capacity, "Number of logical keys")
	rootCmd.PersistentFlags().IntVar(&wordSize, "word", def.WordSize, "Flash word size in bytes (2, 4 or 8)")
	rootCmd.PersistentFlags().IntVar(&dataSize, "data", def.DataSize, "Cell size in bytes")
	rootCmd.PersistentFlags().Uint32Var(&baseAddr, "base", 0, "Flash address of the first byte of the image")
}

func execute() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// geometry builds the sector pair layout from the flags. Sector 1 follows
// sector 0 directly.
func geometry() (eeprom.Geometry, error) {
	block := blockSize
	if block == 0 {
		block = sectorSize
	}
	geo := eeprom.Geometry{
		Bases:      [2]uint32{baseAddr, baseAddr + uint32(sectorSize)},
		SectorSize: sectorSize,
		BlockSize:  block,
		WordSize:   wordSize,
		DataSize:   dataSize,
		Capacity:   capacity,
	}
	if err := geo.Validate(); err != nil {
		return eeprom.Geometry{}, err
	}
	return geo, nil
}

// openDevice maps an image with the flag geometry.
func openDevice(path string, readOnly bool) (*flash.FileDevice, eeprom.Geometry, error) {
	geo, err := geometry()
	if err != nil {
		return nil, geo, err
	}
	printVerbose("Opening image: %s\n", path)
	dev, err := flash.OpenFile(path, flash.FileOptions{
		ArrayConfig: flash.ArrayConfig{
			Base:      baseAddr,
			WordSize:  geo.WordSize,
			BlockSize: geo.BlockSize,
		},
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, geo, err
	}
	return dev, geo, nil
}

// openStore maps an image read-write and runs recovery on it. The caller
// closes the returned device.
func openStore(path string) (*eeprom.Store, *flash.FileDevice, error) {
	dev, geo, err := openDevice(path, false)
	if err != nil {
		return nil, nil, err
	}
	st, err := eeprom.New(dev, geo, &eeprom.Options{Logger: logger.L})
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	if err := st.Init(); err != nil {
		dev.Close()
		return nil, nil, err
	}
	if rep := st.LastRecovery(); rep.Action != eeprom.RecoveryNone {
		printVerbose("Recovery: %s\n", rep.Action)
	}
	return st, dev, nil
}

// parseKey accepts decimal or 0x-prefixed hex.
func parseKey(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", s, err)
	}
	return uint32(v), nil
}

func parseValue(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}

// formatValue prints a cell as decimal or zero-padded hex.
func formatValue(v uint64, hex bool) string {
	if hex {
		return fmt.Sprintf("0x%0*X", 2*dataSize, v)
	}
	return strconv.FormatUint(v, 10)
}

// printRecords prints key/value pairs as text or JSON.
func printRecords(recs []eeprom.Record, hex bool) error {
	if jsonOut {
		if recs == nil {
			recs = []eeprom.Record{}
		}
		return printJSON(recs)
	}
	for _, r := range recs {
		printInfo("%d = %s\n", r.Key, formatValue(r.Value, hex))
	}
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
