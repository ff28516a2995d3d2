package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/eekit/eeprom"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Report sector status and usage",
		Long: `The info command shows the status tag, slot usage and wear of both
sectors. The image is opened read-only and recovery is not run, so it shows
exactly what a power cut left behind.

Example:
  eectl info flash.img
  eectl info flash.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	dev, geo, err := openDevice(args[0], true)
	if err != nil {
		return err
	}
	defer dev.Close()

	info, err := eeprom.Inspect(dev, geo)
	if err != nil {
		return fmt.Errorf("failed to inspect: %w", err)
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nImage Information:\n")
	printInfo("  File: %s\n", args[0])
	printInfo("  Capacity: %d keys, %d-byte cells in %d-byte words\n", geo.Capacity, geo.DataSize, geo.WordSize)
	printInfo("  Slots per sector: %d\n", geo.Slots())
	for _, s := range info.Sectors {
		printInfo("\n%s @ 0x%08X\n", s.Sector, s.Base)
		printInfo("  Status: %s\n", s.Status)
		printInfo("  Used slots: %d\n", s.UsedSlots)
		printInfo("  Free slots: %d\n", s.FreeSlots)
		printInfo("  Fully erased: %t\n", s.FullyErased)
	}
	printInfo("\n")
	if info.ReadSector < 0 {
		printInfo("No valid sector: init will format the image\n")
	} else {
		printInfo("Active: sector%d\n", info.ReadSector)
	}
	return nil
}
