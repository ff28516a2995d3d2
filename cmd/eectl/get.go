package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/eekit/eeprom"
)

var getHex bool

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getHex, "hex", false, "Output values as hex")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <image> <key> [count]",
		Short: "Read one or more consecutive cells",
		Long: `The get command reads count cells starting at key (default 1). Keys
may be decimal or 0x-prefixed hex. A key that was never written is an error.

Example:
  eectl get flash.img 3
  eectl get flash.img 0x10 4 --hex`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	start, err := parseKey(args[1])
	if err != nil {
		return err
	}
	count := 1
	if len(args) == 3 {
		count, err = strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[2], err)
		}
	}

	st, dev, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer dev.Close()

	vals, err := st.Read(start, count)
	if err != nil {
		return fmt.Errorf("failed to read keys [%d, %d): %w", start, int(start)+count, err)
	}

	recs := make([]eeprom.Record, len(vals))
	for i, v := range vals {
		recs[i] = eeprom.Record{Key: start + uint32(i), Value: v}
	}
	return printRecords(recs, getHex)
}
