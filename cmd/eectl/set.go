package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <image> <key> <value>...",
		Short: "Write one or more consecutive cells",
		Long: `The set command writes the values to consecutive keys starting at key,
compacting into the other sector when the active one is full.

Example:
  eectl set flash.img 3 42
  eectl set flash.img 0 0xAA 0xBB 0xCC 0xDD`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

func runSet(args []string) error {
	start, err := parseKey(args[1])
	if err != nil {
		return err
	}
	values := make([]uint64, 0, len(args)-2)
	for _, s := range args[2:] {
		v, err := parseValue(s)
		if err != nil {
			return err
		}
		values = append(values, v)
	}

	st, dev, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := st.Write(start, values); err != nil {
		return fmt.Errorf("failed to write keys [%d, %d): %w", start, int(start)+len(values), err)
	}
	if err := dev.Sync(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"start":   start,
			"written": len(values),
		})
	}
	printInfo("Wrote %d cell(s) from key %d\n", len(values), start)
	return nil
}
