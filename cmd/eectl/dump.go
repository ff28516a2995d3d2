package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dumpHex bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpHex, "hex", false, "Output values as hex")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Print every written cell",
		Long: `The dump command prints the current value of every key that has been
written, in key order.

Example:
  eectl dump flash.img
  eectl dump flash.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	st, dev, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer dev.Close()

	recs, err := st.Dump()
	if err != nil {
		return fmt.Errorf("failed to dump: %w", err)
	}
	printVerbose("%d of %d keys written\n", len(recs), st.Geometry().Capacity)
	return printRecords(recs, dumpHex)
}
