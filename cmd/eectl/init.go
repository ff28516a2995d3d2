package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <image>",
		Short: "Run power-loss recovery on an image",
		Long: `The init command runs the same recovery the firmware runs at boot and
reports what it had to repair. A blank image is formatted.

Example:
  eectl init flash.img
  eectl init flash.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
	return cmd
}

func runInit(args []string) error {
	st, dev, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer dev.Close()

	rep := st.LastRecovery()
	if jsonOut {
		return printJSON(rep)
	}

	printInfo("Found: sector0 %s, sector1 %s\n", rep.Before[0], rep.Before[1])
	printInfo("Action: %s\n", rep.Action)
	if rep.Copied > 0 {
		printInfo("Keys copied: %d\n", rep.Copied)
	}
	if rep.Erased > 0 {
		printInfo("Sectors erased: %d\n", rep.Erased)
	}
	return nil
}
