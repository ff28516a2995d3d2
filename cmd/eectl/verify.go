package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/eekit/eeprom/verify"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <image>",
		Short: "Check the on-flash invariants of an image",
		Long: `The verify command checks that one sector is valid, the other fully
erased, and every record well formed. The image is not modified. An image
left mid-compaction fails until init repairs it.

Example:
  eectl verify flash.img`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

func runVerify(args []string) error {
	dev, geo, err := openDevice(args[0], true)
	if err != nil {
		return err
	}
	defer dev.Close()

	verr := verify.AllInvariants(dev, geo)
	if jsonOut {
		out := map[string]interface{}{"valid": verr == nil}
		if verr != nil {
			out["error"] = verr.Error()
		}
		if err := printJSON(out); err != nil {
			return err
		}
		return verr
	}
	if verr != nil {
		return verr
	}
	printInfo("✓ %s: all invariants hold\n", args[0])
	return nil
}
