package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/eekit/flash"
)

var createForce bool

func init() {
	cmd := newCreateCmd()
	cmd.Flags().BoolVarP(&createForce, "force", "f", false, "Overwrite an existing image")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <image>",
		Short: "Create an erased flash image",
		Long: `The create command writes an image holding both sectors with every
byte erased. The first init formats it.

Example:
  eectl create flash.img
  eectl create flash.img --sector-size 4096 --capacity 128`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	return cmd
}

func runCreate(args []string) error {
	path := args[0]

	geo, err := geometry()
	if err != nil {
		return err
	}
	if !createForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	size := 2 * geo.SectorSize
	if err := flash.CreateImage(path, size); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"image":    path,
			"size":     size,
			"geometry": geo,
		})
	}
	printInfo("Created %s (%d bytes, %d slots per sector)\n", path, size, geo.Slots())
	return nil
}
