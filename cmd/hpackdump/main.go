// Command hpackdump encodes and decodes HPACK header blocks from the
// command line, for manual inspection and fixture generation.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     config
	out     = colorable.NewColorableStdout()
)

func main() {
	root := &cobra.Command{
		Use:   "hpackdump",
		Short: "Encode and decode HPACK header blocks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
			configureColor()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a hpackdump.yaml config file")

	root.AddCommand(newDecodeCmd())
	root.AddCommand(newEncodeCmd())
	root.AddCommand(newInspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func configureColor() {
	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd())
	}
}
