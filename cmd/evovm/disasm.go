package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akhildatla/evovm/pkg/linear"
)

// disasmCmd prints the canonical disassembly of a genome listing.
var disasmCmd = &cobra.Command{
	Use:   "disasm <genome.txt>",
	Short: "Print the canonical disassembly of a genome",
	Long: `Disasm parses a genome listing and reprints it with scope
indentation and numeric arguments, the same listing form load accepts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		vm := linear.NewVM()
		if err := vm.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
		return vm.PrintGenome(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
