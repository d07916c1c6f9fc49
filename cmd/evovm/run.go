package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akhildatla/evovm/pkg/linear"
)

var (
	runSteps int
	runRegs  bool
)

// runCmd executes a genome listing on a fresh linear machine.
var runCmd = &cobra.Command{
	Use:   "run <genome.txt>",
	Short: "Execute a genome listing",
	Long: `Run loads a genome listing, executes it for a fixed number of
instruction steps and prints the output buffer.`,
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
		vm.Process(runSteps)

		if runRegs {
			for i := 0; i < linear.NumRegs; i++ {
				fmt.Printf("R%-2d = %v\n", i, vm.GetReg(i))
			}
		}
		for i := 0; i < linear.NumRegs; i++ {
			if v := vm.GetOutput(i); v != 0 {
				fmt.Printf("out[%d] = %v\n", i, v)
			}
		}
		if n := vm.GetNumErrors(); n > 0 {
			fmt.Printf("errors: %d\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runSteps, "steps", "n", 200,
		"Number of instruction steps to execute")
	runCmd.Flags().BoolVarP(&runRegs, "regs", "r", false,
		"Print the registers after execution")
}
