// Package main provides the evovm command line interface.
//
// Usage:
//
//	evovm run genome.txt            # Execute a genome listing
//	evovm disasm genome.txt         # Print the canonical disassembly
//	evovm evolve cases.csv          # Evolve programs against a case table
//	evovm repl                      # Start the interactive console
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evovm",
	Short: "Genetic programming virtual machines",
	Long: `evovm executes and evolves linear genomes on a register machine
and hosts an event-driven multi-core machine for tag-dispatched programs.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
