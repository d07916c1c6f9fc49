package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/akhildatla/evovm/pkg/repl"
)

var replEvent bool

// replCmd starts the interactive console.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive console",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := repl.New()
		if replEvent {
			r.SetMode(repl.ModeEvent)
		}
		r.Start(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().BoolVarP(&replEvent, "event", "e", false,
		"Start in event mode (default: linear mode)")
}
