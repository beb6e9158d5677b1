// Command pktcraft is a thin developer tool for eyeballing round-trip
// behavior of the pktcraft core: it decodes a hex-encoded packet through
// one of the three registered top-level protocol units and prints the
// resulting chain. It carries no invariants of its own beyond compiling
// and calling the library correctly — grounded on the teacher's cobra
// root command shape in cmd/root.go, minus the daemon/RPC plumbing this
// tool has no use for.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veyra-net/pktcraft/pktlog"
)

var (
	configFile string
	logger     pktlog.Logger = pktlog.Discard()
)

var rootCmd = &cobra.Command{
	Use:     "pktcraft",
	Short:   "Decode and inspect packets built with the pktcraft core",
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFile)
		if err != nil {
			return err
		}
		logger = pktlog.New(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")
	rootCmd.AddCommand(decodeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
