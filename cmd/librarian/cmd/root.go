package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "librarian <netlist-filename>",
	Short: "MOSFET layout cell generator",
	Long: `Reads the MOSFET instances of a SPICE netlist and generates one magic
layout cell (.mag) per transistor, with the contacts, gates, and wells of a
finger layout in the scmos technology.

Supported models are NMOS4, PMOS4, NESD, and PESD. Each instance needs W and L
in micrometers (e.g. W=10U L=1U); M sets the number of fingers.

Examples:
  librarian amp.sp                        # Write cells into the current directory
  librarian -o cells -j 4 amp.sp          # Write into cells/ with 4 workers
  librarian --keep-going -v amp.sp        # Report every bad device, then fail
  librarian rules                         # Show the design rule table`,
	Version:       "0.3.0",
	Args:          cobra.ExactArgs(1),
	RunE:          runGenerate,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "librarian: ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
