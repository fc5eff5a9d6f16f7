package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/librarian/internal/diag"
	"github.com/OpenTraceLab/librarian/pkg/cellgen"
	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/magic"
	"github.com/OpenTraceLab/librarian/pkg/netlist"
)

var (
	nameWidth   float64
	nameLength  float64
	nameFingers int
	nameModel   string
	nameFile    bool
)

var cellnameCmd = &cobra.Command{
	Use:   "cellname",
	Short: "Print the cell name generated for a transistor",
	Long: `Print the library cell name a transistor would be written as, without
reading a netlist. With -v the grid size and rejection status are shown too,
using the technology from --tech or the settings file.

Examples:
  librarian cellname --w 10 --l 1 --f 2 --model NMOS4   # LIB_NMOS_W10_L1_F2
  librarian cellname --w 2.5 --l 0.5 --model PESD --file`,
	Args: cobra.NoArgs,
	RunE: runCellname,
}

func init() {
	rootCmd.AddCommand(cellnameCmd)

	cellnameCmd.Flags().Float64Var(&nameWidth, "w", 0, "channel width in micrometers")
	cellnameCmd.Flags().Float64Var(&nameLength, "l", 0, "channel length in micrometers")
	cellnameCmd.Flags().IntVar(&nameFingers, "f", 1, "number of fingers")
	cellnameCmd.Flags().StringVar(&nameModel, "model", "NMOS4", "device model (NMOS4, PMOS4, NESD, PESD)")
	cellnameCmd.Flags().BoolVar(&nameFile, "file", false, "print the file name instead of the cell name")
	cellnameCmd.Flags().StringVar(&techName, "tech", "scmos", "technology rule table used with -v")
	cellnameCmd.Flags().StringVar(&configPath, "config", "",
		"settings file (default: librarian.toml in the current directory or a parent)")

	cellnameCmd.MarkFlagRequired("w")
	cellnameCmd.MarkFlagRequired("l")
}

func runCellname(cmd *cobra.Command, args []string) error {
	model, ok := netlist.LookupModel(nameModel)
	if !ok {
		return fmt.Errorf("%w: %s", netlist.ErrUnknownModel, nameModel)
	}

	spec := layout.Spec{
		Width:    nameWidth,
		Length:   nameLength,
		Fingers:  nameFingers,
		Polarity: model.Polarity,
		ESD:      model.ESD,
	}

	if nameFile {
		fmt.Println(magic.FileName(spec))
	} else {
		fmt.Println(magic.CellName(spec))
	}

	if verbose {
		cfg, err := loadConfig(cmd, diag.New(cmd.ErrOrStderr(), "librarian", verbose))
		if err != nil {
			return err
		}
		tech, err := cfg.ResolveTechnology()
		if err != nil {
			return err
		}

		grid, err := cellgen.ToGrid(spec, tech)
		fmt.Printf("technology: %s\n", tech.Name)
		fmt.Printf("grid: W=%d L=%d F=%d lambda\n", grid.Width, grid.Length, grid.Fingers)
		switch {
		case errors.Is(err, cellgen.ErrTooNarrow):
			fmt.Printf("status: skipped (%v)\n", err)
		case err != nil:
			return err
		default:
			fmt.Println("status: ok")
		}
	}
	return nil
}
