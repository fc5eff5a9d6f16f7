package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/librarian/internal/config"
	"github.com/OpenTraceLab/librarian/internal/diag"
	"github.com/OpenTraceLab/librarian/pkg/library"
	"github.com/OpenTraceLab/librarian/pkg/netlist"
)

var (
	outputDir  string
	configPath string
	jobs       int
	keepGoing  bool
	techName   string
)

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", ".",
		"directory for the generated cells")
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"settings file (default: librarian.toml in the current directory or a parent)")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 1,
		"number of cells generated in parallel")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false,
		"continue after bad devices and report all errors at the end")
	rootCmd.Flags().StringVar(&techName, "tech", "scmos",
		"technology rule table")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	netlistPath := args[0]

	log := diag.New(cmd.ErrOrStderr(), "librarian", verbose)
	log.Infof("librarian invoked")

	cfg, err := loadConfig(cmd, log)
	if err != nil {
		return err
	}
	tech, err := cfg.ResolveTechnology()
	if err != nil {
		return err
	}

	parser, err := netlist.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	parser.KeepGoing = cfg.KeepGoing

	log.Infof("netlist file %s opened", netlistPath)
	nl, parseErr := parser.ParseFile(netlistPath)
	if parseErr != nil && nl == nil {
		return parseErr
	}
	if parseErr != nil {
		for _, e := range unjoin(parseErr) {
			log.Errorf("%v", e)
		}
	}
	log.Infof("netlist file %s closed", netlistPath)

	for _, w := range nl.Warnings {
		log.Warnf("%s", w)
	}
	if verbose {
		for _, d := range nl.Devices {
			log.Infof("%s: %s", d.Name, d.Spec.Describe())
		}
	}

	builder := library.NewBuilder(tech, cfg.OutputDir)
	builder.Jobs = cfg.Jobs
	builder.KeepGoing = cfg.KeepGoing
	builder.Log = log

	report, buildErr := builder.Build(cmd.Context(), nl.Devices)
	if report == nil {
		return buildErr
	}
	failed := len(report.Failed) + countErrors(parseErr)
	fmt.Printf("%d cell(s) generated, %d skipped, %d failed\n",
		len(report.Generated), len(report.Skipped), failed)

	if buildErr != nil && !cfg.KeepGoing {
		return buildErr
	}
	if failed > 0 {
		return fmt.Errorf("library incomplete: %d device(s) failed", failed)
	}
	return buildErr
}

// loadConfig reads the settings file and applies the flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command, log *diag.Logger) (config.Config, error) {
	cfg := config.Default()

	path := configPath
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return cfg, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		log.Infof("settings read from %s", path)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	if flags.Changed("keep-going") {
		cfg.KeepGoing = keepGoing
	}
	if flags.Changed("tech") {
		cfg.Technology = techName
	}

	return cfg, cfg.Validate()
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func countErrors(err error) int {
	if err == nil {
		return 0
	}
	return len(unjoin(err))
}
