// Package library turns the devices of a netlist into a directory of
// layout cells, one .mag file per device.
package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/librarian/internal/diag"
	"github.com/OpenTraceLab/librarian/pkg/cellgen"
	"github.com/OpenTraceLab/librarian/pkg/magic"
	"github.com/OpenTraceLab/librarian/pkg/netlist"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

// Status of one device after a build
type Status int

const (
	Generated Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "generated"
	}
}

// Result describes what happened to one device
type Result struct {
	Device netlist.Device
	Cell   string
	Path   string
	Status Status
	Err    error

	done bool
}

// Report lists the results of a build in netlist order
type Report struct {
	Generated []Result
	Skipped   []Result
	Failed    []Result
}

// Total returns the number of devices that were processed
func (r *Report) Total() int {
	return len(r.Generated) + len(r.Skipped) + len(r.Failed)
}

// Builder generates one cell per device
type Builder struct {
	Tech      rules.Technology
	OutputDir string

	// Jobs bounds the number of cells generated concurrently
	Jobs int
	// KeepGoing continues after failed devices and returns their
	// errors joined at the end
	KeepGoing bool

	// Clock provides the timestamp written into every cell
	Clock func() time.Time
	Log   *diag.Logger
}

// NewBuilder creates a sequential builder writing into outputDir
func NewBuilder(tech rules.Technology, outputDir string) *Builder {
	return &Builder{
		Tech:      tech,
		OutputDir: outputDir,
		Jobs:      1,
		Clock:     time.Now,
	}
}

// Build generates every device independently. Too narrow devices are
// skipped with a warning. Any other failure stops the build unless
// KeepGoing is set. The same cell requested twice is written twice.
func (b *Builder) Build(ctx context.Context, devices []netlist.Device) (*Report, error) {
	if err := b.Tech.Validate(); err != nil {
		return nil, err
	}
	if b.OutputDir != "" {
		if err := os.MkdirAll(b.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var results []Result
	var err error
	if b.Jobs > 1 {
		results, err = b.buildParallel(ctx, devices)
	} else {
		results, err = b.buildSequential(ctx, devices)
	}

	report := b.collect(results)
	if err != nil {
		return report, err
	}
	if len(report.Failed) > 0 {
		errs := make([]error, len(report.Failed))
		for i, res := range report.Failed {
			errs[i] = res.Err
		}
		return report, errors.Join(errs...)
	}
	return report, nil
}

func (b *Builder) buildSequential(ctx context.Context, devices []netlist.Device) ([]Result, error) {
	results := make([]Result, len(devices))
	for i, device := range devices {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results[i] = b.buildOne(device)
		if results[i].Status == Failed && !b.KeepGoing {
			return results, results[i].Err
		}
	}
	return results, nil
}

func (b *Builder) buildParallel(ctx context.Context, devices []netlist.Device) ([]Result, error) {
	results := make([]Result, len(devices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Jobs)

	for i, device := range devices {
		i, device := i, device
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.buildOne(device)
			if results[i].Status == Failed && !b.KeepGoing {
				return results[i].Err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (b *Builder) buildOne(device netlist.Device) Result {
	res := Result{
		Device: device,
		Cell:   magic.CellName(device.Spec),
		done:   true,
	}
	fileName := magic.FileName(device.Spec)
	res.Path = filepath.Join(b.OutputDir, fileName)

	cell, err := cellgen.Generate(device.Spec, b.Tech)
	if err != nil {
		if errors.Is(err, cellgen.ErrTooNarrow) {
			res.Status = Skipped
			res.Err = fmt.Errorf("creation of %s skipped: %w", fileName, err)
			return res
		}
		res.Status = Failed
		res.Err = fmt.Errorf("%s (line %d): %w", device.Name, device.Line, err)
		return res
	}

	if err := magic.WriteFile(res.Path, b.Tech, cell.Stream, b.now()); err != nil {
		res.Status = Failed
		res.Err = fmt.Errorf("%s (line %d): %w", device.Name, device.Line, err)
		return res
	}
	res.Status = Generated
	return res
}

// collect sorts results into the report and logs them in netlist order.
// Failures are only logged with KeepGoing, otherwise Build returns them.
func (b *Builder) collect(results []Result) *Report {
	log := b.logger()
	report := &Report{}
	for _, res := range results {
		if !res.done {
			continue
		}
		switch res.Status {
		case Generated:
			log.Infof("output file %s written", res.Path)
			report.Generated = append(report.Generated, res)
		case Skipped:
			log.Warnf("%v", res.Err)
			report.Skipped = append(report.Skipped, res)
		case Failed:
			if b.KeepGoing {
				log.Errorf("%v", res.Err)
			}
			report.Failed = append(report.Failed, res)
		}
	}
	return report
}

func (b *Builder) now() time.Time {
	if b.Clock == nil {
		return time.Now()
	}
	return b.Clock()
}

func (b *Builder) logger() *diag.Logger {
	if b.Log == nil {
		return diag.New(io.Discard, "librarian", false)
	}
	return b.Log
}
