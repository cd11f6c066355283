// Command qrsolve loads a qualitative model, enumerates its admissible
// states, generates the transition graph, optionally searches for a
// shortest path between a start and target state, and writes the
// result as a node/edge export document.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"zombiezen.com/go/log"

	"github.com/katalvlaran/qreason/pathsearch"
	"github.com/katalvlaran/qreason/qrio"
	"github.com/katalvlaran/qreason/qrstate"
	"github.com/katalvlaran/qreason/transition"
)

var initLogOnce sync.Once

func initLogging(debug bool) {
	initLogOnce.Do(func() {
		minLevel := log.Info
		if debug {
			minLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLevel,
			Output: log.New(os.Stderr, "qrsolve: ", log.StdFlags, nil),
		})
	})
}

type options struct {
	dataDir       string
	usePath       bool
	maxSubsetSize int
	debug         bool
}

func main() {
	rootCommand := &cobra.Command{
		Use:           "qrsolve [problem] [use_path]",
		Short:         "solve a qualitative reasoning model and export its transition graph",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(2),
	}

	opts := &options{dataDir: "testdata", maxSubsetSize: 3}
	rootCommand.Flags().StringVar(&opts.dataDir, "data-dir", opts.dataDir, "`directory` containing <problem>.json, <problem>.start.json, <problem>.target.json")
	rootCommand.Flags().IntVar(&opts.maxSubsetSize, "max-subset-size", opts.maxSubsetSize, "largest quantity subset the transition generator may shift per step")
	rootCommand.Flags().BoolVar(&opts.debug, "debug", false, "show debugging output")

	rootCommand.RunE = func(cmd *cobra.Command, args []string) error {
		initLogging(opts.debug)

		problem := "sink_problem"
		if len(args) > 0 && args[0] != "" {
			problem = args[0]
		}
		if len(args) > 1 {
			opts.usePath = isTruthy(args[1])
		}
		return run(cmd.Context(), problem, opts)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(false)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

func isTruthy(s string) bool {
	switch s {
	case "", "0", "false", "False", "no":
		return false
	default:
		return true
	}
}

func run(ctx context.Context, problem string, opts *options) error {
	modelPath := filepath.Join(opts.dataDir, problem+".json")
	m, err := qrio.LoadModel(modelPath)
	if err != nil {
		return err
	}

	states, err := qrstate.Enumerate(m)
	if err != nil {
		return err
	}
	log.Debugf(ctx, "enumerated %d admissible states", len(states.Ordered))

	g, err := transition.Generate(m, states, transition.WithMaxSubsetSize(opts.maxSubsetSize))
	if err != nil {
		return err
	}
	log.Debugf(ctx, "generated %d edges", g.EdgeCount())

	var path []qrstate.StateID
	if opts.usePath {
		startPath := filepath.Join(opts.dataDir, problem+".start.json")
		targetPath := filepath.Join(opts.dataDir, problem+".target.json")
		start, err := qrio.LoadState(startPath, m)
		if err != nil {
			return err
		}
		target, err := qrio.LoadState(targetPath, m)
		if err != nil {
			return err
		}

		predecessor, err := pathsearch.AStar(g, states, start.ID, target.ID)
		switch {
		case err == nil:
			path = pathsearch.Reconstruct(predecessor, start.ID, target.ID)
			log.Debugf(ctx, "A* found a path of %d states", len(path))
		case errIsDomain(err):
			log.Errorf(ctx, "path search: %v", err)
		default:
			log.Errorf(ctx, "no path: %v", err)
		}
	}

	exp := qrio.BuildExport(m, states, g, path)
	outPath := filepath.Join(opts.dataDir, problem+".export.json")
	if err := qrio.WriteExport(outPath, exp); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s (%d nodes, %d edges)\n", outPath, len(exp.Nodes), len(exp.Edges))
	return nil
}

func errIsDomain(err error) bool {
	return errors.Is(err, pathsearch.ErrSameState) || errors.Is(err, pathsearch.ErrNotAdmissible)
}
