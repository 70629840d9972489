// Package main provides the entry point for tomasim, a cycle-accurate
// simulator of Tomasulo's out-of-order scheduling algorithm.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/tomasulo"
	"github.com/sarchlab/tomasim/trace"
)

const usage = "Usage: tomasim [options] <program.txt>\n"

type options struct {
	programPath string
	configPath  string
	saveConfig  string

	stations tomasulo.StationConfig

	format    string
	delay     time.Duration
	maxCycles int

	engine  bool
	monitor bool

	verbose bool
	logPath string
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{stations: tomasulo.DefaultStationConfig()}

	fs.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file")
	fs.StringVar(&opts.saveConfig, "save-config", "", "Write the effective timing configuration to this path")
	fs.IntVar(&opts.stations.AddStations, "add", opts.stations.AddStations, "Number of add/sub reservation stations")
	fs.IntVar(&opts.stations.MulStations, "mul", opts.stations.MulStations, "Number of mul/div reservation stations")
	fs.IntVar(&opts.stations.LoadBuffers, "load", opts.stations.LoadBuffers, "Number of load buffer entries")
	fs.IntVar(&opts.stations.StoreBuffers, "store", opts.stations.StoreBuffers, "Number of store buffer entries")
	fs.IntVar(&opts.stations.Registers, "regs", opts.stations.Registers, "Number of floating-point registers")
	fs.StringVar(&opts.format, "format", "table", "Per-cycle output: table, text, json or none")
	fs.DurationVar(&opts.delay, "delay", 0, "Wall-clock pause between cycles, e.g. 500ms")
	fs.IntVar(&opts.maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = until drained)")
	fs.BoolVar(&opts.engine, "engine", false, "Drive the core with the akita serial engine")
	fs.BoolVar(&opts.monitor, "monitor", false, "Start the akita monitoring server (implies -engine)")
	fs.BoolVar(&opts.verbose, "v", false, "Trace scheduler events to stderr")
	fs.StringVar(&opts.logPath, "log", "", "Write scheduler events as JSON lines to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() < 1 {
		return nil, errors.New("missing program file")
	}
	opts.programPath = fs.Arg(0)

	switch opts.format {
	case "table", "text", "json", "none":
	default:
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}

	if opts.monitor {
		opts.engine = true
	}

	return opts, nil
}

func main() {
	fs := flag.NewFlagSet("tomasim", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	opts, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		atexit.Exit(1)
	}

	if err := run(opts, os.Stdout); err != nil {
		atexit.Fatalf("Error: %v\n", err)
	}

	atexit.Exit(0)
}

// run loads the configuration and the program, simulates it and writes the
// requested output. Every input error is reported before the first cycle.
func run(opts *options, stdout io.Writer) error {
	timingConfig, err := loadTiming(opts)
	if err != nil {
		return err
	}

	if err := opts.stations.Validate(); err != nil {
		return fmt.Errorf("invalid station configuration: %w", err)
	}

	logger, closeLog, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	prog, err := loader.Load(opts.programPath, opts.stations.Registers)
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	logger.Info("Loaded program", "Path", prog.Path, "Instructions", prog.Len())

	sink, finish := newSink(opts, stdout)

	schedOpts := []tomasulo.Option{
		tomasulo.WithStationConfig(opts.stations),
		tomasulo.WithLatencyTable(latency.NewTableWithConfig(timingConfig)),
		tomasulo.WithLogger(logger),
		tomasulo.WithMaxCycles(opts.maxCycles),
	}
	if sink != nil && !opts.engine {
		schedOpts = append(schedOpts, tomasulo.WithObserver(sink))
	}

	s, err := tomasulo.NewScheduler(prog.Instructions, schedOpts...)
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	if opts.engine {
		if err := runOnEngine(opts, s, sink); err != nil {
			return err
		}
	} else {
		s.Run()
	}

	if !s.Done() {
		logger.Warn("Cycle limit reached", "Cycle", s.Cycle(), "PC", s.PC())
	}

	if err := finish(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.format == "json" {
		return nil
	}
	return trace.WriteSummary(stdout, s.Snapshot(), s.Stats())
}

func loadTiming(opts *options) (*latency.TimingConfig, error) {
	timingConfig := latency.DefaultTimingConfig()
	if opts.configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load timing config: %w", err)
		}
	}

	if err := timingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	if opts.saveConfig != "" {
		if err := timingConfig.SaveConfig(opts.saveConfig); err != nil {
			return nil, err
		}
	}

	return timingConfig, nil
}

func newLogger(opts *options) (*slog.Logger, func(), error) {
	switch {
	case opts.logPath != "":
		f, err := os.Create(opts.logPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create log file: %w", err)
		}
		h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
		return slog.New(h), func() { _ = f.Close() }, nil
	case opts.verbose:
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
		return slog.New(h), func() {}, nil
	default:
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
}

// newSink returns the per-cycle observer of the selected format, and a
// function to call once the run is over.
func newSink(opts *options, stdout io.Writer) (tomasulo.Observer, func() error) {
	var sink tomasulo.Observer
	finish := func() error { return nil }

	switch opts.format {
	case "table":
		r := trace.NewTableRenderer(stdout)
		sink, finish = r, r.Err
	case "text":
		r := trace.NewTextRenderer(stdout)
		sink, finish = r, r.Err
	case "json":
		r := trace.NewJSONRecorder()
		sink, finish = r, func() error { return r.Encode(stdout) }
	default:
		return nil, finish
	}

	if opts.delay > 0 {
		sink = trace.NewPacer(sink, opts.delay)
	}

	return sink, finish
}

func runOnEngine(opts *options, s *tomasulo.Scheduler, sink tomasulo.Observer) error {
	engine := sim.NewSerialEngine()

	c := core.NewBuilder().
		WithEngine(engine).
		WithScheduler(s).
		Build("Core")

	if sink != nil {
		c.AcceptHook(trace.NewHookAdapter(sink))
	}

	if opts.monitor {
		monitor := monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		monitor.RegisterComponent(c)
		monitor.StartServer()
	}

	if err := c.Run(); err != nil {
		return fmt.Errorf("engine failed: %w", err)
	}

	return nil
}
