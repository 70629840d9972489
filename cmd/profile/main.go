// Package main provides a profiling wrapper for tomasim to identify
// performance bottlenecks in the scheduler.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	repeat     = flag.Int("repeat", 1000, "number of times to simulate the program")
	useEngine  = flag.Bool("engine", false, "drive the scheduler with the akita serial engine")
	checks     = flag.Bool("check", false, "verify the machine invariants after every cycle")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.txt>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath, tomasulo.DefaultStationConfig().Registers)
	if err != nil {
		atexit.Fatalf("Error loading program: %v\n", err)
	}

	fmt.Printf("Loaded: %s (%d instructions)\n", programPath, prog.Len())

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			atexit.Fatalf("Error creating CPU profile: %v\n", err)
		}
		atexit.Register(func() { _ = f.Close() })

		if err := pprof.StartCPUProfile(f); err != nil {
			atexit.Fatalf("Error starting CPU profile: %v\n", err)
		}
		atexit.Register(pprof.StopCPUProfile)
	}

	start := time.Now()

	var cycles uint64
	for i := 0; i < *repeat; i++ {
		stats, err := simulate(prog.Instructions)
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}
		cycles += stats.Cycles
	}

	elapsed := time.Since(start)

	if *memProfile != "" {
		writeHeapProfile(*memProfile)
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Runs: %d\n", *repeat)
	fmt.Printf("Simulated cycles: %d\n", cycles)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("Cycles/second: %.0f\n", float64(cycles)/elapsed.Seconds())
	}

	atexit.Exit(0)
}

func simulate(program []insts.Instruction) (tomasulo.Statistics, error) {
	var opts []tomasulo.Option
	if *checks {
		opts = append(opts, tomasulo.WithInvariantChecks())
	}

	s, err := tomasulo.NewScheduler(program, opts...)
	if err != nil {
		return tomasulo.Statistics{}, err
	}

	if !*useEngine {
		return s.Run(), nil
	}

	c := core.NewBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithScheduler(s).
		Build("Core")
	if err := c.Run(); err != nil {
		return tomasulo.Statistics{}, err
	}

	return s.Stats(), nil
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		atexit.Fatalf("Error creating memory profile: %v\n", err)
	}
	defer func() { _ = f.Close() }()

	if err := pprof.WriteHeapProfile(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
	}
}
