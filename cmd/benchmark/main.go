// Command benchmark runs the tomasim timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv      Output results in CSV format (default: human-readable)
//	-json     Output results as a JSON report
//	-engine   Drive each kernel with the akita serial engine
//	-config   Timing configuration JSON file
//	-run      Only run the named benchmark
//	-v        Print the compact state listing of every cycle
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tomasim/benchmarks"
	"github.com/sarchlab/tomasim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	useEngine := flag.Bool("engine", false, "Drive each kernel with the akita serial engine")
	configPath := flag.String("config", "", "Timing configuration JSON file")
	only := flag.String("run", "", "Only run the named benchmark")
	verbose := flag.Bool("v", false, "Print the compact state listing of every cycle")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.UseEngine = *useEngine
	config.Verbose = *verbose
	config.Output = os.Stdout

	if *configPath != "" {
		timing, err := latency.LoadConfig(*configPath)
		if err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}
		config.Timing = timing
	}
	if err := config.Timing.Validate(); err != nil {
		atexit.Fatalf("Error: invalid timing config: %v\n", err)
	}

	harness := benchmarks.NewHarness(config)
	if *only != "" {
		bench, ok := benchmarks.GetBenchmark(*only)
		if !ok {
			atexit.Fatalf("Error: unknown benchmark %q\n", *only)
		}
		harness.AddBenchmark(bench)
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("Tomasim Timing Benchmark Harness")
		fmt.Println("================================")
		fmt.Printf("Stations: add=%d mul=%d load=%d store=%d\n",
			config.Stations.AddStations, config.Stations.MulStations,
			config.Stations.LoadBuffers, config.Stations.StoreBuffers)
		fmt.Printf("Latencies: add=%d sub=%d mul=%d div=%d load=%d store=%d\n",
			config.Timing.AddLatency, config.Timing.SubLatency,
			config.Timing.MulLatency, config.Timing.DivLatency,
			config.Timing.LoadLatency, config.Timing.StoreLatency)
		fmt.Printf("Engine: %v\n", config.UseEngine)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			atexit.Fatalf("Error: %v\n", err)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		fmt.Println("=== Summary ===")
		fmt.Println("")
		fmt.Println("Expected characteristics:")
		fmt.Println("- hennessy_patterson: divide waits on the multiply, 37 cycles")
		fmt.Println("- independent_ops: stations fill, no RAW waits")
		fmt.Println("- dependency_chain: add stations stall behind the chain")
		fmt.Println("- waw_renaming: later writers rename earlier producers")
		fmt.Println("- load_stress: a single load buffer serializes loads")
		fmt.Println("- store_drain: stores hold buffers until their value arrives")
	}

	for _, r := range results {
		if r.Error != "" {
			atexit.Exit(1)
		}
	}
	atexit.Exit(0)
}
