// Package benchmarks provides named instruction kernels and a harness that
// measures how the Tomasulo scheduler handles them.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/tomasulo"
	"github.com/sarchlab/tomasim/trace"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count until the machine drained
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// Instructions is the number of issued instructions
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// IPC is instructions per cycle
	IPC float64 `json:"ipc"`

	// StallCycles is the number of cycles issue hit a structural hazard
	StallCycles uint64 `json:"stall_cycles"`

	// Per-station structural stalls
	LoadStalls  uint64 `json:"load_stalls"`
	StoreStalls uint64 `json:"store_stalls"`
	AddStalls   uint64 `json:"add_stalls"`
	MulStalls   uint64 `json:"mul_stalls"`

	// Broadcasts is the number of results sent on the common data bus
	Broadcasts uint64 `json:"broadcasts"`

	// Renames is the number of issues that replaced a live producer tag
	Renames uint64 `json:"renames"`

	// Error is set when the benchmark could not run
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program is the instruction text, one instruction per entry
	Program []string

	// Stations overrides the harness station configuration when set
	Stations *tomasulo.StationConfig
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing holds the per-op latencies (default: latency.DefaultTimingConfig)
	Timing *latency.TimingConfig

	// Stations holds the station capacities
	Stations tomasulo.StationConfig

	// UseEngine drives the scheduler with an akita serial engine instead of
	// stepping it directly
	UseEngine bool

	// CheckInvariants verifies the machine state after every cycle
	CheckInvariants bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose prints the compact state listing of every cycle
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Timing:          latency.DefaultTimingConfig(),
		Stations:        tomasulo.DefaultStationConfig(),
		UseEngine:       false,
		CheckInvariants: true,
		Output:          os.Stdout,
		Verbose:         false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	}
	return &Harness{
		config: config,
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	stations := h.config.Stations
	if bench.Stations != nil {
		stations = *bench.Stations
	}

	prog, err := loader.Parse(strings.NewReader(strings.Join(bench.Program, "\n")), stations.Registers)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	opts := []tomasulo.Option{
		tomasulo.WithStationConfig(stations),
		tomasulo.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)),
	}
	if h.config.CheckInvariants {
		opts = append(opts, tomasulo.WithInvariantChecks())
	}
	if h.config.Verbose {
		opts = append(opts, tomasulo.WithObserver(trace.NewTextRenderer(h.config.Output)))
	}

	s, err := tomasulo.NewScheduler(prog.Instructions, opts...)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	// Run simulation and measure time
	start := time.Now()
	if h.config.UseEngine {
		c := core.NewBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithScheduler(s).
			Build("Core")
		if err := c.Run(); err != nil {
			result.Error = err.Error()
		}
	} else {
		s.Run()
	}
	result.WallTime = time.Since(start)

	stats := s.Stats()
	result.SimulatedCycles = stats.Cycles
	result.Instructions = stats.Instructions
	result.CPI = stats.CPI()
	result.IPC = stats.IPC()
	result.StallCycles = stats.Stalls
	result.LoadStalls = stats.LoadStalls
	result.StoreStalls = stats.StoreStalls
	result.AddStalls = stats.AddStalls
	result.MulStalls = stats.MulStalls
	result.Broadcasts = stats.Broadcasts
	result.Renames = stats.Renames

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Tomasulo Scheduling Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
			_, _ = fmt.Fprintln(h.config.Output, "")
			continue
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions:         %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  IPC:                  %.3f\n", r.IPC)
		_, _ = fmt.Fprintf(h.config.Output, "  Broadcasts:           %d\n", r.Broadcasts)
		_, _ = fmt.Fprintf(h.config.Output, "  Renames:              %d\n", r.Renames)

		if r.StallCycles > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Structural Stalls ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Total:         %d\n", r.StallCycles)
			_, _ = fmt.Fprintf(h.config.Output, "  Load buffer:   %d\n", r.LoadStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Store buffer:  %d\n", r.StoreStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Add/sub:       %d\n", r.AddStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Mul/div:       %d\n", r.MulStalls)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,ipc,stalls,load_stalls,store_stalls,add_stalls,mul_stalls,broadcasts,renames")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%.3f,%d,%d,%d,%d,%d,%d,%d\n",
			r.Name,
			r.SimulatedCycles,
			r.Instructions,
			r.CPI,
			r.IPC,
			r.StallCycles,
			r.LoadStalls,
			r.StoreStalls,
			r.AddStalls,
			r.MulStalls,
			r.Broadcasts,
			r.Renames,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Timing is the latency configuration used
	Timing latency.TimingConfig `json:"timing"`

	// Stations is the default station configuration used
	Stations tomasulo.StationConfig `json:"stations"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all issued instructions
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalCycles, totalInstructions uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalCycles += r.SimulatedCycles
		totalInstructions += r.Instructions
		totalWallTime += r.WallTime
	}

	avgCPI := float64(0)
	if totalInstructions > 0 {
		avgCPI = float64(totalCycles) / float64(totalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Timing:    *h.config.Timing,
			Stations:  h.config.Stations,
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			TotalCycles:       totalCycles,
			TotalInstructions: totalInstructions,
			AverageCPI:        avgCPI,
			TotalWallTime:     totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
