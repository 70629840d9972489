package benchmarks

import "github.com/sarchlab/tomasim/timing/tomasulo"

// GetMicrobenchmarks returns the standard set of scheduling kernels. Each
// kernel targets one behavior of the scheduler.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		hennessyPatterson(),
		independentOps(),
		dependencyChain(),
		wawRenaming(),
		loadStress(),
		storeDrain(),
	}
}

// GetBenchmark returns the kernel with the given name.
func GetBenchmark(name string) (Benchmark, bool) {
	for _, b := range GetMicrobenchmarks() {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// 1. The textbook example: two loads feeding a multiply, a subtract, a
// divide and an add.
func hennessyPatterson() Benchmark {
	return Benchmark{
		Name:        "hennessy_patterson",
		Description: "Textbook load/mul/sub/div/add sequence - out-of-order completion",
		Program: []string{
			"LD    F6  34 R2",
			"LD    F2  45 R3",
			"MULTD F0  F2 F4",
			"SUBD  F8  F6 F2",
			"DIVD  F10 F0 F6",
			"ADDD  F6  F8 F2",
		},
	}
}

// 2. Independent Ops - no operand waits on a producer
func independentOps() Benchmark {
	return Benchmark{
		Name:        "independent_ops",
		Description: "8 independent add/sub/mul operations - measures issue throughput",
		Program: []string{
			"ADD F1 F2 F3",
			"SUB F4 F5 F6",
			"ADD F7 F8 F9",
			"MUL F10 F11 F12",
			"SUB F13 F14 F15",
			"MUL F16 F17 F18",
			"ADD F19 F20 F21",
			"SUB F22 F23 F24",
		},
	}
}

// 3. Dependency Chain - every add reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "6 dependent ADDs - stations fill with waiting operations",
		Program: []string{
			"ADD F1 F1 F2",
			"ADD F1 F1 F2",
			"ADD F1 F1 F2",
			"ADD F1 F1 F2",
			"ADD F1 F1 F2",
			"ADD F1 F1 F2",
		},
	}
}

// 4. WAW Renaming - F0 is rewritten while older writers are in flight
func wawRenaming() Benchmark {
	return Benchmark{
		Name:        "waw_renaming",
		Description: "Repeated writes to F0 behind a slow divide - renaming instead of stalls",
		Program: []string{
			"DIV F0 F2 F4",
			"ADD F0 F6 F8",
			"MUL F0 F0 F2",
			"SUB F0 F10 F12",
			"ADD F14 F0 F0",
		},
	}
}

// 5. Load Stress - a single load buffer serializes the loads
func loadStress() Benchmark {
	stations := tomasulo.DefaultStationConfig()
	stations.LoadBuffers = 1

	return Benchmark{
		Name:        "load_stress",
		Description: "6 loads through one load buffer - structural hazard stalls",
		Program: []string{
			"LOAD F1 0 A",
			"LOAD F2 8 A",
			"LOAD F3 16 A",
			"LOAD F4 24 A",
			"LOAD F5 32 A",
			"LOAD F6 40 A",
			"ADD F7 F1 F6",
		},
		Stations: &stations,
	}
}

// 6. Store Drain - stores wait on a multiply and hold the buffer until
// writeback
func storeDrain() Benchmark {
	return Benchmark{
		Name:        "store_drain",
		Description: "Stores of a pending product - store buffer occupancy",
		Program: []string{
			"LOAD F2 0 X",
			"MUL F4 F2 F2",
			"STORE F4 0 Y",
			"STORE F4 8 Y",
			"STORE F2 16 Y",
			"STORE F4 24 Y",
		},
	}
}
