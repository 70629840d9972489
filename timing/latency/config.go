package latency

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// TimingConfig holds execution latencies for the floating-point operations.
// Values follow the classic Tomasulo textbook configuration.
type TimingConfig struct {
	// AddLatency is the execution latency of ADD. Default: 2 cycles.
	AddLatency uint64 `json:"add_latency"`

	// SubLatency is the execution latency of SUB. Default: 2 cycles.
	SubLatency uint64 `json:"sub_latency"`

	// MulLatency is the execution latency of MUL. Default: 10 cycles.
	MulLatency uint64 `json:"mul_latency"`

	// DivLatency is the execution latency of DIV. Default: 20 cycles.
	DivLatency uint64 `json:"div_latency"`

	// LoadLatency is the latency of a load buffer access. Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency of a store buffer write. Default: 2 cycles.
	StoreLatency uint64 `json:"store_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the textbook default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		AddLatency:   2,
		SubLatency:   2,
		MulLatency:   10,
		DivLatency:   20,
		LoadLatency:  2,
		StoreLatency: 2,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// LatencyLimit is the largest accepted latency. Larger values overflow the
// cycle stamps of the scheduler.
const LatencyLimit = math.MaxInt32

// Validate checks that all latency values are in (0, LatencyLimit].
func (c *TimingConfig) Validate() error {
	fields := []struct {
		name  string
		value uint64
	}{
		{"add_latency", c.AddLatency},
		{"sub_latency", c.SubLatency},
		{"mul_latency", c.MulLatency},
		{"div_latency", c.DivLatency},
		{"load_latency", c.LoadLatency},
		{"store_latency", c.StoreLatency},
	}

	for _, f := range fields {
		if f.value == 0 {
			return fmt.Errorf("%s must be > 0", f.name)
		}
		if f.value > LatencyLimit {
			return fmt.Errorf("%s must be <= %d", f.name, LatencyLimit)
		}
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
