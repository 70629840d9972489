// Package main provides the entry point for tomasim.
// tomasim is a cycle-accurate simulator of Tomasulo's algorithm built on Akita.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tomasim - Tomasulo Scheduling Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: tomasim [options] <program.txt>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -format    Per-cycle output: table, text, json or none")
	fmt.Println("  -delay     Wall-clock pause between cycles")
	fmt.Println("  -engine    Drive the core with the akita serial engine")
	fmt.Println("  -v         Trace scheduler events")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomasim' instead.")
	}
}
