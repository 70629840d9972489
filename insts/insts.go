// Package insts provides floating-point instruction definitions and decoding.
//
// This package decodes the textual instruction stream consumed by the
// Tomasulo scheduler into structured instruction records. It supports:
//   - Arithmetic: ADD, SUB, MUL, DIV on floating-point registers
//   - Memory: LOAD and STORE with a base/offset address
//
// Usage:
//
//	decoder := insts.NewDecoder(32)
//	inst, err := decoder.Decode("MULTD F0 F2 F4")
//	fmt.Printf("Op: %v, Rd: %v, Rn: %v, Rm: %v\n", inst.Op, inst.Rd, inst.Rn, inst.Rm)
package insts
