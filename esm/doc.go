// Package esm converts an Xbox 360 Fallout: New Vegas ESM master file into
// byte-exact PC-layout output.
//
// # Overview
//
// The Xbox 360 edition streams its ESM in a big-endian, tagged-chunk
// variant of the TES4-family plugin format: record and group headers are
// byte-reversed relative to PC, worldspace and interior cell hierarchies
// are flattened into scattered top-level duplicates rather than nested
// GRUP trees, and INFO (dialogue response) records are split into a base
// and a response half that PC expects merged into one. Convert undoes all
// of this in a single forward pass plus a small OFST-table post-pass.
//
// # Key Types
//
//   - Options: conversion knobs (Verbose, StrictSchema)
//   - Stats: per-conversion counters, useful for logging and verification
//   - Logger: the debug sink Convert calls at milestone granularity
//
// # Converting a File
//
//	input, cleanup, err := esm.LoadInput("FalloutNV.esm")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cleanup()
//
//	output, stats, err := esm.Convert(input, esm.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(stats.Report())
//
// Convert never mutates input; output is an independently allocated
// buffer safe to write to disk directly.
package esm
