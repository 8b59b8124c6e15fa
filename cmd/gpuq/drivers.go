package main

// The portable driver is always compiled in; it is the fallback when no
// hardware driver matches.
import (
	_ "github.com/gpuq/gpuq/driver/cpu"
)
