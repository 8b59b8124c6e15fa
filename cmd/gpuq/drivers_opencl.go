//go:build opencl

package main

import (
	_ "github.com/gpuq/gpuq/internal/driver/opencl"
)
