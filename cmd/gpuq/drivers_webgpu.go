//go:build windows

package main

import (
	_ "github.com/gpuq/gpuq/driver/webgpu"
)
