//go:build !opencl

// Package opencl implements the compute driver over the system OpenCL
// runtime via cgo. Build with -tags opencl and an OpenCL SDK on the
// library path to compile it in; without the tag the package is empty and
// the driver does not register.
package opencl
