// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package driver

import (
	"github.com/gpuq/gpuq/internal/driver"
)

// Status is a numeric driver status code. 0 is success, failures are
// negative, following the convention of the underlying compute runtimes.
type Status = driver.Status

// Driver status codes.
const (
	Success                       Status = driver.Success
	StatusDeviceNotFound          Status = driver.StatusDeviceNotFound
	StatusDeviceNotAvailable      Status = driver.StatusDeviceNotAvailable
	StatusCompilerNotAvailable    Status = driver.StatusCompilerNotAvailable
	StatusMemAllocationFailure    Status = driver.StatusMemAllocationFailure
	StatusOutOfResources          Status = driver.StatusOutOfResources
	StatusOutOfHostMemory         Status = driver.StatusOutOfHostMemory
	StatusProfilingNotAvailable   Status = driver.StatusProfilingNotAvailable
	StatusMemCopyOverlap          Status = driver.StatusMemCopyOverlap
	StatusImageFormatMismatch     Status = driver.StatusImageFormatMismatch
	StatusImageFormatNotSupported Status = driver.StatusImageFormatNotSupported
	StatusBuildProgramFailure     Status = driver.StatusBuildProgramFailure
	StatusMapFailure              Status = driver.StatusMapFailure
	StatusInvalidValue            Status = driver.StatusInvalidValue
	StatusInvalidDeviceType       Status = driver.StatusInvalidDeviceType
	StatusInvalidPlatform         Status = driver.StatusInvalidPlatform
	StatusInvalidDevice           Status = driver.StatusInvalidDevice
	StatusInvalidContext          Status = driver.StatusInvalidContext
	StatusInvalidQueueProperties  Status = driver.StatusInvalidQueueProperties
	StatusInvalidCommandQueue     Status = driver.StatusInvalidCommandQueue
	StatusInvalidHostPtr          Status = driver.StatusInvalidHostPtr
	StatusInvalidMemObject        Status = driver.StatusInvalidMemObject
	StatusInvalidImageDescriptor  Status = driver.StatusInvalidImageDescriptor
	StatusInvalidImageSize        Status = driver.StatusInvalidImageSize
	StatusInvalidSampler          Status = driver.StatusInvalidSampler
	StatusInvalidBinary           Status = driver.StatusInvalidBinary
	StatusInvalidBuildOptions     Status = driver.StatusInvalidBuildOptions
	StatusInvalidProgram          Status = driver.StatusInvalidProgram
	StatusInvalidProgramExec      Status = driver.StatusInvalidProgramExec
	StatusInvalidKernelName       Status = driver.StatusInvalidKernelName
	StatusInvalidKernelDefinition Status = driver.StatusInvalidKernelDefinition
	StatusInvalidKernel           Status = driver.StatusInvalidKernel
	StatusInvalidArgIndex         Status = driver.StatusInvalidArgIndex
	StatusInvalidArgValue         Status = driver.StatusInvalidArgValue
	StatusInvalidArgSize          Status = driver.StatusInvalidArgSize
	StatusInvalidKernelArgs       Status = driver.StatusInvalidKernelArgs
	StatusInvalidWorkDimension    Status = driver.StatusInvalidWorkDimension
	StatusInvalidWorkGroupSize    Status = driver.StatusInvalidWorkGroupSize
	StatusInvalidWorkItemSize     Status = driver.StatusInvalidWorkItemSize
	StatusInvalidGlobalOffset     Status = driver.StatusInvalidGlobalOffset
	StatusInvalidEventWaitList    Status = driver.StatusInvalidEventWaitList
	StatusInvalidEvent            Status = driver.StatusInvalidEvent
	StatusInvalidOperation        Status = driver.StatusInvalidOperation
	StatusInvalidGLObject         Status = driver.StatusInvalidGLObject
	StatusInvalidBufferSize       Status = driver.StatusInvalidBufferSize
	StatusInvalidMipLevel         Status = driver.StatusInvalidMipLevel
	StatusInvalidGlobalWorkSize   Status = driver.StatusInvalidGlobalWorkSize
	StatusNotConfigured           Status = driver.StatusNotConfigured
)
