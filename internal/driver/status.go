package driver

import "fmt"

// Status is a numeric driver status code. The values follow the convention
// of the underlying compute runtimes: 0 is success, failures are negative.
type Status int32

// Driver status codes.
const (
	Success                       Status = 0
	StatusDeviceNotFound          Status = -1
	StatusDeviceNotAvailable      Status = -2
	StatusCompilerNotAvailable    Status = -3
	StatusMemAllocationFailure    Status = -4
	StatusOutOfResources          Status = -5
	StatusOutOfHostMemory         Status = -6
	StatusProfilingNotAvailable   Status = -7
	StatusMemCopyOverlap          Status = -8
	StatusImageFormatMismatch     Status = -9
	StatusImageFormatNotSupported Status = -10
	StatusBuildProgramFailure     Status = -11
	StatusMapFailure              Status = -12
	StatusInvalidValue            Status = -30
	StatusInvalidDeviceType       Status = -31
	StatusInvalidPlatform         Status = -32
	StatusInvalidDevice           Status = -33
	StatusInvalidContext          Status = -34
	StatusInvalidQueueProperties  Status = -35
	StatusInvalidCommandQueue     Status = -36
	StatusInvalidHostPtr          Status = -37
	StatusInvalidMemObject        Status = -38
	StatusInvalidImageDescriptor  Status = -39
	StatusInvalidImageSize        Status = -40
	StatusInvalidSampler          Status = -41
	StatusInvalidBinary           Status = -42
	StatusInvalidBuildOptions     Status = -43
	StatusInvalidProgram          Status = -44
	StatusInvalidProgramExec      Status = -45
	StatusInvalidKernelName       Status = -46
	StatusInvalidKernelDefinition Status = -47
	StatusInvalidKernel           Status = -48
	StatusInvalidArgIndex         Status = -49
	StatusInvalidArgValue         Status = -50
	StatusInvalidArgSize          Status = -51
	StatusInvalidKernelArgs       Status = -52
	StatusInvalidWorkDimension    Status = -53
	StatusInvalidWorkGroupSize    Status = -54
	StatusInvalidWorkItemSize     Status = -55
	StatusInvalidGlobalOffset     Status = -56
	StatusInvalidEventWaitList    Status = -57
	StatusInvalidEvent            Status = -58
	StatusInvalidOperation        Status = -59
	StatusInvalidGLObject         Status = -60
	StatusInvalidBufferSize       Status = -61
	StatusInvalidMipLevel         Status = -62
	StatusInvalidGlobalWorkSize   Status = -63

	// StatusNotConfigured marks a runtime that is installed but not usable,
	// e.g. no ICD loader or a library that failed to initialize.
	StatusNotConfigured Status = -1001
)

var statusNames = map[Status]string{
	Success:                       "SUCCESS",
	StatusDeviceNotFound:          "DEVICE_NOT_FOUND",
	StatusDeviceNotAvailable:      "DEVICE_NOT_AVAILABLE",
	StatusCompilerNotAvailable:    "COMPILER_NOT_AVAILABLE",
	StatusMemAllocationFailure:    "MEM_OBJECT_ALLOCATION_FAILURE",
	StatusOutOfResources:          "OUT_OF_RESOURCES",
	StatusOutOfHostMemory:         "OUT_OF_HOST_MEMORY",
	StatusProfilingNotAvailable:   "PROFILING_INFO_NOT_AVAILABLE",
	StatusMemCopyOverlap:          "MEM_COPY_OVERLAP",
	StatusImageFormatMismatch:     "IMAGE_FORMAT_MISMATCH",
	StatusImageFormatNotSupported: "IMAGE_FORMAT_NOT_SUPPORTED",
	StatusBuildProgramFailure:     "BUILD_PROGRAM_FAILURE",
	StatusMapFailure:              "MAP_FAILURE",
	StatusInvalidValue:            "INVALID_VALUE",
	StatusInvalidDeviceType:       "INVALID_DEVICE_TYPE",
	StatusInvalidPlatform:         "INVALID_PLATFORM",
	StatusInvalidDevice:           "INVALID_DEVICE",
	StatusInvalidContext:          "INVALID_CONTEXT",
	StatusInvalidQueueProperties:  "INVALID_QUEUE_PROPERTIES",
	StatusInvalidCommandQueue:     "INVALID_COMMAND_QUEUE",
	StatusInvalidHostPtr:          "INVALID_HOST_PTR",
	StatusInvalidMemObject:        "INVALID_MEM_OBJECT",
	StatusInvalidImageDescriptor:  "INVALID_IMAGE_FORMAT_DESCRIPTOR",
	StatusInvalidImageSize:        "INVALID_IMAGE_SIZE",
	StatusInvalidSampler:          "INVALID_SAMPLER",
	StatusInvalidBinary:           "INVALID_BINARY",
	StatusInvalidBuildOptions:     "INVALID_BUILD_OPTIONS",
	StatusInvalidProgram:          "INVALID_PROGRAM",
	StatusInvalidProgramExec:      "INVALID_PROGRAM_EXECUTABLE",
	StatusInvalidKernelName:       "INVALID_KERNEL_NAME",
	StatusInvalidKernelDefinition: "INVALID_KERNEL_DEFINITION",
	StatusInvalidKernel:           "INVALID_KERNEL",
	StatusInvalidArgIndex:         "INVALID_ARG_INDEX",
	StatusInvalidArgValue:         "INVALID_ARG_VALUE",
	StatusInvalidArgSize:          "INVALID_ARG_SIZE",
	StatusInvalidKernelArgs:       "INVALID_KERNEL_ARGS",
	StatusInvalidWorkDimension:    "INVALID_WORK_DIMENSION",
	StatusInvalidWorkGroupSize:    "INVALID_WORK_GROUP_SIZE",
	StatusInvalidWorkItemSize:     "INVALID_WORK_ITEM_SIZE",
	StatusInvalidGlobalOffset:     "INVALID_GLOBAL_OFFSET",
	StatusInvalidEventWaitList:    "INVALID_EVENT_WAIT_LIST",
	StatusInvalidEvent:            "INVALID_EVENT",
	StatusInvalidOperation:        "INVALID_OPERATION",
	StatusInvalidGLObject:         "INVALID_GL_OBJECT",
	StatusInvalidBufferSize:       "INVALID_BUFFER_SIZE",
	StatusInvalidMipLevel:         "INVALID_MIP_LEVEL",
	StatusInvalidGlobalWorkSize:   "INVALID_GLOBAL_WORK_SIZE",
	StatusNotConfigured:           "NOT_CONFIGURED",
}

// String returns the symbolic name of the status code, or a formatted
// fallback for codes outside the table.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("a not recognized status code (%d)", int32(s))
}
