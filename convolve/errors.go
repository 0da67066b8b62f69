package convolve

import "errors"

var (
	// ErrNilKernel indicates a Stage was built without a kernel.
	ErrNilKernel = errors.New("convolve: nil kernel")

	// ErrNilInput indicates Run was called without an input field.
	ErrNilInput = errors.New("convolve: nil input")

	// ErrDirection indicates the kernel axis does not exist in the input field.
	ErrDirection = errors.New("convolve: kernel direction outside field dimension")

	// ErrKernelTooWide indicates the input extent along the smoothing axis is
	// shorter than the kernel radius.
	ErrKernelTooWide = errors.New("convolve: kernel radius exceeds field extent")

	// ErrRegion indicates the requested output region is not inside the
	// input buffered region.
	ErrRegion = errors.New("convolve: requested region outside buffered region")

	// ErrDestination indicates a reuse buffer whose region does not match the output.
	ErrDestination = errors.New("convolve: destination geometry mismatch")
)
