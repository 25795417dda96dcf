package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: Pure Go, parallel over batch-layout pixels
type Backend interface {
	// SpaceToBatchND moves spatial blocks of input into the batch axis of the
	// pre-allocated output. paddings holds {before, after} per spatial axis.
	SpaceToBatchND(input, output *RawTensor, blockShape []int, paddings [][2]int) error

	// BatchToSpaceND is the inverse of SpaceToBatchND. crops holds
	// {before, after} per spatial axis.
	BatchToSpaceND(input, output *RawTensor, blockShape []int, crops [][2]int) error

	// Metadata
	Name() string
	Device() Device
}
