package ring

// DataBlock is the private workload of one unit: a fixed sequence of
// integers summed on every cycle so that each switch touches real memory.
//
// The pattern is deterministic (values[j] = unit + j) and the checksum is
// fixed at construction. A live sum that drifts from it means the block was
// written while the unit did not own the baton.
type DataBlock struct {
	values   []int32
	checksum int64
}

// NewDataBlock builds the block for unit index with size entries.
func NewDataBlock(unit, size int) DataBlock {
	values := make([]int32, size)
	for j := range values {
		values[j] = int32(unit + j)
	}
	b := DataBlock{values: values}
	b.checksum = b.Sum()
	return b
}

// Sum recomputes the block total.
//
//go:nosplit
func (b *DataBlock) Sum() int64 {
	var acc int64
	for _, v := range b.values {
		acc += int64(v)
	}
	return acc
}

// Checksum returns the total recorded at construction.
//
//go:nosplit
//go:inline
func (b *DataBlock) Checksum() int64 {
	return b.checksum
}

// Len returns the number of entries.
//
//go:nosplit
//go:inline
func (b *DataBlock) Len() int {
	return len(b.values)
}

// Bytes returns the in-memory size of the block's payload.
//
//go:nosplit
//go:inline
func (b *DataBlock) Bytes() int {
	return 4 * len(b.values)
}
