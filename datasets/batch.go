package datasets

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"gorgonia.org/tensor"
)

// GeneratorBatch stores a generator batch in flat contiguous buffers.
type GeneratorBatch struct {
	// Inputs is (BatchSize, SeqLen) row-major.
	Inputs []int32
	// Targets is (BatchSize, SeqLen) row-major: the sparse target ids.
	Targets []int32
	// OneHot is (BatchSize, SeqLen, VocabSize) row-major: Targets expanded
	// to per-timestep classification targets.
	OneHot []float32

	BatchSize int
	SeqLen    int
	VocabSize int
}

// newGeneratorBatch allocates a zeroed batch.
func newGeneratorBatch(batchSize, seqLen, vocabSize int) *GeneratorBatch {
	return &GeneratorBatch{
		Inputs:    make([]int32, batchSize*seqLen),
		Targets:   make([]int32, batchSize*seqLen),
		OneHot:    make([]float32, batchSize*seqLen*vocabSize),
		BatchSize: batchSize,
		SeqLen:    seqLen,
		VocabSize: vocabSize,
	}
}

// setRow copies a shaped row pair into position r and fills its one-hot block.
func (b *GeneratorBatch) setRow(r int, x, y []int32) error {
	copy(b.Inputs[r*b.SeqLen:(r+1)*b.SeqLen], x)
	copy(b.Targets[r*b.SeqLen:(r+1)*b.SeqLen], y)
	for t, id := range y {
		if int(id) >= b.VocabSize {
			return fmt.Errorf("%w: target %d not below vocabulary size %d", ErrBadID, id, b.VocabSize)
		}
		b.OneHot[(r*b.SeqLen+t)*b.VocabSize+int(id)] = 1
	}
	return nil
}

// InputRow returns row r of Inputs.
func (b *GeneratorBatch) InputRow(r int) []int32 {
	return b.Inputs[r*b.SeqLen : (r+1)*b.SeqLen]
}

// TargetRow returns row r of Targets.
func (b *GeneratorBatch) TargetRow(r int) []int32 {
	return b.Targets[r*b.SeqLen : (r+1)*b.SeqLen]
}

// ToGomlxTensors converts the batch to gomlx tensors: inputs int32
// (B, T) and one-hot targets float32 (B, T, V).
func (b *GeneratorBatch) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	if b.BatchSize == 0 || b.SeqLen == 0 || b.VocabSize == 0 {
		return nil, nil, fmt.Errorf("empty generator batch (%d, %d, %d)", b.BatchSize, b.SeqLen, b.VocabSize)
	}
	inputs := make([][]int32, b.BatchSize)
	targets := make([][][]float32, b.BatchSize)
	for r := range b.BatchSize {
		inputs[r] = b.InputRow(r)
		targets[r] = make([][]float32, b.SeqLen)
		for t := range b.SeqLen {
			off := (r*b.SeqLen + t) * b.VocabSize
			targets[r][t] = b.OneHot[off : off+b.VocabSize]
		}
	}
	return tensors.FromAnyValue(inputs), tensors.FromAnyValue(targets), nil
}

// ToGorgoniaTensors wraps the flat buffers as gorgonia dense tensors without
// copying: inputs (B, T) and one-hot targets (B, T, V).
func (b *GeneratorBatch) ToGorgoniaTensors() (*tensor.Dense, *tensor.Dense) {
	x := tensor.New(tensor.WithShape(b.BatchSize, b.SeqLen), tensor.WithBacking(b.Inputs))
	y := tensor.New(tensor.WithShape(b.BatchSize, b.SeqLen, b.VocabSize), tensor.WithBacking(b.OneHot))
	return x, y
}

// DiscriminatorBatch stores a discriminator batch in flat contiguous buffers.
type DiscriminatorBatch struct {
	// Inputs is (BatchSize, SeqLen) row-major.
	Inputs []int32
	// Labels holds 1 for rows from the positive corpus, 0 for the negative one.
	Labels []int32

	BatchSize int
	SeqLen    int
}

func newDiscriminatorBatch(batchSize, seqLen int) *DiscriminatorBatch {
	return &DiscriminatorBatch{
		Inputs:    make([]int32, batchSize*seqLen),
		Labels:    make([]int32, batchSize),
		BatchSize: batchSize,
		SeqLen:    seqLen,
	}
}

// InputRow returns row r of Inputs.
func (b *DiscriminatorBatch) InputRow(r int) []int32 {
	return b.Inputs[r*b.SeqLen : (r+1)*b.SeqLen]
}

// ToGomlxTensors converts the batch to gomlx tensors: inputs int32 (B, T) and
// labels float32 (B), the form binary cross-entropy losses expect.
func (b *DiscriminatorBatch) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	if b.BatchSize == 0 || b.SeqLen == 0 {
		return nil, nil, fmt.Errorf("empty discriminator batch (%d, %d)", b.BatchSize, b.SeqLen)
	}
	inputs := make([][]int32, b.BatchSize)
	labels := make([]float32, b.BatchSize)
	for r := range b.BatchSize {
		inputs[r] = b.InputRow(r)
		labels[r] = float32(b.Labels[r])
	}
	return tensors.FromAnyValue(inputs), tensors.FromAnyValue(labels), nil
}

// ToGorgoniaTensors wraps the flat buffers as gorgonia dense tensors without
// copying: inputs (B, T) and labels (B).
func (b *DiscriminatorBatch) ToGorgoniaTensors() (*tensor.Dense, *tensor.Dense) {
	x := tensor.New(tensor.WithShape(b.BatchSize, b.SeqLen), tensor.WithBacking(b.Inputs))
	y := tensor.New(tensor.WithShape(b.BatchSize), tensor.WithBacking(b.Labels))
	return x, y
}
