package datasets

import (
	"fmt"

	"github.com/Noofbiz/seqgan/corpus"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"k8s.io/klog/v2"
)

// DiscriminatorDataset serves labeled batches drawn from a positive (real) and
// a negative (generated) id file. Physical rows [0, PosLen) are the positive
// file's lines, rows [PosLen, Len) the negative file's.
type DiscriminatorDataset struct {
	PosPath string
	NegPath string

	*indexSource

	posN   int
	negN   int
	seqLen int
	lines  *corpus.LineIndex
}

// NewDiscriminatorDataset creates a provider over the two id files. The
// negative file is usually written by the generator between adversarial
// rounds; if it is rewritten in place, Clear its path on cfg.Lines and build
// a new provider.
func NewDiscriminatorDataset(posPath, negPath string, cfg Config) (*DiscriminatorDataset, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	posN, err := cfg.Lines.Count(posPath)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows in %s: %w", posPath, err)
	}
	negN, err := cfg.Lines.Count(negPath)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows in %s: %w", negPath, err)
	}

	d := &DiscriminatorDataset{
		PosPath:     posPath,
		NegPath:     negPath,
		indexSource: newIndexSource(posN+negN, cfg.BatchSize, cfg.Shuffle, cfg.Seed),
		posN:        posN,
		negN:        negN,
		seqLen:      cfg.SeqLen,
		lines:       cfg.Lines,
	}
	klog.V(1).Infof("discriminator dataset: %d positive + %d negative rows, %d batches of %d",
		posN, negN, d.NumBatches(), cfg.BatchSize)
	return d, nil
}

// Len returns the number of positive plus negative rows.
func (d *DiscriminatorDataset) Len() int {
	return d.n
}

// PosLen is the number of rows in the positive file.
func (d *DiscriminatorDataset) PosLen() int {
	return d.posN
}

// NegLen is the number of rows in the negative file.
func (d *DiscriminatorDataset) NegLen() int {
	return d.negN
}

// NumBatches returns Len() / batch size; a trailing partial batch is dropped.
func (d *DiscriminatorDataset) NumBatches() int {
	return d.numBatches()
}

// locate maps a physical row to its file, 1-indexed line and label. Membership
// is decided from the row number alone on every call.
func (d *DiscriminatorDataset) locate(row int) (path string, line int, label int32) {
	if row < d.posN {
		return d.PosPath, row + 1, 1
	}
	return d.NegPath, row - d.posN + 1, 0
}

// Batch assembles batch i, 0 <= i < NumBatches(), from the current epoch
// order. Either the whole batch is returned or an error.
func (d *DiscriminatorDataset) Batch(i int) (*DiscriminatorBatch, error) {
	rows, err := d.rows(i)
	if err != nil {
		return nil, err
	}

	b := newDiscriminatorBatch(len(rows), d.seqLen)
	truncated := 0
	for r, row := range rows {
		path, lineNo, label := d.locate(row)
		line, err := d.lines.Line(path, lineNo)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		ids, err := parseIDs(line, 0)
		if err != nil {
			return nil, fmt.Errorf("batch %d: line %d of %s: %w", i, lineNo, path, err)
		}
		if len(ids)+1 > d.seqLen {
			truncated++
		}
		copy(b.Inputs[r*d.seqLen:(r+1)*d.seqLen], ShapeDiscriminator(ids, d.seqLen))
		b.Labels[r] = label
	}
	if truncated > 0 {
		klog.V(2).Infof("discriminator dataset: batch %d truncated %d/%d rows to %d", i, truncated, len(rows), d.seqLen)
	}
	return b, nil
}

// Reset starts a new epoch: the order is reshuffled (or set back to file
// order when shuffling is off) and Yield starts again from batch 0. It must be
// called at the end of every epoch.
func (d *DiscriminatorDataset) Reset() {
	d.reset()
}

// OnEpochEnd is the end-of-epoch hook; it calls Reset.
func (d *DiscriminatorDataset) OnEpochEnd() {
	d.Reset()
}

// Name returns the name of the dataset
func (d *DiscriminatorDataset) Name() string {
	return "DiscriminatorDataset"
}

// Yield returns the next batch of the epoch as gomlx tensors, or io.EOF once
// every batch was yielded. Inputs are (B, T) ids, labels (B) floats.
func (d *DiscriminatorDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	i, err := d.next()
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := d.Batch(i)
	if err != nil {
		return nil, nil, nil, err
	}
	x, y, err := b.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{x}, []*tensors.Tensor{y}, nil
}
