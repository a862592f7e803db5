package datasets

import (
	"fmt"

	"github.com/Noofbiz/seqgan/corpus"
	"github.com/Noofbiz/seqgan/vocab"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"k8s.io/klog/v2"
)

// GeneratorDataset serves next-token batches from one id-encoded corpus.
type GeneratorDataset struct {
	// Path of the id file rows are read from.
	Path string

	*indexSource

	vocab  *vocab.Vocabulary
	seqLen int
	lines  *corpus.LineIndex
}

// NewGeneratorDataset creates a provider over the id file at idsPath. The
// vocabulary sizes the one-hot targets and must be the one the file was
// encoded with. The first epoch order is ready on return.
func NewGeneratorDataset(idsPath string, v *vocab.Vocabulary, cfg Config) (*GeneratorDataset, error) {
	if v == nil {
		return nil, fmt.Errorf("vocabulary is nil")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	n, err := cfg.Lines.Count(idsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows in %s: %w", idsPath, err)
	}

	d := &GeneratorDataset{
		Path:        idsPath,
		indexSource: newIndexSource(n, cfg.BatchSize, cfg.Shuffle, cfg.Seed),
		vocab:       v,
		seqLen:      cfg.SeqLen,
		lines:       cfg.Lines,
	}
	klog.V(1).Infof("generator dataset: %d rows in %s, %d batches of %d", n, idsPath, d.NumBatches(), cfg.BatchSize)
	return d, nil
}

// Len returns the number of rows in the id file.
func (d *GeneratorDataset) Len() int {
	return d.n
}

// NumBatches returns Len() / batch size; a trailing partial batch is dropped.
func (d *GeneratorDataset) NumBatches() int {
	return d.numBatches()
}

// VocabSize is the width of the one-hot targets.
func (d *GeneratorDataset) VocabSize() int {
	return d.vocab.Size()
}

// Batch assembles batch i, 0 <= i < NumBatches(), from the current epoch
// order. Either the whole batch is returned or an error.
func (d *GeneratorDataset) Batch(i int) (*GeneratorBatch, error) {
	rows, err := d.rows(i)
	if err != nil {
		return nil, err
	}

	b := newGeneratorBatch(len(rows), d.seqLen, d.vocab.Size())
	truncated := 0
	for r, row := range rows {
		line, err := d.lines.Line(d.Path, row+1)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		ids, err := parseIDs(line, d.vocab.Size())
		if err != nil {
			return nil, fmt.Errorf("batch %d: line %d of %s: %w", i, row+1, d.Path, err)
		}
		if len(ids)+1 > d.seqLen {
			truncated++
		}
		if err := b.setRow(r, ShapeGeneratorInput(ids, d.seqLen), ShapeGeneratorTarget(ids, d.seqLen)); err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
	}
	if truncated > 0 {
		klog.V(2).Infof("generator dataset: batch %d truncated %d/%d rows to %d", i, truncated, len(rows), d.seqLen)
	}
	return b, nil
}

// Reset starts a new epoch: the order is reshuffled (or set back to file
// order when shuffling is off) and Yield starts again from batch 0. It must be
// called at the end of every epoch.
func (d *GeneratorDataset) Reset() {
	d.reset()
}

// OnEpochEnd is the end-of-epoch hook; it calls Reset.
func (d *GeneratorDataset) OnEpochEnd() {
	d.Reset()
}

// Name returns the name of the dataset
func (d *GeneratorDataset) Name() string {
	return "GeneratorDataset"
}

// Yield returns the next batch of the epoch as gomlx tensors, or io.EOF once
// every batch was yielded. Inputs are (B, T) ids, labels (B, T, V) one-hot.
func (d *GeneratorDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
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
