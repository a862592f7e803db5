package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This file describes the two batch providers that turn id-encoded corpus
// files into fixed-length integer batches for adversarial sequence training.
//
// Both providers are lazy: they keep file paths and a line-offset index and
// only read the lines of the batch being assembled, so a corpus never has to
// fit in memory.
//
// Layout and intended usage:
//
// GeneratorDataset
//   - One id file (see vocab.EncodeFile), one sentence per line.
//   - Inputs per row:  [BOS, ids..., EOS] cut or PAD-filled to SeqLen.
//   - Targets per row: [ids..., EOS] cut or PAD-filled to SeqLen, also
//     expanded to a one-hot vector over the vocabulary per timestep.
//
// DiscriminatorDataset
//   - A positive (real) and a negative (generated) id file, indexed as one
//     range: positive rows first, then negative rows.
//   - Inputs per row: [ids..., EOS] cut or PAD-filled to SeqLen.
//   - Labels per row: 1 for positive rows, 0 for negative rows.
//
// A trailing partial batch is never emitted. The visitation order is a
// permutation regenerated by Reset, which the training loop must call at the
// end of every epoch; forgetting it repeats the previous order.
//
// Providers are not safe for concurrent use. Several providers may share one
// id file (and one LineIndex) as long as nothing rewrites the file meanwhile.

// Dataset is the epoch contract shared by both providers. Besides random
// access by batch number it implements gomlx's train.Dataset so a provider can
// be handed to a gomlx training loop directly.
type Dataset interface {
	// Len is the number of rows (sentences) the provider draws from.
	Len() int
	// NumBatches is Len() / batch size; the remainder is dropped.
	NumBatches() int
	// Reset regenerates the permutation and rewinds Yield.
	Reset()

	// To implement gomlx's train.Dataset interface
	Name() string
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
}

var (
	_ Dataset = (*GeneratorDataset)(nil)
	_ Dataset = (*DiscriminatorDataset)(nil)
)
