package datasets

import (
	"fmt"
	"io"
	"math/rand"

	"k8s.io/klog/v2"
)

// indexSource is the shuffle and batching bookkeeping both providers share.
// Providers only decide how a physical row is fetched and shaped.
type indexSource struct {
	n         int
	batchSize int
	shuffle   bool

	// perm[i] is the physical row visited at logical position i this epoch.
	perm []int

	// cursor is the next batch Yield returns.
	cursor int

	rand *rand.Rand
}

func newIndexSource(n, batchSize int, shuffle bool, seed int64) *indexSource {
	s := &indexSource{
		n:         n,
		batchSize: batchSize,
		shuffle:   shuffle,
		perm:      make([]int, n),
		rand:      rand.New(rand.NewSource(seed)),
	}
	s.reset()
	return s
}

func (s *indexSource) numBatches() int {
	return s.n / s.batchSize
}

// reset rewinds the cursor and regenerates the permutation: identity order,
// shuffled when enabled.
func (s *indexSource) reset() {
	s.cursor = 0
	for i := range s.perm {
		s.perm[i] = i
	}
	if s.shuffle {
		s.rand.Shuffle(len(s.perm), func(i, j int) {
			s.perm[i], s.perm[j] = s.perm[j], s.perm[i]
		})
	}
	klog.V(1).Infof("dataset: new epoch order over %d rows (shuffle=%t)", s.n, s.shuffle)
}

// rows returns the physical rows of batch i.
func (s *indexSource) rows(i int) ([]int, error) {
	if i < 0 || i >= s.numBatches() {
		return nil, fmt.Errorf("%w: batch %d of %d", ErrBatchOutOfRange, i, s.numBatches())
	}
	return s.perm[i*s.batchSize : (i+1)*s.batchSize], nil
}

// next returns the batch number Yield should assemble, or io.EOF once the
// epoch is exhausted.
func (s *indexSource) next() (int, error) {
	if s.cursor >= s.numBatches() {
		return 0, io.EOF
	}
	i := s.cursor
	s.cursor++
	return i, nil
}

// Permutation returns a copy of the current epoch order.
func (s *indexSource) Permutation() []int {
	return append([]int(nil), s.perm...)
}
