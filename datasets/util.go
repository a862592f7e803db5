package datasets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Noofbiz/seqgan/corpus"
)

var (
	// ErrBatchOutOfRange is returned for a batch number outside [0, NumBatches()).
	ErrBatchOutOfRange = errors.New("batch index out of range")

	// ErrBadID is returned when an id file line holds a token that is not a
	// valid id for the vocabulary.
	ErrBadID = errors.New("invalid token id")
)

// Config holds the settings shared by both batch providers.
type Config struct {
	// BatchSize is the number of rows per batch. Default 32.
	BatchSize int

	// SeqLen (T) is the fixed length of every shaped row. Required, must be > 0.
	SeqLen int

	// Shuffle draws a new random permutation on every Reset. When false rows
	// are visited in file order.
	Shuffle bool

	// Seed for the shuffle RNG. If zero, a time-based seed is used.
	Seed int64

	// Lines is the line-offset index used to fetch rows. If nil the shared
	// corpus.Default() index is used.
	Lines *corpus.LineIndex
}

func (c Config) withDefaults() (Config, error) {
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.BatchSize < 0 {
		return c, fmt.Errorf("batch size must be > 0, got %d", c.BatchSize)
	}
	if c.SeqLen <= 0 {
		return c, fmt.Errorf("sequence length must be > 0, got %d", c.SeqLen)
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Lines == nil {
		c.Lines = corpus.Default()
	}
	return c, nil
}

// parseIDs splits an id file line into ids. With vocabSize > 0 every id must
// also be below it.
func parseIDs(line string, vocabSize int) ([]int32, error) {
	fields := strings.Fields(line)
	ids := make([]int32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadID, f)
		}
		if vocabSize > 0 && int(v) >= vocabSize {
			return nil, fmt.Errorf("%w: %d not below vocabulary size %d", ErrBadID, v, vocabSize)
		}
		ids[i] = int32(v)
	}
	return ids, nil
}
