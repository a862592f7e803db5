package datasets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Noofbiz/seqgan/corpus"
	"github.com/Noofbiz/seqgan/vocab"
)

// writeLines writes lines, each newline-terminated, to path.
func writeLines(t *testing.T, path string, lines []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	for _, l := range lines {
		if _, err := f.WriteString(l + "\n"); err != nil {
			t.Fatalf("failed to write line: %v", err)
		}
	}
}

func newLineIndex(t *testing.T) *corpus.LineIndex {
	t.Helper()
	idx, err := corpus.NewLineIndex(4)
	if err != nil {
		t.Fatalf("NewLineIndex failed: %v", err)
	}
	return idx
}

// tenRowVocab returns a vocabulary of size 14 (ids 4..13 for w0..w9) and an
// id file whose line k (0-based) is the single id 4+k.
func tenRowVocab(t *testing.T) (*vocab.Vocabulary, string) {
	t.Helper()
	tmp := t.TempDir()
	raw := filepath.Join(tmp, "raw.txt")
	ids := filepath.Join(tmp, "ids.txt")

	var sentences [][]string
	var lines []string
	for k := range 10 {
		tok := fmt.Sprintf("w%d", k)
		// decreasing frequency keeps w0..w9 at ids 4..13
		for range 10 - k {
			sentences = append(sentences, []string{tok})
		}
		lines = append(lines, tok)
	}
	writeLines(t, raw, lines)
	v := vocab.NewFromSentences(sentences, 1)
	if err := v.EncodeFile(raw, ids); err != nil {
		t.Fatalf("EncodeFile failed: %v", err)
	}
	return v, ids
}

func TestGeneratorDataset_NumBatches(t *testing.T) {
	v, ids := tenRowVocab(t)
	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 3, SeqLen: 4, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}
	if ds.Len() != 10 {
		t.Fatalf("Len = %d, want 10", ds.Len())
	}
	if ds.NumBatches() != 3 {
		t.Fatalf("NumBatches = %d, want 3", ds.NumBatches())
	}
	if ds.VocabSize() != 14 {
		t.Fatalf("VocabSize = %d, want 14", ds.VocabSize())
	}
}

func TestGeneratorDataset_BatchContents(t *testing.T) {
	v, ids := tenRowVocab(t)
	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 3, SeqLen: 4, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}

	// no shuffle: batch 1 covers lines 3, 4, 5 -> ids 7, 8, 9
	b, err := ds.Batch(1)
	if err != nil {
		t.Fatalf("Batch(1) failed: %v", err)
	}
	if b.BatchSize != 3 || b.SeqLen != 4 || b.VocabSize != 14 {
		t.Fatalf("unexpected batch dims: %d %d %d", b.BatchSize, b.SeqLen, b.VocabSize)
	}
	if len(b.OneHot) != 3*4*14 {
		t.Fatalf("one-hot length %d, want %d", len(b.OneHot), 3*4*14)
	}
	for r := range 3 {
		id := int32(7 + r)
		wantX := []int32{vocab.BOSID, id, vocab.EOSID, vocab.PadID}
		wantY := []int32{id, vocab.EOSID, vocab.PadID, vocab.PadID}
		if !equalIDs(b.InputRow(r), wantX) {
			t.Fatalf("row %d input = %v, want %v", r, b.InputRow(r), wantX)
		}
		if !equalIDs(b.TargetRow(r), wantY) {
			t.Fatalf("row %d target = %v, want %v", r, b.TargetRow(r), wantY)
		}
		for ts := range 4 {
			block := b.OneHot[(r*4+ts)*14 : (r*4+ts+1)*14]
			var sum float32
			for k, val := range block {
				sum += val
				if val == 1 && int32(k) != wantY[ts] {
					t.Fatalf("row %d step %d: hot index %d, want %d", r, ts, k, wantY[ts])
				}
			}
			if sum != 1 {
				t.Fatalf("row %d step %d: one-hot sums to %v", r, ts, sum)
			}
		}
	}

	x, y, err := b.ToGomlxTensors()
	if err != nil || x == nil || y == nil {
		t.Fatalf("ToGomlxTensors = %v, %v, %v", x, y, err)
	}
	gx, gy := b.ToGorgoniaTensors()
	if gx.Shape()[0] != 3 || gx.Shape()[1] != 4 || gy.Shape()[2] != 14 {
		t.Fatalf("unexpected gorgonia shapes %v %v", gx.Shape(), gy.Shape())
	}
}

func TestGeneratorDataset_OutOfRange(t *testing.T) {
	v, ids := tenRowVocab(t)
	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 3, SeqLen: 4, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}
	for _, i := range []int{-1, 3, 100} {
		if _, err := ds.Batch(i); !errors.Is(err, ErrBatchOutOfRange) {
			t.Fatalf("Batch(%d): expected ErrBatchOutOfRange, got %v", i, err)
		}
	}
}

func TestGeneratorDataset_ResetIdentity(t *testing.T) {
	v, ids := tenRowVocab(t)
	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 2, SeqLen: 3, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}
	for range 3 {
		ds.Reset()
		for i, p := range ds.Permutation() {
			if p != i {
				t.Fatalf("without shuffle the order must be identity, got %v", ds.Permutation())
			}
		}
	}
}

func TestGeneratorDataset_ResetShuffles(t *testing.T) {
	tmp := t.TempDir()
	ids := filepath.Join(tmp, "ids.txt")
	var lines []string
	for range 50 {
		lines = append(lines, "4")
	}
	writeLines(t, ids, lines)
	v := vocab.NewFromSentences([][]string{{"a"}}, 1)

	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 5, SeqLen: 3, Shuffle: true, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}
	ds.Reset()
	first := ds.Permutation()
	ds.Reset()
	second := ds.Permutation()

	same := true
	seen := make(map[int]bool)
	for i := range first {
		if first[i] != second[i] {
			same = false
		}
		seen[second[i]] = true
	}
	if same {
		t.Fatalf("two shuffled resets produced the same permutation")
	}
	if len(seen) != 50 {
		t.Fatalf("reset did not produce a permutation of [0, 50)")
	}

	// the permutation is stable between resets
	again := ds.Permutation()
	for i := range again {
		if again[i] != second[i] {
			t.Fatalf("permutation changed without Reset")
		}
	}
}

func TestGeneratorDataset_SeedReproducible(t *testing.T) {
	v, ids := tenRowVocab(t)
	lines := newLineIndex(t)
	a, _ := NewGeneratorDataset(ids, v, Config{BatchSize: 2, SeqLen: 3, Shuffle: true, Seed: 7, Lines: lines})
	b, _ := NewGeneratorDataset(ids, v, Config{BatchSize: 2, SeqLen: 3, Shuffle: true, Seed: 7, Lines: lines})
	pa, pb := a.Permutation(), b.Permutation()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", pa, pb)
		}
	}
}

func TestGeneratorDataset_Yield(t *testing.T) {
	v, ids := tenRowVocab(t)
	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 4, SeqLen: 3, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}
	for epoch := range 2 {
		n := 0
		for {
			_, inputs, labels, err := ds.Yield()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("epoch %d: Yield failed: %v", epoch, err)
			}
			if len(inputs) != 1 || len(labels) != 1 {
				t.Fatalf("expected one input and one label tensor")
			}
			n++
		}
		if n != 2 {
			t.Fatalf("epoch %d: yielded %d batches, want 2", epoch, n)
		}
		ds.OnEpochEnd()
	}
}

func TestGeneratorDataset_BadRows(t *testing.T) {
	tmp := t.TempDir()
	ids := filepath.Join(tmp, "ids.txt")
	writeLines(t, ids, []string{"4", "4 abc", "4 99"})
	v := vocab.NewFromSentences([][]string{{"a"}}, 1)

	ds, err := NewGeneratorDataset(ids, v, Config{BatchSize: 1, SeqLen: 3, Lines: newLineIndex(t)})
	if err != nil {
		t.Fatalf("NewGeneratorDataset failed: %v", err)
	}
	if _, err := ds.Batch(0); err != nil {
		t.Fatalf("Batch(0) failed: %v", err)
	}
	for _, i := range []int{1, 2} {
		if _, err := ds.Batch(i); !errors.Is(err, ErrBadID) {
			t.Fatalf("Batch(%d): expected ErrBadID, got %v", i, err)
		}
	}
}

func TestNewGeneratorDataset_Errors(t *testing.T) {
	v, ids := tenRowVocab(t)
	if _, err := NewGeneratorDataset(ids, v, Config{BatchSize: 2}); err == nil {
		t.Fatalf("expected error for missing sequence length")
	}
	if _, err := NewGeneratorDataset(ids, nil, Config{SeqLen: 2}); err == nil {
		t.Fatalf("expected error for nil vocabulary")
	}
	_, err := NewGeneratorDataset(filepath.Join(t.TempDir(), "missing.txt"), v, Config{SeqLen: 2, Lines: newLineIndex(t)})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
