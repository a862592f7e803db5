package main

// Example command that walks through the whole staging pipeline on a small
// corpus: build a vocabulary, encode the corpus to ids, then run two epochs of
// both batch providers the way a training loop would and convert the batches
// into gomlx tensors.
//
// Usage:
//   go run ./datasets/example -corpus path/to/raw.txt
//
// Without -corpus a tiny built-in corpus is written to a temp directory. The
// negative corpus for the discriminator is faked by reversing every sentence.

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/seqgan/corpus"
	"github.com/Noofbiz/seqgan/datasets"
	"github.com/Noofbiz/seqgan/vocab"
)

const sampleCorpus = `the cat sat on the mat
the dog sat on the log
a cat and a dog
the mat was red
the log was wet and cold
a red cat
the dog ran
the cat ran after the dog
`

func main() {
	rawPath := flag.String("corpus", "", "raw corpus file (optional)")
	batchSize := flag.Int("batch-size", 2, "rows per batch")
	seqLen := flag.Int("seq-len", 8, "sequence length T")
	flag.Parse()

	dir, err := os.MkdirTemp("", "seqgan-example")
	if err != nil {
		log.Fatalf("failed to create work dir: %v", err)
	}
	defer os.RemoveAll(dir)

	if *rawPath == "" {
		*rawPath = filepath.Join(dir, "raw.txt")
		if err := os.WriteFile(*rawPath, []byte(sampleCorpus), 0o644); err != nil {
			log.Fatalf("failed to write sample corpus: %v", err)
		}
	}

	v, err := vocab.New(*rawPath, 1)
	if err != nil {
		log.Fatalf("failed to build vocabulary: %v", err)
	}
	fmt.Printf("Vocabulary: %d tokens from %d sentences\n", v.Size(), v.SentenceCount())

	idsPath := filepath.Join(dir, "ids.txt")
	if err := v.EncodeFile(*rawPath, idsPath); err != nil {
		log.Fatalf("failed to encode corpus: %v", err)
	}

	// fake generator output: every sentence reversed
	negRaw := filepath.Join(dir, "neg_raw.txt")
	negIDs := filepath.Join(dir, "neg_ids.txt")
	if err := writeReversed(*rawPath, negRaw); err != nil {
		log.Fatalf("failed to write negative corpus: %v", err)
	}
	if err := v.EncodeFile(negRaw, negIDs); err != nil {
		log.Fatalf("failed to encode negative corpus: %v", err)
	}

	cfg := datasets.Config{BatchSize: *batchSize, SeqLen: *seqLen, Shuffle: true}

	gen, err := datasets.NewGeneratorDataset(idsPath, v, cfg)
	if err != nil {
		log.Fatalf("failed to create generator dataset: %v", err)
	}
	fmt.Printf("\nGenerator: %d rows, %d batches of %d per epoch\n", gen.Len(), gen.NumBatches(), *batchSize)
	for epoch := range 2 {
		for i := range gen.NumBatches() {
			b, err := gen.Batch(i)
			if err != nil {
				log.Fatalf("failed to build generator batch %d: %v", i, err)
			}
			x, y, err := b.ToGomlxTensors()
			if err != nil {
				log.Fatalf("failed to convert generator batch: %v", err)
			}
			if i == 0 {
				fmt.Printf("  epoch %d batch 0: x=%s y=%s\n", epoch, x.Shape(), y.Shape())
				fmt.Printf("    first row: %s\n", strings.Join(v.Decode(toInts(b.InputRow(0))), " "))
			}
		}
		gen.Reset()
	}

	disc, err := datasets.NewDiscriminatorDataset(idsPath, negIDs, cfg)
	if err != nil {
		log.Fatalf("failed to create discriminator dataset: %v", err)
	}
	fmt.Printf("\nDiscriminator: %d positive + %d negative rows, %d batches per epoch\n",
		disc.PosLen(), disc.NegLen(), disc.NumBatches())
	for epoch := range 2 {
		ones := 0
		for i := range disc.NumBatches() {
			b, err := disc.Batch(i)
			if err != nil {
				log.Fatalf("failed to build discriminator batch %d: %v", i, err)
			}
			for _, l := range b.Labels {
				ones += int(l)
			}
		}
		fmt.Printf("  epoch %d: %d positive labels\n", epoch, ones)
		disc.Reset()
	}
}

func writeReversed(in, out string) error {
	sentences, err := corpus.LoadSentences(in)
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, s := range sentences {
		for i := len(s) - 1; i >= 0; i-- {
			sb.WriteString(s[i])
			if i > 0 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return os.WriteFile(out, []byte(sb.String()), 0o644)
}

func toInts(ids []int32) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
