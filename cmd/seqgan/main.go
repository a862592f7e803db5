// Command seqgan prepares text corpora for adversarial sequence training:
// it builds vocabularies, converts between raw and id-encoded corpora,
// reports corpus statistics and prints batches exactly as the training
// loop will receive them.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Noofbiz/seqgan/corpus"
	"github.com/Noofbiz/seqgan/datasets"
	"github.com/Noofbiz/seqgan/vocab"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "vocab":
		err = runVocab(args)
	case "encode":
		err = runConvert("encode", args)
	case "decode":
		err = runConvert("decode", args)
	case "stats":
		err = runStats(args)
	case "batch":
		err = runBatch(args)
	default:
		printUsage()
		os.Exit(1)
	}
	klog.Flush()
	if err != nil {
		klog.Fatalf("%s: %v", os.Args[1], err)
	}
}

func printUsage() {
	fmt.Println("seqgan - corpus staging for SeqGAN training")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seqgan vocab  -corpus FILE -vocab OUT [-min-count N]")
	fmt.Println("  seqgan encode -vocab FILE -in RAW -out IDS")
	fmt.Println("  seqgan decode -vocab FILE -in IDS -out RAW")
	fmt.Println("  seqgan stats  -in FILE [-seq-len T] [-plot PNG]")
	fmt.Println("  seqgan batch  -vocab FILE -ids IDS [-neg IDS] [-index I] [options]")
	fmt.Println()
	fmt.Println("Every command accepts -config FILE (YAML/JSON) and -print-effective-config.")
}

// newFlagSet creates the flag set of a command with klog's flags registered.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	klog.InitFlags(fs)
	return fs
}

func runVocab(args []string) error {
	fs := newFlagSet("vocab")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if cfg.Corpus == "" || cfg.Vocab == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-corpus and -vocab are required")
	}

	v, err := vocab.New(cfg.Corpus, cfg.MinCount)
	if err != nil {
		return err
	}
	if err := v.Save(cfg.Vocab); err != nil {
		return err
	}
	klog.Infof("Built vocabulary of %s tokens from %s sentences (min count %d), saved to %s",
		humanize.Comma(int64(v.Size())), humanize.Comma(int64(v.SentenceCount())), v.MinCount(), cfg.Vocab)
	return nil
}

func runConvert(direction string, args []string) error {
	fs := newFlagSet(direction)
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file (replaced)")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if cfg.Vocab == "" || *in == "" || *out == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-vocab, -in and -out are required")
	}

	v, err := vocab.Load(cfg.Vocab)
	if err != nil {
		return err
	}
	if direction == "encode" {
		err = v.EncodeFile(*in, *out)
	} else {
		err = v.DecodeFile(*in, *out)
	}
	if err != nil {
		return err
	}
	n, err := corpus.CountLines(*out)
	if err != nil {
		return err
	}
	klog.Infof("%sd %s lines: %s -> %s", direction, humanize.Comma(int64(n)), *in, *out)
	return nil
}

func runStats(args []string) error {
	fs := newFlagSet("stats")
	in := fs.String("in", "", "corpus file (raw or id-encoded)")
	plotPath := fs.String("plot", "", "write a sentence length histogram PNG here (optional)")
	bins := fs.Int("bins", 30, "histogram bins")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if *in == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-in is required")
	}

	info, err := os.Stat(*in)
	if err != nil {
		return err
	}
	s, err := corpus.LengthStats(*in)
	if err != nil {
		return err
	}
	fmt.Printf("file:      %s (%s)\n", *in, humanize.Bytes(uint64(info.Size())))
	fmt.Printf("sentences: %s\n", humanize.Comma(int64(s.Lines)))
	fmt.Printf("tokens:    %s\n", humanize.Comma(int64(s.Tokens)))
	fmt.Printf("length:    mean %.2f  std %.2f  median %.0f  p90 %.0f  p99 %.0f  max %d\n",
		s.Mean, s.StdDev, s.Median, s.P90, s.P99, s.Max)
	fmt.Printf("seq-len %d truncates %.2f%% of sentences\n", cfg.Dataset.SeqLen, 100*s.TruncatedFraction(cfg.Dataset.SeqLen))

	if *plotPath != "" {
		if err := plotLengths(*plotPath, s, *bins); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		klog.Infof("Wrote length histogram to %s", *plotPath)
	}
	return nil
}

func runBatch(args []string) error {
	fs := newFlagSet("batch")
	index := fs.Int("index", 0, "batch number to print")
	cfg, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if cfg.Dataset.IDs == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-ids is required")
	}

	lines, err := corpus.NewLineIndex(cfg.Dataset.LineIndexEntries)
	if err != nil {
		return err
	}
	dcfg := datasets.Config{
		BatchSize: cfg.Dataset.BatchSize,
		SeqLen:    cfg.Dataset.SeqLen,
		Shuffle:   cfg.Dataset.Shuffle,
		Seed:      cfg.Dataset.Seed,
		Lines:     lines,
	}

	if cfg.Dataset.Negative != "" {
		ds, err := datasets.NewDiscriminatorDataset(cfg.Dataset.IDs, cfg.Dataset.Negative, dcfg)
		if err != nil {
			return err
		}
		klog.Infof("Discriminator dataset: %d positive + %d negative rows, %d batches",
			ds.PosLen(), ds.NegLen(), ds.NumBatches())
		b, err := ds.Batch(*index)
		if err != nil {
			return err
		}
		fmt.Printf("inputs (%d, %d), labels (%d)\n", b.BatchSize, b.SeqLen, b.BatchSize)
		for r := range b.BatchSize {
			fmt.Printf("%d\t%s\n", b.Labels[r], formatIDs(b.InputRow(r)))
		}
		return nil
	}

	if cfg.Vocab == "" {
		return fmt.Errorf("-vocab is required for generator batches")
	}
	v, err := vocab.Load(cfg.Vocab)
	if err != nil {
		return err
	}
	ds, err := datasets.NewGeneratorDataset(cfg.Dataset.IDs, v, dcfg)
	if err != nil {
		return err
	}
	klog.Infof("Generator dataset: %d rows, %d batches", ds.Len(), ds.NumBatches())
	b, err := ds.Batch(*index)
	if err != nil {
		return err
	}
	fmt.Printf("inputs (%d, %d), targets (%d, %d, %d)\n", b.BatchSize, b.SeqLen, b.BatchSize, b.SeqLen, b.VocabSize)
	for r := range b.BatchSize {
		fmt.Printf("x: %s\ny: %s\n", formatIDs(b.InputRow(r)), formatIDs(b.TargetRow(r)))
		fmt.Printf("   %s\n", strings.Join(v.Decode(toInts(b.InputRow(r))), " "))
	}
	return nil
}

func formatIDs(ids []int32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}

func toInts(ids []int32) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
