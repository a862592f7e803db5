package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultConfigYAML documents every setting with its default value. A config
// file passed with -config only needs the keys it changes; it may also be
// JSON, which YAML accepts as well.
const defaultConfigYAML = `
corpus: ""
vocab: vocab.json
min_count: 1
dataset:
  ids: ""
  negative: ""
  batch_size: 32
  seq_len: 20
  shuffle: true
  seed: 0
  line_index_entries: 16
`

// Config is the effective configuration: defaults, then the -config file,
// then flags given on the command line.
type Config struct {
	Corpus   string        `yaml:"corpus"`
	Vocab    string        `yaml:"vocab"`
	MinCount int           `yaml:"min_count"`
	Dataset  DatasetConfig `yaml:"dataset"`
}

// DatasetConfig configures the batch providers.
type DatasetConfig struct {
	IDs              string `yaml:"ids"`
	Negative         string `yaml:"negative"`
	BatchSize        int    `yaml:"batch_size"`
	SeqLen           int    `yaml:"seq_len"`
	Shuffle          bool   `yaml:"shuffle"`
	Seed             int64  `yaml:"seed"`
	LineIndexEntries int    `yaml:"line_index_entries"`
}

func defaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &cfg); err != nil {
		panic(fmt.Sprintf("invalid built-in config: %v", err))
	}
	return cfg
}

// registerFlags binds the flags of every command to cfg. Commands ignore the
// flags they do not use.
func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Corpus, "corpus", cfg.Corpus, "raw corpus file (one sentence per line)")
	fs.StringVar(&cfg.Vocab, "vocab", cfg.Vocab, "vocabulary JSON file")
	fs.IntVar(&cfg.MinCount, "min-count", cfg.MinCount, "drop tokens seen fewer times than this")
	fs.StringVar(&cfg.Dataset.IDs, "ids", cfg.Dataset.IDs, "id-encoded corpus (positive corpus for the discriminator)")
	fs.StringVar(&cfg.Dataset.Negative, "neg", cfg.Dataset.Negative, "id-encoded negative corpus; selects the discriminator provider")
	fs.IntVar(&cfg.Dataset.BatchSize, "batch-size", cfg.Dataset.BatchSize, "rows per batch")
	fs.IntVar(&cfg.Dataset.SeqLen, "seq-len", cfg.Dataset.SeqLen, "fixed sequence length T")
	fs.BoolVar(&cfg.Dataset.Shuffle, "shuffle", cfg.Dataset.Shuffle, "shuffle rows every epoch")
	fs.Int64Var(&cfg.Dataset.Seed, "seed", cfg.Dataset.Seed, "shuffle seed (0 = time based)")
	fs.IntVar(&cfg.Dataset.LineIndexEntries, "line-index-entries", cfg.Dataset.LineIndexEntries, "files whose line offsets are cached")
}

// parseConfig parses the args of one command. Flags given explicitly win over
// the -config file, which wins over the defaults.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	registerFlags(fs, &cfg)
	configPath := fs.String("config", "", "YAML or JSON config file (optional)")
	printEffective := fs.Bool("print-effective-config", false, "print the effective configuration and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		merged := defaultConfig()
		if err := yaml.Unmarshal(data, &merged); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", *configPath, err)
		}
		// re-apply the flags that were set explicitly
		overlay := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
		registerFlags(overlay, &merged)
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if overlay.Lookup(f.Name) == nil || setErr != nil {
				return
			}
			setErr = overlay.Set(f.Name, f.Value.String())
		})
		if setErr != nil {
			return cfg, setErr
		}
		cfg = merged
	}

	if *printEffective {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return cfg, err
		}
		fmt.Print(string(out))
		os.Exit(0)
	}
	return cfg, nil
}
