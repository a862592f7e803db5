package vocab

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Noofbiz/seqgan/corpus"
	"k8s.io/klog/v2"
)

// ErrMalformedID is returned when an id file holds something other than
// non-negative base-10 integers.
var ErrMalformedID = errors.New("malformed token id")

// EncodeFile converts the raw corpus at inPath into an id file at outPath:
// one line of space-separated ids per input line, in input order. It streams
// the input and does not use the sentences the vocabulary was built from.
//
// outPath is replaced as a whole. Output goes to a temporary file in the same
// directory that is renamed over outPath only once every line is written, so
// a failure leaves any previous outPath untouched and no partial file behind.
// outPath must not be read by a batch provider while this runs.
func (v *Vocabulary) EncodeFile(inPath, outPath string) error {
	n := 0
	err := writeAtomic(outPath, func(w *bufio.Writer) error {
		return corpus.EachLine(inPath, func(line string) error {
			for i, tok := range corpus.Fields(line) {
				if i > 0 {
					w.WriteByte(' ')
				}
				w.WriteString(strconv.Itoa(v.ID(tok)))
			}
			n++
			return w.WriteByte('\n')
		})
	})
	if err != nil {
		return fmt.Errorf("encode %s to %s: %w", inPath, outPath, err)
	}
	klog.V(1).Infof("vocabulary: encoded %d lines of %s into %s", n, inPath, outPath)
	return nil
}

// DecodeFile converts the id file at inPath back into tokens at outPath.
// Unassigned ids decode to UnkToken; anything that is not a non-negative
// integer fails with ErrMalformedID. outPath is replaced as in EncodeFile.
func (v *Vocabulary) DecodeFile(inPath, outPath string) error {
	n := 0
	err := writeAtomic(outPath, func(w *bufio.Writer) error {
		return corpus.EachLine(inPath, func(line string) error {
			n++
			for i, field := range strings.Fields(line) {
				id, err := strconv.Atoi(field)
				if err != nil || id < 0 {
					return fmt.Errorf("%w: %q on line %d", ErrMalformedID, field, n)
				}
				if i > 0 {
					w.WriteByte(' ')
				}
				w.WriteString(v.Token(id))
			}
			return w.WriteByte('\n')
		})
	})
	if err != nil {
		return fmt.Errorf("decode %s to %s: %w", inPath, outPath, err)
	}
	klog.V(1).Infof("vocabulary: decoded %d lines of %s into %s", n, inPath, outPath)
	return nil
}

type fileFormat struct {
	MinCount int      `json:"min_count"`
	Tokens   []string `json:"tokens"`
}

// Save writes the vocabulary as JSON (tokens in id order). The sentences the
// vocabulary was built from are not saved.
func (v *Vocabulary) Save(path string) error {
	err := writeAtomic(path, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fileFormat{MinCount: v.minCount, Tokens: v.id2word})
	})
	if err != nil {
		return fmt.Errorf("save vocabulary to %s: %w", path, err)
	}
	return nil
}

// Load reads a vocabulary written by Save.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode vocabulary %s: %w", path, err)
	}
	v, err := fromTokens(f.Tokens, f.MinCount)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

// writeAtomic fills a temp file next to path through fn and renames it over
// path on success. On failure the temp file is removed.
func writeAtomic(path string, fn func(w *bufio.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}

	w := bufio.NewWriter(tmp)
	if err := fn(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
