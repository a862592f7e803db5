// Package corpus reads line-oriented text corpora: one sentence per line,
// tokens separated by whitespace. Files are never modified here.
package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fields splits a corpus line into its tokens.
func Fields(line string) []string {
	return strings.Fields(line)
}

// LoadSentences reads the whole file into memory as tokenized sentences, one
// per line. Blank lines become empty sentences so line numbers are preserved.
func LoadSentences(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer file.Close()

	var sentences [][]string
	err = eachLine(file, func(line string) error {
		sentences = append(sentences, Fields(line))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return sentences, nil
}

// CountLines streams the file once and returns the number of records: every
// newline-terminated line plus a trailing line without a newline, if any.
// The result is not cached; callers needing repeated counts should keep it.
func CountLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	buf := make([]byte, 64*1024)
	count := 0
	var last byte = '\n'
	for {
		n, err := file.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}

// eachLine calls fn for every record of r with the line terminator removed.
// Lines of any length are supported.
func eachLine(r io.Reader, fn func(line string) error) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if line == "" && err == io.EOF {
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}
		if ferr := fn(trimEOL(line)); ferr != nil {
			return ferr
		}
		if err == io.EOF {
			return nil
		}
	}
}

// EachLine streams path and calls fn for every line, in file order.
func EachLine(path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return eachLine(file, fn)
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
