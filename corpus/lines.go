package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru"
	"k8s.io/klog/v2"
)

// ErrLineOutOfRange is returned when a line number is outside [1, line count].
var ErrLineOutOfRange = errors.New("line number out of range")

// DefaultLineIndexEntries is the number of files whose offsets are kept by
// the package-level index used by GetLine.
const DefaultLineIndexEntries = 16

// LineIndex gives random access to lines of large files without reading them
// into memory. The first access to a path scans it once and records the byte
// offset where every line starts; later accesses seek straight to the line.
//
// Offsets are cached per path, not per content. If a file is rewritten while
// its offsets are cached, reads may return stale or misaligned lines until
// Clear(path) or Purge is called.
type LineIndex struct {
	// path -> []int64 line start offsets
	cache *lru.Cache
}

// NewLineIndex creates an index that keeps offsets for at most maxPaths files,
// evicting the least recently used one.
func NewLineIndex(maxPaths int) (*LineIndex, error) {
	if maxPaths < 1 {
		return nil, fmt.Errorf("line index capacity must be >= 1, got %d", maxPaths)
	}
	cache, err := lru.New(maxPaths)
	if err != nil {
		return nil, fmt.Errorf("create line offset cache: %w", err)
	}
	return &LineIndex{cache: cache}, nil
}

// Count returns the number of lines of path, building its offsets if needed.
// It agrees with CountLines.
func (x *LineIndex) Count(path string) (int, error) {
	offsets, err := x.offsets(path)
	if err != nil {
		return 0, err
	}
	return len(offsets), nil
}

// Line returns line i (1-indexed) of path without its line terminator.
// i outside [1, Count(path)] fails with ErrLineOutOfRange.
func (x *LineIndex) Line(path string, i int) (string, error) {
	offsets, err := x.offsets(path)
	if err != nil {
		return "", err
	}
	if i < 1 || i > len(offsets) {
		return "", fmt.Errorf("%w: line %d of %s (%d lines)", ErrLineOutOfRange, i, path, len(offsets))
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Seek(offsets[i-1], io.SeekStart); err != nil {
		return "", fmt.Errorf("seek to line %d of %s: %w", i, path, err)
	}
	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read line %d of %s: %w", i, path, err)
	}
	return trimEOL(line), nil
}

// Clear drops the cached offsets of path. Call it whenever path may have been
// rewritten.
func (x *LineIndex) Clear(path string) {
	if x.cache.Remove(path) {
		klog.V(1).Infof("line index: cleared offsets for %s", path)
	}
}

// Purge drops the cached offsets of every file.
func (x *LineIndex) Purge() {
	x.cache.Purge()
}

func (x *LineIndex) offsets(path string) ([]int64, error) {
	if v, ok := x.cache.Get(path); ok {
		return v.([]int64), nil
	}
	offsets, err := scanOffsets(path)
	if err != nil {
		return nil, err
	}
	if x.cache.Add(path, offsets) {
		klog.V(2).Infof("line index: evicted least recently used file to index %s", path)
	}
	klog.V(1).Infof("line index: indexed %d lines of %s", len(offsets), path)
	return offsets, nil
}

// scanOffsets records the start offset of every line of path.
func scanOffsets(path string) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)
	var (
		offsets []int64
		pos     int64
	)
	atStart := true
	for {
		chunk, err := reader.ReadSlice('\n')
		if len(chunk) > 0 {
			if atStart {
				offsets = append(offsets, pos)
			}
			pos += int64(len(chunk))
			atStart = chunk[len(chunk)-1] == '\n'
		}
		if err == io.EOF {
			break
		}
		if err != nil && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("index %s: %w", path, err)
		}
	}
	return offsets, nil
}

var defaultIndex, _ = NewLineIndex(DefaultLineIndexEntries)

// Default returns the shared index used by GetLine and ClearCache.
func Default() *LineIndex {
	return defaultIndex
}

// GetLine returns line i (1-indexed) of path using the shared index.
func GetLine(path string, i int) (string, error) {
	return defaultIndex.Line(path, i)
}

// ClearCache drops every offset held by the shared index.
func ClearCache() {
	defaultIndex.Purge()
}
