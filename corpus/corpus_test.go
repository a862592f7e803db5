package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// writeFile writes content to a file named name under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestCountLines(t *testing.T) {
	tmp := t.TempDir()
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"terminated", "a b\nc\n", 2},
		{"unterminated tail", "a b\nc", 2},
		{"blank lines", "\n\n\n", 3},
		{"single no newline", "x", 1},
	}
	for _, c := range cases {
		path := writeFile(t, tmp, c.name+".txt", c.content)
		got, err := CountLines(path)
		if err != nil {
			t.Fatalf("%s: CountLines error: %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("%s: CountLines = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestCountLines_MissingFile(t *testing.T) {
	_, err := CountLines(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadSentences(t *testing.T) {
	path := writeFile(t, t.TempDir(), "raw.txt", "the cat  sat\n\n  on\tthe mat\r\nend")
	got, err := LoadSentences(path)
	if err != nil {
		t.Fatalf("LoadSentences error: %v", err)
	}
	want := [][]string{{"the", "cat", "sat"}, {}, {"on", "the", "mat"}, {"end"}}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("sentence %d: got %q want %q", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("sentence %d: got %q want %q", i, got[i], want[i])
			}
		}
	}
}

func TestLineIndex_Line(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ids.txt", "4 5 6\n\n7\r\n8 9")
	idx, err := NewLineIndex(4)
	if err != nil {
		t.Fatalf("NewLineIndex error: %v", err)
	}

	n, err := idx.Count(path)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 4 {
		t.Fatalf("Count = %d, want 4", n)
	}
	cn, _ := CountLines(path)
	if cn != n {
		t.Fatalf("CountLines = %d disagrees with index count %d", cn, n)
	}

	want := []string{"4 5 6", "", "7", "8 9"}
	// read out of order to exercise seeking
	for _, i := range []int{3, 1, 4, 2, 1} {
		got, err := idx.Line(path, i)
		if err != nil {
			t.Fatalf("Line(%d) error: %v", i, err)
		}
		if got != want[i-1] {
			t.Fatalf("Line(%d) = %q, want %q", i, got, want[i-1])
		}
	}
}

func TestLineIndex_OutOfRange(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ids.txt", "1\n2\n")
	idx, _ := NewLineIndex(1)
	for _, i := range []int{0, -1, 3} {
		if _, err := idx.Line(path, i); !errors.Is(err, ErrLineOutOfRange) {
			t.Fatalf("Line(%d): expected ErrLineOutOfRange, got %v", i, err)
		}
	}
}

func TestLineIndex_MissingFile(t *testing.T) {
	idx, _ := NewLineIndex(1)
	_, err := idx.Line(filepath.Join(t.TempDir(), "missing.txt"), 1)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLineIndex_LongLine(t *testing.T) {
	long := make([]byte, 200*1024)
	for i := range long {
		long[i] = 'a'
	}
	path := writeFile(t, t.TempDir(), "long.txt", "x\n"+string(long)+"\ny\n")
	idx, _ := NewLineIndex(1)
	if n, _ := idx.Count(path); n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
	got, err := idx.Line(path, 3)
	if err != nil || got != "y" {
		t.Fatalf("Line(3) = %q, %v; want \"y\"", got, err)
	}
	got, _ = idx.Line(path, 2)
	if len(got) != len(long) {
		t.Fatalf("Line(2) length = %d, want %d", len(got), len(long))
	}
}

// Offsets are keyed by path: a rewritten file is only seen after Clear.
func TestLineIndex_StaleUntilClear(t *testing.T) {
	tmp := t.TempDir()
	path := writeFile(t, tmp, "neg.txt", "1 1\n2 2\n")
	idx, _ := NewLineIndex(2)

	if n, _ := idx.Count(path); n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}
	writeFile(t, tmp, "neg.txt", "1 1\n2 2\n3 3\n")
	if n, _ := idx.Count(path); n != 2 {
		t.Fatalf("expected cached count 2 before Clear, got %d", n)
	}

	idx.Clear(path)
	if n, _ := idx.Count(path); n != 3 {
		t.Fatalf("expected count 3 after Clear, got %d", n)
	}
	got, err := idx.Line(path, 3)
	if err != nil || got != "3 3" {
		t.Fatalf("Line(3) = %q, %v; want \"3 3\"", got, err)
	}
}

func TestLineIndex_Eviction(t *testing.T) {
	tmp := t.TempDir()
	a := writeFile(t, tmp, "a.txt", "a\n")
	b := writeFile(t, tmp, "b.txt", "b\n")
	idx, _ := NewLineIndex(1)

	if _, err := idx.Count(a); err != nil {
		t.Fatalf("Count(a) error: %v", err)
	}
	writeFile(t, tmp, "a.txt", "a\na\n")
	// indexing b evicts a, so a is re-read
	if _, err := idx.Count(b); err != nil {
		t.Fatalf("Count(b) error: %v", err)
	}
	if n, _ := idx.Count(a); n != 2 {
		t.Fatalf("expected a to be re-indexed after eviction, got %d lines", n)
	}
}

func TestGetLine_Default(t *testing.T) {
	path := writeFile(t, t.TempDir(), "d.txt", "first\nsecond\n")
	defer ClearCache()
	got, err := GetLine(path, 2)
	if err != nil || got != "second" {
		t.Fatalf("GetLine = %q, %v; want \"second\"", got, err)
	}
}

func TestNewLineIndex_BadCapacity(t *testing.T) {
	if _, err := NewLineIndex(0); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
}
