// Package corpus reads and normalizes corpus text.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/keysplit/internal/model"
)

// Sentinel terminates the corpus token stream.
const Sentinel = "END"

// ErrTooShort is returned when fewer than two letters survive filtering.
var ErrTooShort = errors.New("corpus must contain at least 2 letters")

// NewScanner returns a whitespace token scanner suitable for Read.
func NewScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)
	return sc
}

// Read consumes tokens until the END sentinel or EOF and returns the
// filtered, lower-cased corpus. The scanner is left after the sentinel so
// further tokens can be read from the same stream.
func Read(sc *bufio.Scanner) (string, error) {
	var b strings.Builder
	for sc.Scan() {
		token := sc.Text()
		if token == Sentinel {
			break
		}
		appendFiltered(&b, token)
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read corpus: %w", err)
	}
	text := b.String()
	if len(text) < 2 {
		return "", ErrTooShort
	}
	return text, nil
}

// Load reads a corpus from r.
func Load(r io.Reader) (string, error) {
	return Read(NewScanner(r))
}

// LoadFile reads a corpus from the file at path.
func LoadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()
	return Load(file)
}

// Letters converts a filtered corpus into letter indices.
func Letters(text string) []model.Letter {
	out := make([]model.Letter, 0, len(text))
	for i := 0; i < len(text); i++ {
		if l, ok := model.LetterOf(text[i]); ok {
			out = append(out, l)
		}
	}
	return out
}

// appendFiltered keeps ASCII letters only. Bytes between 'Z' and 'a' and all
// non-ASCII input are dropped.
func appendFiltered(b *strings.Builder, token string) {
	for i := 0; i < len(token); i++ {
		ch := token[i]
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteByte(ch - 'A' + 'a')
		}
	}
}
