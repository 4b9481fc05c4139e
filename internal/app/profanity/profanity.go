/*
Package profanity implements the word-list check applied to chat messages before broadcast.

A text is profane when any listed word or phrase appears in it as whole words, compared
case-insensitively. The embedded default list can be extended from a local file or from an
object in S3-compatible storage.
*/
package profanity

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

//go:embed words.txt
var defaultWords []byte

// maxLineLength bounds a single list entry.
const maxLineLength = 1024

// ObjectReader fetches a stored object by key.
type ObjectReader interface {
	ReadObject(ctx context.Context, key string) ([]byte, error)
}

// WordList is an immutable set of words and phrases. It is safe for concurrent use.
type WordList struct {
	words   map[string]struct{}
	phrases [][]string
}

// Default returns the embedded list.
func Default() *WordList {
	words, err := Parse(bytes.NewReader(defaultWords))
	if err != nil {
		panic(fmt.Sprintf("profanity: embedded word list is invalid: %v", err))
	}
	return New(words...)
}

// New builds a list from the given entries. Blank entries are ignored.
func New(entries ...string) *WordList {
	w := &WordList{words: make(map[string]struct{})}
	w.add(entries)
	return w
}

// Extend returns a new list holding the entries of w plus extra.
func (w *WordList) Extend(extra ...string) *WordList {
	out := &WordList{
		words:   make(map[string]struct{}, len(w.words)+len(extra)),
		phrases: slices.Clone(w.phrases),
	}
	for word := range w.words {
		out.words[word] = struct{}{}
	}
	out.add(extra)
	return out
}

func (w *WordList) add(entries []string) {
	for _, entry := range entries {
		tokens := tokenize(entry)
		switch len(tokens) {
		case 0:
		case 1:
			w.words[tokens[0]] = struct{}{}
		default:
			w.phrases = append(w.phrases, tokens)
		}
	}
}

// Len returns the number of distinct entries.
func (w *WordList) Len() int {
	return len(w.words) + len(w.phrases)
}

// IsProfane reports whether text contains a listed word or phrase as whole words.
func (w *WordList) IsProfane(text string) bool {
	tokens := tokenize(text)

	for i, token := range tokens {
		if _, ok := w.words[token]; ok {
			return true
		}
		for _, phrase := range w.phrases {
			if len(tokens)-i >= len(phrase) && slices.Equal(tokens[i:i+len(phrase)], phrase) {
				return true
			}
		}
	}

	return false
}

// tokenize folds case and splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	folded := cases.Fold().String(s)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Parse reads one entry per line, skipping blank lines and lines starting with '#'.
func Parse(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), maxLineLength)

	var entries []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	return entries, nil
}

// LoadFile reads entries from a local file.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// LoadObject reads entries from a stored object.
func LoadObject(ctx context.Context, reader ObjectReader, key string) ([]string, error) {
	data, err := reader.ReadObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word list %s: %w", key, err)
	}

	return Parse(bytes.NewReader(data))
}
