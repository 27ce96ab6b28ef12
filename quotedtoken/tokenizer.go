// Package quotedtoken splits a string into whitespace-separated tokens while
// respecting double-quoted spans, the same way sqlparser.Scanner walks a
// buffer with a start/cur cursor pair, adapted here to whitespace-delimited
// shorthand tokens instead of SQL lexemes.
package quotedtoken

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// Tokenizer is a cursor over a string, splitting it into whitespace-delimited
// tokens. A quoted span (`"..."`) protects any whitespace inside it from
// being treated as a delimiter; quotes are kept in the emitted token text.
type Tokenizer struct {
	input  string
	toks   []string
	starts []int // byte offset of each token in input
	pos    int   // cursor into toks, for hasMore/next streaming
}

// New tokenizes input eagerly. It fails if a quote is opened and never
// closed.
func New(input string) (*Tokenizer, error) {
	toks, starts, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{input: input, toks: toks, starts: starts}, nil
}

func tokenize(input string) ([]string, []int, error) {
	var toks []string
	var starts []int
	i := 0
	n := len(input)
	for i < n {
		r, w := utf8.DecodeRuneInString(input[i:])
		if unicode.IsSpace(r) {
			i += w
			continue
		}
		start := i
		for i < n {
			r, w := utf8.DecodeRuneInString(input[i:])
			if unicode.IsSpace(r) {
				break
			}
			if r == '"' {
				closeAt, ok := scanQuoteSpan(input, i)
				if !ok {
					return nil, nil, fmt.Errorf("quoted span starting at position %d is never closed", i)
				}
				i = closeAt
				continue
			}
			i += w
		}
		toks = append(toks, input[start:i])
		starts = append(starts, start)
	}
	return toks, starts, nil
}

// scanQuoteSpan assumes input[i] == '"' and returns the index just past the
// matching, unescaped closing quote.
func scanQuoteSpan(input string, i int) (int, bool) {
	n := len(input)
	j := i + 1
	for j < n {
		r, w := utf8.DecodeRuneInString(input[j:])
		if r == '\\' && j+w < n {
			_, w2 := utf8.DecodeRuneInString(input[j+w:])
			j += w + w2
			continue
		}
		if r == '"' {
			return j + w, true
		}
		j += w
	}
	return 0, false
}

// Tokens returns the full ordered sequence of tokens.
func (t *Tokenizer) Tokens() []string {
	return t.toks
}

// HasMore reports whether Next would return a token.
func (t *Tokenizer) HasMore() bool {
	return t.pos < len(t.toks)
}

// Next returns the next token in streaming order and advances the cursor.
func (t *Tokenizer) Next() (string, bool) {
	if !t.HasMore() {
		return "", false
	}
	tok := t.toks[t.pos]
	t.pos++
	return tok, true
}

// RemainderRaw returns the input from the current streaming cursor to the
// end, with original spacing preserved. Used only by final-raw-match mode.
func (t *Tokenizer) RemainderRaw() string {
	if t.pos >= len(t.starts) {
		return ""
	}
	return t.input[t.starts[t.pos]:]
}

// QuoteSpanEnd assumes s[i] == '"' and returns the index just past the
// matching, unescaped closing quote. Exported for callers (literal-in-token
// search) that need to skip over an already-validated quoted span without
// re-deciding whether it's well-formed.
func QuoteSpanEnd(s string, i int) (int, bool) {
	return scanQuoteSpan(s, i)
}

// IsQuoted reports whether s begins and ends with '"' and the interior is a
// single balanced quoted run, so unwrapping removes exactly one layer.
func IsQuoted(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	end, ok := scanQuoteSpan(s, 0)
	return ok && end == len(s)
}

// Unwrap removes the outer quotes and decodes standard escape sequences if s
// isQuoted; otherwise it returns s unchanged.
func Unwrap(s string) string {
	if !IsQuoted(s) {
		return s
	}
	return decodeEscapes(s[1 : len(s)-1])
}

func decodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if r == '\\' && i+w < len(s) {
			r2, w2 := utf8.DecodeRuneInString(s[i+w:])
			switch r2 {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(r)
				b.WriteRune(r2)
			}
			i += w + w2
			continue
		}
		b.WriteRune(r)
		i += w
	}
	return b.String()
}

// LooksLikeIdentifier reports whether s would scan as a single identifier
// (Unicode letter/digit run starting with an identifier-start rune), for use
// in sharper diagnostics when a token shape is unexpected.
func LooksLikeIdentifier(s string) bool {
	if s == "" {
		return false
	}
	r, w := utf8.DecodeRuneInString(s)
	if !xid.Start(r) {
		return false
	}
	for _, r := range s[w:] {
		if !xid.Continue(r) {
			return false
		}
	}
	return true
}
