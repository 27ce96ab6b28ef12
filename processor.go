package shorthand

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/dannyvk/shorthand/quotedtoken"
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
)

var (
	variableRegexp     = regexp.MustCompile(`^\$\{([A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)*)\}$`)
	presenceFlagRegexp = regexp.MustCompile(`^\?\$\{([A-Za-z0-9_-]+)\}$`)
)

// Options configures a Processor's matching behaviour.
type Options struct {
	// FinalMatchRaw, if set, makes the template's terminal capturing
	// variable absorb the raw remainder of the input (spacing and quoting
	// preserved) instead of a whitespace-normalised, per-token-unwrapped
	// join.
	FinalMatchRaw bool
}

// Processor matches input strings against a Template. It is immutable after
// construction (besides the embedded logger) and safe to call Match on
// concurrently; each call builds its own state.
type Processor struct {
	tmpl   *Template
	opts   Options
	logger logrus.FieldLogger
}

// NewProcessor builds a Processor from an already-tokenized Template.
func NewProcessor(tmpl *Template, opts Options, logger logrus.FieldLogger) *Processor {
	return &Processor{tmpl: tmpl, opts: opts, logger: logger}
}

// New tokenizes template and builds a Processor in one step.
func New(template string, opts Options, logger logrus.FieldLogger) (*Processor, error) {
	tmpl, err := NewTemplate(template)
	if err != nil {
		return nil, err
	}
	return NewProcessor(tmpl, opts, logger), nil
}

// Template returns the underlying Template, for inspection.
func (p *Processor) Template() *Template {
	return p.tmpl
}

// Match runs one attempt against input. It never panics and never blocks;
// failures are returned as *Error, never as a generic error.
func (p *Processor) Match(input string) (*Result, *Error) {
	attemptID := uuid.Must(uuid.NewV4()).String()

	m := &matchState{
		queue:       append([]string(nil), p.tmpl.tokens...),
		input:       input,
		result:      newResult(),
		opts:        p.opts,
		templateRaw: p.tmpl.raw,
	}

	if p.logger != nil {
		p.logger.WithField("attempt_id", attemptID).Debug("shorthand match starting")
	}

	if err := m.run(); err != nil {
		if p.logger != nil {
			p.logger.WithField("attempt_id", attemptID).WithError(err).Debug("shorthand match failed")
		}
		return nil, err
	}
	if m.depth != 0 {
		return nil, newError(MalformedTemplate, "unbalanced '[' in shorthand pattern '%s'", p.tmpl.raw)
	}
	if strings.TrimFunc(m.input, unicode.IsSpace) != "" {
		return nil, newError(TrailingInput, "Input has trailing characters after template is matched: '%s'", m.input)
	}

	if p.logger != nil {
		p.logger.WithField("attempt_id", attemptID).Debug("shorthand match succeeded")
	}
	return m.result, nil
}

// matchState is the per-call mutable state of one Match attempt: a template
// token queue (popped left-to-right, with structural markers re-inserted at
// the front one at a time), the yet-unconsumed input suffix, and the result
// mapping built so far. Optional blocks snapshot and restore this state to
// implement backtracking; trying an optional's body recurses into run() to
// run the rest of the match to completion, so a failure anywhere downstream
// of the optional (not just inside its own brackets) triggers the rollback.
type matchState struct {
	queue       []string
	input       string
	result      *Result
	opts        Options
	templateRaw string

	skipping  bool
	skipStack []bool
	depth     int
}

type stateSnapshot struct {
	result    *Result
	input     string
	queue     []string
	depth     int
	skipping  bool
	skipStack []bool
}

func (m *matchState) snapshot() stateSnapshot {
	return stateSnapshot{
		result:    m.result.clone(),
		input:     m.input,
		queue:     append([]string(nil), m.queue...),
		depth:     m.depth,
		skipping:  m.skipping,
		skipStack: append([]bool(nil), m.skipStack...),
	}
}

func (m *matchState) restore(s stateSnapshot) {
	m.result = s.result
	m.input = s.input
	m.queue = s.queue
	m.depth = s.depth
	m.skipping = s.skipping
	m.skipStack = s.skipStack
}

func (m *matchState) popFront() (string, bool) {
	if len(m.queue) == 0 {
		return "", false
	}
	tok := m.queue[0]
	m.queue = m.queue[1:]
	return tok, true
}

func (m *matchState) pushFront(tok string) {
	m.queue = append([]string{tok}, m.queue...)
}

func (m *matchState) peekFront() (string, bool) {
	if len(m.queue) == 0 {
		return "", false
	}
	return m.queue[0], true
}

// run processes the queue from its current front to true exhaustion,
// mutating m in place. It returns nil on success. "]" never terminates run
// early; it only updates depth/skipping bookkeeping and the loop continues,
// which is what lets a failure anywhere after an optional's closing bracket
// unwind back to that optional's try/skip decision point.
func (m *matchState) run() *Error {
	for {
		tok, ok := m.popFront()
		if !ok {
			return nil
		}

		if len(tok) > 0 && tok[0] == '[' {
			rest := tok[1:]
			if rest != "" {
				m.pushFront(rest)
			}
			if err := m.enterOptional(); err != nil {
				return err
			}
			continue
		}

		if tok == "]" {
			if err := m.closeOptional(); err != nil {
				return err
			}
			continue
		}

		if len(tok) > 1 && tok[len(tok)-1] == ']' {
			m.pushFront("]")
			tok = tok[:len(tok)-1]
		}

		if err := m.handleToken(tok); err != nil {
			return err
		}
	}
}

func (m *matchState) enterOptional() *Error {
	if !m.skipping {
		flagName, err := m.consumeFlag()
		if err != nil {
			return err
		}
		snap := m.snapshot()
		m.depth++
		m.skipStack = append(m.skipStack, false)

		if subErr := m.run(); subErr != nil {
			if subErr.Kind == MalformedTemplate {
				return subErr
			}
			m.restore(snap)
			if flagName != "" {
				m.result.setBool(flagName, false)
			}
			m.depth++
			m.skipStack = append(m.skipStack, true)
			m.skipping = true
			return nil
		}
		if flagName != "" {
			m.result.setBool(flagName, true)
		}
		return nil
	}

	flagName, err := m.consumeFlag()
	if err != nil {
		return err
	}
	if flagName != "" {
		m.result.setBool(flagName, false)
	}
	m.depth++
	m.skipStack = append(m.skipStack, true)
	return nil
}

func (m *matchState) closeOptional() *Error {
	if m.depth == 0 {
		return newError(MalformedTemplate, "unbalanced ']' in shorthand pattern '%s'", m.templateRaw)
	}
	m.depth--
	m.skipStack = m.skipStack[:len(m.skipStack)-1]
	m.skipping = len(m.skipStack) > 0 && m.skipStack[len(m.skipStack)-1]
	return nil
}

// consumeFlag peeks the current queue front; if it starts with '?' it must
// match the presence-flag shape exactly, otherwise it's left untouched (no
// flag declared for this optional).
func (m *matchState) consumeFlag() (string, *Error) {
	front, ok := m.peekFront()
	if !ok || front == "" || front[0] != '?' {
		return "", nil
	}
	sub := presenceFlagRegexp.FindStringSubmatch(front)
	if sub == nil {
		return "", newError(MalformedTemplate,
			"malformed optional presence flag '%s' in shorthand pattern '%s'%s", front, m.templateRaw, identifierHint(front))
	}
	m.popFront()
	return sub[1], nil
}

func (m *matchState) handleToken(tok string) *Error {
	if quotedtoken.IsQuoted(tok) {
		return m.handleLiteral(tok)
	}
	if strings.HasPrefix(tok, "${") {
		return m.handleVariable(tok)
	}
	return newError(MalformedTemplate, "Unexpected token in shorthand pattern '%s'", m.templateRaw)
}

func (m *matchState) handleLiteral(tok string) *Error {
	if m.skipping {
		return nil
	}
	lit := quotedtoken.Unwrap(tok)
	trimmedLit := strings.TrimLeftFunc(lit, unicode.IsSpace)
	trimmedInput := strings.TrimLeftFunc(m.input, unicode.IsSpace)

	if !strings.HasPrefix(trimmedInput, trimmedLit) {
		if trimmedInput == "" {
			return newError(LiteralMismatch, "Literal '%s' expected, when end of input reached", lit)
		}
		return newError(LiteralMismatch, "Literal '%s' expected, when encountered '%s'", lit, trimmedInput)
	}
	m.input = trimmedInput[len(trimmedLit):]
	return nil
}

func (m *matchState) handleVariable(tok string) *Error {
	path, perr := parseVariablePath(tok, m.templateRaw)
	if perr != nil {
		return perr
	}
	if m.skipping {
		return nil
	}

	m.input = strings.TrimLeftFunc(m.input, unicode.IsSpace)
	if m.input == "" {
		return newError(InputExhausted, "End of input when looking for variable %s", strings.Join(path, "."))
	}

	if m.isLastCapturingToken() {
		captured, err := m.captureFinal()
		if err != nil {
			return err
		}
		return m.result.setPath(path, captured)
	}

	inputTk, err := quotedtoken.New(m.input)
	if err != nil {
		return newError(TokenizerFailure, "%s", err.Error())
	}
	v, _ := inputTk.Next()

	var captured string
	var advance int
	switch {
	case quotedtoken.IsQuoted(v):
		captured = quotedtoken.Unwrap(v)
		advance = len(v)
	default:
		nextT, hasNext := m.peekFront()
		if hasNext && quotedtoken.IsQuoted(nextT) {
			nextLit := quotedtoken.Unwrap(nextT)
			idx := findLiteralOutsideQuotes(v, nextLit)
			if idx > 0 {
				captured = quotedtoken.Unwrap(v[:idx])
				advance = idx
				break
			}
		}
		captured = quotedtoken.Unwrap(v)
		advance = len(v)
	}

	m.input = m.input[advance:]
	return m.result.setPath(path, captured)
}

// isLastCapturingToken reports whether nothing but bare "]" markers remains
// in the queue after the current token.
func (m *matchState) isLastCapturingToken() bool {
	for _, t := range m.queue {
		if t != "]" {
			return false
		}
	}
	return true
}

func (m *matchState) captureFinal() (string, *Error) {
	inputTk, err := quotedtoken.New(m.input)
	if err != nil {
		return "", newError(TokenizerFailure, "%s", err.Error())
	}
	var captured string
	if m.opts.FinalMatchRaw {
		captured = inputTk.RemainderRaw()
	} else {
		var parts []string
		for inputTk.HasMore() {
			tok, _ := inputTk.Next()
			parts = append(parts, quotedtoken.Unwrap(tok))
		}
		captured = strings.Join(parts, " ")
	}
	m.input = ""
	return captured, nil
}

func parseVariablePath(tok, templateRaw string) ([]string, *Error) {
	sub := variableRegexp.FindStringSubmatch(tok)
	if sub == nil {
		return nil, newError(MalformedTemplate,
			"malformed variable token '%s' in shorthand pattern '%s'%s", tok, templateRaw, identifierHint(tok))
	}
	return strings.Split(sub[1], "."), nil
}

// identifierHint extracts the text between a token's outer "${"/"}" (or
// "?${"/"}") delimiters, if present, and returns a parenthesised note for a
// MalformedTemplate reason when that text is not a single identifier run
// (e.g. "message..." or "@x"); it returns "" when the text is one.
func identifierHint(tok string) string {
	inner := tok
	inner = strings.TrimPrefix(inner, "?")
	inner = strings.TrimPrefix(inner, "${")
	inner = strings.TrimSuffix(inner, "}")

	if quotedtoken.LooksLikeIdentifier(inner) {
		return ""
	}
	return fmt.Sprintf(" (inner text '%s' does not look like an identifier)", inner)
}

// findLiteralOutsideQuotes finds the first index of lit in v, skipping over
// any quoted spans in v (which, by construction, are always well-formed: v
// came from a QuotedTokenizer pass over already-validated input). Returns -1
// if not found.
func findLiteralOutsideQuotes(v, lit string) int {
	if lit == "" {
		return 0
	}
	i := 0
	for i <= len(v)-len(lit) {
		if v[i] == '"' {
			if end, ok := quotedtoken.QuoteSpanEnd(v, i); ok {
				i = end
				continue
			}
		}
		if strings.HasPrefix(v[i:], lit) {
			return i
		}
		i++
	}
	return -1
}
