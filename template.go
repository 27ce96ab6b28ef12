package shorthand

import (
	"strings"

	"github.com/dannyvk/shorthand/quotedtoken"
)

// Template is an immutable, reusable shorthand pattern. Constructing it
// tokenizes the pattern string once via the QuotedTokenizer; a Template may
// be shared across goroutines and across many Processor.Match calls.
type Template struct {
	raw    string
	tokens []string
}

// NewTemplate tokenizes raw once. It fails with TokenizerFailure if raw
// contains an unterminated quoted span, and with MalformedTemplate if a
// ${...} token does not follow the variable name grammar.
func NewTemplate(raw string) (*Template, error) {
	tk, err := quotedtoken.New(raw)
	if err != nil {
		return nil, newError(TokenizerFailure, "template tokenizer failure: %s", err)
	}
	for _, tok := range tk.Tokens() {
		core := strings.TrimSuffix(strings.TrimLeft(tok, "["), "]")
		if strings.HasPrefix(core, "${") {
			if _, perr := parseVariablePath(core, raw); perr != nil {
				return nil, perr
			}
		}
	}
	return &Template{raw: raw, tokens: tk.Tokens()}, nil
}

// Raw returns the original template string.
func (t *Template) Raw() string {
	return t.raw
}

// Tokens returns the template's top-level tokens, exactly as the
// QuotedTokenizer produced them (brackets and quotes not yet peeled apart).
func (t *Template) Tokens() []string {
	return t.tokens
}

// TokenDescriptor is a human-readable rendering of one raw template token,
// used by the inspect CLI subcommand and internal/matchdump to show how a
// template will be interpreted without running a match.
type TokenDescriptor struct {
	Raw  string
	Kind string
}

// Describe renders each top-level token with its structural markers peeled
// apart, for display purposes only (Processor.Match reparses independently).
func (t *Template) Describe() []TokenDescriptor {
	var out []TokenDescriptor
	for _, tok := range t.tokens {
		out = append(out, describeToken(tok)...)
	}
	return out
}

func describeToken(tok string) []TokenDescriptor {
	var out []TokenDescriptor
	for {
		if len(tok) > 0 && tok[0] == '[' {
			out = append(out, TokenDescriptor{Raw: "[", Kind: "OptionalOpen"})
			tok = tok[1:]
			if tok == "" {
				return out
			}
			continue
		}
		if tok == "]" {
			out = append(out, TokenDescriptor{Raw: "]", Kind: "OptionalClose"})
			return out
		}
		if len(tok) > 1 && tok[len(tok)-1] == ']' {
			core := tok[:len(tok)-1]
			out = append(out, describeCore(core))
			out = append(out, TokenDescriptor{Raw: "]", Kind: "OptionalClose"})
			return out
		}
		out = append(out, describeCore(tok))
		return out
	}
}

func describeCore(tok string) TokenDescriptor {
	switch {
	case len(tok) > 0 && tok[0] == '?':
		return TokenDescriptor{Raw: tok, Kind: "OptionalPresenceFlag"}
	case quotedtoken.IsQuoted(tok):
		return TokenDescriptor{Raw: tok, Kind: "Literal"}
	case variableRegexp.MatchString(tok):
		return TokenDescriptor{Raw: tok, Kind: "Variable"}
	default:
		return TokenDescriptor{Raw: tok, Kind: "Other"}
	}
}
