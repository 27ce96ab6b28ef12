package shorthand

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateDescribe(t *testing.T) {
	tmpl, err := NewTemplate(`[ ?${flag} "lit" ] ${a.b}`)
	require.NoError(t, err)

	kinds := make([]string, 0)
	for _, d := range tmpl.Describe() {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []string{
		"OptionalOpen",
		"OptionalPresenceFlag",
		"Literal",
		"OptionalClose",
		"Variable",
	}, kinds)
}

func TestNewTemplateRejectsUnterminatedQuote(t *testing.T) {
	_, err := NewTemplate(`"unterminated`)
	require.Error(t, err)
}

func TestTemplateRawPreserved(t *testing.T) {
	raw := `${a} "=" ${b}`
	tmpl, err := NewTemplate(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, tmpl.Raw())
}

// propTemplate is a well-formed template generated from the grammar: a
// sequence of literals and variables, joined by a "|" literal, with at most
// one optional block wrapping one of the variables behind a presence flag.
// optIdx is -1 when no optional was generated; flagName is "" in that case.
func propTemplate(r *rand.Rand) (tmpl string, names []string, optIdx int, flagName string) {
	n := 2 + r.Intn(3)
	var parts []string
	optIdx = -1
	if r.Intn(2) == 0 {
		// Never wrap the last variable: with nothing after it to fail
		// against, the optional's "try" path always succeeds trivially
		// and the skip branch is never actually exercised.
		optIdx = r.Intn(n - 1)
		flagName = "flag"
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("v%d", i)
		names = append(names, name)
		part := fmt.Sprintf("${%s}", name)
		if i == optIdx {
			part = fmt.Sprintf("[ ?${%s} %s ]", flagName, part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " \"|\" "), names, optIdx, flagName
}

// propInput renders one value per name, joined by " | " to match the
// template's "|" literal separators. If skipIdx >= 0, that position's value
// is left empty (simulating the optional at that position being absent);
// the surrounding "|" literals still line up since they sit outside the
// optional in propTemplate.
func propInput(names []string, skipIdx int) string {
	var parts []string
	for i, name := range names {
		if i == skipIdx {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, "val_"+name)
	}
	return strings.Join(parts, " | ")
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func checkNoPanic(t *testing.T, tmplStr, input string, fn func()) {
	t.Helper()
	defer func() {
		if rec := recover(); rec != nil {
			t.Fatalf("panic on template %q input %q: %v", tmplStr, input, rec)
		}
	}()
	fn()
}

// TestPropertyNoPanicsPresenceFlagsAndRoundTrip is a lightweight
// property-based check over randomly generated well-formed templates and
// inputs, per spec.md §8: (a) matching never panics, (b) on success every
// declared presence flag is bound to a boolean on both the taken and
// skipped paths, and (c) for finalMatchRaw=false, rejoining the captured
// values reproduces the input modulo whitespace (invariant 4).
func TestPropertyNoPanicsPresenceFlagsAndRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		tmplStr, names, optIdx, flagName := propTemplate(r)

		presentInput := propInput(names, -1)
		checkNoPanic(t, tmplStr, presentInput, func() {
			proc, err := New(tmplStr, Options{}, nil)
			if err != nil {
				return
			}
			res, merr := proc.Match(presentInput)
			if merr != nil {
				return
			}

			var captured []string
			for _, name := range names {
				v, ok := res.Get(name)
				require.True(t, ok, "variable %s not bound", name)
				s, ok := v.(string)
				require.True(t, ok, "variable %s not a string", name)
				captured = append(captured, s)
			}
			if flagName != "" {
				v, ok := res.Get(flagName)
				require.True(t, ok, "presence flag %s not bound", flagName)
				assert.Equal(t, true, v)
			}

			rendered := strings.Join(captured, " | ")
			assert.Equal(t, normalizeWhitespace(presentInput), normalizeWhitespace(rendered),
				"round-trip mismatch for template %q input %q", tmplStr, presentInput)
		})

		if optIdx < 0 {
			continue
		}

		absentInput := propInput(names, optIdx)
		checkNoPanic(t, tmplStr, absentInput, func() {
			proc, err := New(tmplStr, Options{}, nil)
			if err != nil {
				return
			}
			res, merr := proc.Match(absentInput)
			if merr != nil {
				return
			}

			v, ok := res.Get(flagName)
			require.True(t, ok, "presence flag %s not bound on skip path", flagName)
			assert.Equal(t, false, v)

			for i, name := range names {
				if i == optIdx {
					continue
				}
				_, ok := res.Get(name)
				assert.True(t, ok, "variable %s not bound on skip path", name)
			}
		})
	}
}
