package templateset

import (
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannyvk/shorthand"
)

func testOpts() shorthand.Options {
	return shorthand.Options{}
}

func TestLoadTemplateSet(t *testing.T) {
	fsys := fstest.MapFS{
		"greeting.shorthand":        {Data: []byte(`"hello" ${name}`)},
		"nested/farewell.shorthand": {Data: []byte(`"bye" ${name}`)},
		"notes.txt":                 {Data: []byte(`not a template`)},
		".git/hooks/pre-commit.shorthand": {Data: []byte(`"ignored" ${x}`)},
	}

	ts, err := LoadTemplateSet(fsys, testOpts(), logrus.New())
	require.NoError(t, err)

	names := ts.Names()
	assert.ElementsMatch(t, []string{"greeting", "farewell"}, names)

	greeting, ok := ts.Get("greeting")
	require.True(t, ok)
	res, matchErr := greeting.Match("hello world")
	require.Nil(t, matchErr)
	assert.Equal(t, map[string]interface{}{"name": "world"}, res.ToMap())

	_, ok = ts.Get("notes")
	assert.False(t, ok)
}

func TestLoadTemplateSetDuplicateContentSkipped(t *testing.T) {
	fsys := fstest.MapFS{
		"a.shorthand": {Data: []byte(`"hi" ${x}`)},
		"b.shorthand": {Data: []byte(`"hi" ${x}`)},
	}

	ts, err := LoadTemplateSet(fsys, testOpts(), logrus.New())
	require.NoError(t, err)
	assert.Len(t, ts.Names(), 1)
}

func TestLoadTemplateSetInvalidTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.shorthand": {Data: []byte(`"unterminated`)},
	}

	_, err := LoadTemplateSet(fsys, testOpts(), logrus.New())
	assert.Error(t, err)
}
