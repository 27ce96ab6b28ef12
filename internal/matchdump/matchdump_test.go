package matchdump

import (
	"testing"

	"github.com/dannyvk/shorthand"
)

func TestDumpTemplateAndResult(t *testing.T) {
	tmpl, err := shorthand.NewTemplate(`[ ?${flag} "lit" ] ${a.b}`)
	if err != nil {
		t.Fatalf("NewTemplate: %v", err)
	}
	DumpTemplate(tmpl)

	proc, err := shorthand.New(`${a.b}`, shorthand.Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, merr := proc.Match("hello")
	if merr != nil {
		t.Fatalf("Match: %v", merr)
	}
	DumpResult(res)
}
