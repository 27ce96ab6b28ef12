// Package matchdump is a test/debug helper for pretty-printing templates and
// match results to stdout, the way the teacher repo's sqltest.DumpRows prints
// query results via a tabwriter and github.com/alecthomas/repr.
package matchdump

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/alecthomas/repr"

	"github.com/dannyvk/shorthand"
)

// DumpTemplate prints each token of tmpl, with "[" and "]" markers split off
// into their own rows (see Template.Describe), next to its parsed kind.
func DumpTemplate(tmpl *shorthand.Template) {
	var out bytes.Buffer
	writer := tabwriter.NewWriter(&out, 0, 0, 4, ' ', 0)

	fmt.Fprintln(writer, "raw\tkind\t")
	for _, d := range tmpl.Describe() {
		fmt.Fprintln(writer, fmt.Sprintf("%s\t%s\t", repr.String(d.Raw), d.Kind))
	}
	writer.Flush()
	fmt.Println(out.String())
}

// DumpResult prints a Result's top-level keys and values, sub-mappings
// rendered recursively with indentation.
func DumpResult(res *shorthand.Result) {
	var out bytes.Buffer
	writer := tabwriter.NewWriter(&out, 0, 0, 4, ' ', 0)
	dumpMap(writer, res.ToMap(), 0)
	writer.Flush()
	fmt.Println(out.String())
}

func dumpMap(writer *tabwriter.Writer, m map[string]interface{}, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]interface{}:
			fmt.Fprintln(writer, fmt.Sprintf("%s%s\t{\t", indent, k))
			dumpMap(writer, v, depth+1)
			fmt.Fprintln(writer, fmt.Sprintf("%s}\t\t", indent))
		case string:
			fmt.Fprintln(writer, fmt.Sprintf("%s%s\t%s\t", indent, k, repr.String(v)))
		default:
			fmt.Fprintln(writer, fmt.Sprintf("%s%s\t%v\t", indent, k, v))
		}
	}
}
