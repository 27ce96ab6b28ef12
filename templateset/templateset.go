// Package templateset loads a directory of *.shorthand template files into
// named Processors, the way the teacher repo's sqlparser.ParseFilesystems
// walks a set of filesystems and builds a Document out of every *.sql file
// it finds.
package templateset

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dannyvk/shorthand"
)

const templateExtension = ".shorthand"

// TemplateSet is a named collection of Processors, all sharing the same
// Options, loaded from one filesystem.
type TemplateSet struct {
	processors map[string]*shorthand.Processor
	filenames  []string
}

// Get looks up a template by name (its file's base name, without extension).
func (ts TemplateSet) Get(name string) (*shorthand.Processor, bool) {
	p, ok := ts.processors[name]
	return p, ok
}

// Names returns the loaded template names, in the order their files were
// first encountered during the walk (fs.WalkDir visits in lexical order).
func (ts TemplateSet) Names() []string {
	out := make([]string, 0, len(ts.filenames))
	for _, f := range ts.filenames {
		out = append(out, strings.TrimSuffix(filepath.Base(f), templateExtension))
	}
	return out
}

// LoadTemplateSet walks fsys for *.shorthand files and compiles each into a
// Processor. Hidden directories (and anything under one, e.g. ".git") are
// skipped. Files whose contents are byte-identical to an already-loaded file
// are skipped with a Warn log, the same protection ParseFilesystems applies
// against the same file being reachable twice.
func LoadTemplateSet(fsys fs.FS, opts shorthand.Options, logger logrus.FieldLogger) (TemplateSet, error) {
	ts := TemplateSet{processors: map[string]*shorthand.Processor{}}
	hashes := make(map[[32]byte]string)

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(path, ".") || strings.Contains(path, "/.") {
			return nil
		}
		if filepath.Ext(path) != templateExtension {
			return nil
		}

		buf, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		hash := sha256.Sum256(buf)
		if existing, ok := hashes[hash]; ok {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"path":     path,
					"existing": existing,
				}).Warn("skipping shorthand template with duplicate contents")
			}
			return nil
		}
		hashes[hash] = path

		name := strings.TrimSuffix(filepath.Base(path), templateExtension)
		if _, exists := ts.processors[name]; exists {
			return fmt.Errorf("duplicate shorthand template name %q (from %s)", name, path)
		}

		proc, perr := shorthand.New(string(buf), opts, logger)
		if perr != nil {
			return fmt.Errorf("loading shorthand template %s: %w", path, perr)
		}

		ts.processors[name] = proc
		ts.filenames = append(ts.filenames, path)
		return nil
	})
	if err != nil {
		return TemplateSet{}, err
	}

	return ts, nil
}
