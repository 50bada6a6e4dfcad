// Package docmerge populates {PLACEHOLDER} tokens in Word (.docx) templates from an
// extraction record.
package docmerge

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"regexp"

	"lexmerge/internal/domain"
)

const (
	mainPart = "word/document.xml"

	// DefaultOutputPrefix is prepended to the template name to name the output.
	DefaultOutputPrefix = "Populated_"
)

// templateParts matches the parts that may carry placeholder text.
var templateParts = regexp.MustCompile(`^word/(document|header\d*|footer\d*|footnotes|endnotes)\.xml$`)

// Options configures an Engine.
type Options struct {
	// Strict fails the merge when any token has no value. When false such tokens
	// are left in the output as literal text.
	Strict       bool
	OutputPrefix string
	// MaxPartBytes bounds the decompressed size of a single XML part. Zero means
	// no limit.
	MaxPartBytes int64
}

// Template is a Word document supplied for one merge.
type Template struct {
	Name string
	Data []byte
}

// Output is a populated document ready for download.
type Output struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Engine merges records into templates. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	if opts.OutputPrefix == "" {
		opts.OutputPrefix = DefaultOutputPrefix
	}
	return &Engine{opts: opts}
}

// Strict reports whether unresolved tokens fail a merge.
func (e *Engine) Strict() bool {
	return e.opts.Strict
}

// Merge substitutes every resolvable token of tpl with values from record and
// returns a new document. Neither input is modified. On error no output is
// returned.
func (e *Engine) Merge(tpl Template, record *domain.ExtractionRecord) (*Output, error) {
	pkg, err := e.open(tpl.Data)
	if err != nil {
		return nil, err
	}

	keys := BuildKeyMap(record)
	rendered := make(map[string]string)
	var unresolved, problems []string
	for _, p := range pkg.parts {
		res := renderPart(p.name, p.text, keys)
		problems = append(problems, res.problems...)
		unresolved = append(unresolved, res.unresolved...)
		if res.changed {
			rendered[p.name] = res.output
		}
	}

	if len(problems) > 0 {
		return nil, &RenderError{Problems: problems}
	}
	if len(unresolved) > 0 && e.opts.Strict {
		return nil, &UnresolvedPlaceholderError{Placeholders: dedupe(unresolved)}
	}
	if len(unresolved) > 0 {
		log.Printf("docmerge.Merge: %s: leaving %d unresolved placeholder(s) as text: %v",
			tpl.Name, len(unresolved), dedupe(unresolved))
	}

	data, err := pkg.write(rendered)
	if err != nil {
		return nil, &RenderError{Problems: []string{err.Error()}}
	}

	return &Output{
		FileName:    e.opts.OutputPrefix + tpl.Name,
		ContentType: domain.DocxContentType,
		Data:        data,
	}, nil
}

// Placeholders returns the distinct token names found in a template, in document
// order. It fails like Merge on invalid containers and malformed tags.
func (e *Engine) Placeholders(data []byte) ([]string, error) {
	pkg, err := e.open(data)
	if err != nil {
		return nil, err
	}
	var names, problems []string
	for _, p := range pkg.parts {
		res := renderPart(p.name, p.text, nil)
		names = append(names, res.tokens...)
		problems = append(problems, res.problems...)
	}
	if len(problems) > 0 {
		return nil, &RenderError{Problems: problems}
	}
	return dedupe(names), nil
}

type xmlPart struct {
	name string
	text string
}

type docxPackage struct {
	reader *zip.Reader
	parts  []xmlPart
}

func (e *Engine) open(data []byte) (*docxPackage, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, invalidTemplate("not a zip container: %v", err)
	}

	pkg := &docxPackage{reader: r}
	hasMain := false
	for _, f := range r.File {
		if !templateParts.MatchString(f.Name) {
			continue
		}
		if f.Name == mainPart {
			hasMain = true
		}
		raw, err := e.readPart(f)
		if err != nil {
			return nil, invalidTemplate("reading %s: %v", f.Name, err)
		}
		if err := checkWellFormed(raw); err != nil {
			return nil, invalidTemplate("%s is not well-formed XML: %v", f.Name, err)
		}
		pkg.parts = append(pkg.parts, xmlPart{name: f.Name, text: string(raw)})
	}
	if !hasMain {
		return nil, invalidTemplate("missing %s", mainPart)
	}
	return pkg, nil
}

func (e *Engine) readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var src io.Reader = rc
	if e.opts.MaxPartBytes > 0 {
		src = io.LimitReader(rc, e.opts.MaxPartBytes+1)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if e.opts.MaxPartBytes > 0 && int64(len(raw)) > e.opts.MaxPartBytes {
		return nil, fmt.Errorf("part exceeds %d bytes", e.opts.MaxPartBytes)
	}
	return raw, nil
}

func checkWellFormed(raw []byte) error {
	d := xml.NewDecoder(bytes.NewReader(raw))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// write re-encodes the container. Entries keep their order; untouched entries
// are copied without recompression so identical inputs give identical bytes.
func (p *docxPackage) write(rendered map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range p.reader.File {
		text, ok := rendered[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing container: %w", err)
	}
	return buf.Bytes(), nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
