package svgdoc

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/kando-menu/design/pkg/errors"
)

// Canvas is the logical edge length every source document is drawn on.
const Canvas = 256.0

var utf8BOM = []byte("\xef\xbb\xbf")

// Document is an SVG document with its root element located.
//
// A Document is immutable: the edit functions in this package return new
// documents and never modify their inputs.
type Document struct {
	data []byte
	root string

	// data[openStart:openEnd] is the root open tag,
	// data[closeStart:closeEnd] the root close tag.
	openStart, openEnd   int
	closeStart, closeEnd int
}

// Parse locates the root element of an SVG document.
//
// Leading XML declarations, comments, processing instructions and a DOCTYPE
// are skipped. A self-closing root (<svg/>) is expanded into an open/close
// pair so every Document has the same shape. Parse returns an
// INVALID_DOCUMENT error if either root tag cannot be found.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	start, err := skipMisc(data, 0)
	if err != nil {
		return nil, err
	}
	if start >= len(data) || data[start] != '<' {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "no root element found")
	}

	name := tagName(data, start+1)
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "root element has no name")
	}

	end, err := tagEnd(data, start)
	if err != nil {
		return nil, err
	}

	if data[end-2] == '/' {
		expanded := make([]byte, 0, len(data)+len(name)+3)
		expanded = append(expanded, data[:end-2]...)
		expanded = append(expanded, '>')
		expanded = append(expanded, "</"+name+">"...)
		expanded = append(expanded, data[end:]...)
		return Parse(expanded)
	}

	closeStart := bytes.LastIndex(data, []byte("</"+name))
	if closeStart < end {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "root element <%s> is never closed", name)
	}
	closeEnd := closeStart + 2 + len(name)
	for closeEnd < len(data) && isSpace(data[closeEnd]) {
		closeEnd++
	}
	if closeEnd >= len(data) || data[closeEnd] != '>' {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "malformed closing tag for <%s>", name)
	}
	closeEnd++

	trailer, err := skipMisc(data, closeEnd)
	if err != nil {
		return nil, err
	}
	if trailer != len(data) {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "content after closing </%s>", name)
	}

	return &Document{
		data:       data,
		root:       name,
		openStart:  start,
		openEnd:    end,
		closeStart: closeStart,
		closeEnd:   closeEnd,
	}, nil
}

// ReadFile reads and parses the SVG document at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "parse %s", filepath.Base(path))
	}
	return doc, nil
}

// WriteFile writes the document to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, d.data, 0644)
}

// Bytes returns the document markup. The returned slice must not be modified.
func (d *Document) Bytes() []byte { return d.data }

// String returns the document markup.
func (d *Document) String() string { return string(d.data) }

// Root returns the qualified name of the root element, e.g. "svg".
func (d *Document) Root() string { return d.root }

// OpenTag returns the root open tag including its attributes.
func (d *Document) OpenTag() []byte { return d.data[d.openStart:d.openEnd] }

// Content returns everything between the root open and close tags.
func (d *Document) Content() []byte { return d.data[d.openEnd:d.closeStart] }

// splice builds a new document around a replacement body. prefix ends with
// the root open tag and suffix starts with the root close tag.
func splice(root string, openStart int, prefix, body, suffix []byte, closeLen int) *Document {
	data := make([]byte, 0, len(prefix)+len(body)+len(suffix))
	data = append(data, prefix...)
	data = append(data, body...)
	closeStart := len(data)
	data = append(data, suffix...)
	return &Document{
		data:       data,
		root:       root,
		openStart:  openStart,
		openEnd:    len(prefix),
		closeStart: closeStart,
		closeEnd:   closeStart + closeLen,
	}
}

// skipMisc skips whitespace, comments, processing instructions and
// DOCTYPE declarations starting at i.
func skipMisc(data []byte, i int) (int, error) {
	for {
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		rest := data[i:]
		switch {
		case bytes.HasPrefix(rest, []byte("<?")):
			n := bytes.Index(rest, []byte("?>"))
			if n < 0 {
				return 0, errors.New(errors.ErrCodeInvalidDocument, "unterminated processing instruction")
			}
			i += n + 2
		case bytes.HasPrefix(rest, []byte("<!--")):
			n := bytes.Index(rest[4:], []byte("-->"))
			if n < 0 {
				return 0, errors.New(errors.ErrCodeInvalidDocument, "unterminated comment")
			}
			i += 4 + n + 3
		case bytes.HasPrefix(rest, []byte("<!DOCTYPE")):
			n, err := doctypeEnd(rest)
			if err != nil {
				return 0, err
			}
			i += n
		default:
			return i, nil
		}
	}
}

// doctypeEnd returns the length of the DOCTYPE declaration at the start of
// data, including an internal subset in brackets.
func doctypeEnd(data []byte) (int, error) {
	depth := 0
	var quote byte
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth == 0:
			return i + 1, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidDocument, "unterminated DOCTYPE")
}

// tagEnd returns the offset just past the '>' closing the tag at start.
// Quoted attribute values may contain '>'.
func tagEnd(data []byte, start int) (int, error) {
	var quote byte
	for i := start + 1; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + 1, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidDocument, "unterminated root tag")
}

func tagName(data []byte, i int) string {
	j := i
	for j < len(data) && !isSpace(data[j]) && data[j] != '>' && data[j] != '/' {
		j++
	}
	return string(data[i:j])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
