// Package output renders results as text, JSON, Markdown or TOON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

var formatNames = map[string]Format{
	"text":     FormatText,
	"json":     FormatJSON,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"toon":     FormatTOON,
}

// ParseFormat converts a string to Format. Unknown names mean text.
func ParseFormat(s string) Format {
	if f, ok := formatNames[strings.ToLower(s)]; ok {
		return f
	}
	return FormatText
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the value serialized for JSON and TOON.
	RenderData() any
}

// Formatter writes one result in the configured format.
type Formatter struct {
	format  Format
	w       io.Writer
	closer  io.Closer
	colored bool
}

// NewFormatter writes to the file at path, or to stdout when path is empty.
// File output is never colored.
func NewFormatter(format Format, path string, colored bool) (*Formatter, error) {
	if path == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, w: f, closer: f}, nil
}

// NewWriterFormatter creates a formatter that writes to w.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, w: w, colored: colored}
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// Output writes data. Values that are not Renderable are written as JSON
// in text mode and as a fenced JSON block in markdown.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	if !ok {
		r = rawValue{data}
	}

	switch f.format {
	case FormatJSON:
		return writeJSON(f.w, r.RenderData())
	case FormatTOON:
		out, err := toon.Marshal(r.RenderData(), toon.WithIndent(2))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.w, string(out))
		return err
	case FormatMarkdown:
		return r.RenderMarkdown(f.w)
	default:
		return r.RenderText(f.w, f.colored)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rawValue adapts plain data to Renderable.
type rawValue struct {
	v any
}

func (r rawValue) RenderData() any { return r.v }

func (r rawValue) RenderText(w io.Writer, _ bool) error {
	return writeJSON(w, r.v)
}

func (r rawValue) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "```json")
	if err := writeJSON(w, r.v); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "```")
	return err
}

// heading writes title underlined with rule, bold when colored.
func heading(w io.Writer, title string, rule string, colored bool, attrs ...color.Attribute) {
	if colored {
		color.New(append([]color.Attribute{color.Bold}, attrs...)...).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat(rule, len(title)))
}
