// Package report renders an rpcdiff.Summary as JSON, YAML or indented text.
//
// Renderers are pure functions of the Summary; none of them re-derives diff
// information.
package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/openbindings/rpcdiff"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported Format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat maps a case-insensitive name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
}

// Renderer writes a Summary to w.
type Renderer interface {
	Render(w io.Writer, s *rpcdiff.Summary) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, s *rpcdiff.Summary) error

func (f RendererFunc) Render(w io.Writer, s *rpcdiff.Summary) error { return f(w, s) }

// New returns the renderer for f.
func New(f Format) (Renderer, error) {
	switch f {
	case FormatText:
		return RendererFunc(Text), nil
	case FormatJSON:
		return RendererFunc(JSON), nil
	case FormatYAML:
		return RendererFunc(YAML), nil
	}
	return nil, fmt.Errorf("unknown report format %q", f)
}

// JSON writes s as indented JSON. Empty sections are omitted.
func JSON(w io.Writer, s *rpcdiff.Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// YAML writes s as block-style YAML with the same shape as JSON.
func YAML(w io.Writer, s *rpcdiff.Summary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles JSON input decodes with.
// Strings that would read back as another type stay quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Text writes the human-readable report: each different method followed by
// its indented parameter and result changes, then the methods present on
// one side only.
func Text(w io.Writer, s *rpcdiff.Summary) error {
	var b bytes.Buffer
	if s.Compatible() {
		fmt.Fprintf(&b, "no differences (%d equivalent methods)\n", len(s.Equivalent))
	}

	names := make([]string, 0, len(s.Different))
	for name := range s.Different {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mc := s.Different[name]
		b.WriteString(name)
		b.WriteByte('\n')
		positions := make([]int, 0, len(mc.Params))
		for p := range mc.Params {
			positions = append(positions, p)
		}
		sort.Ints(positions)
		for _, p := range positions {
			writeDescriptorDiff(&b, fmt.Sprintf("param %d", p), mc.Params[p])
		}
		if mc.Result != nil {
			writeDescriptorDiff(&b, "result", *mc.Result)
		}
	}

	writeExclusive(&b, "left", s.Left)
	writeExclusive(&b, "right", s.Right)

	_, err := w.Write(b.Bytes())
	return err
}

func writeDescriptorDiff(b *bytes.Buffer, label string, d rpcdiff.DescriptorDiff) {
	fmt.Fprintf(b, "  %s\n", label)
	for _, c := range d.Changes {
		b.WriteString("    ")
		b.WriteString(changeLine(c))
		b.WriteByte('\n')
	}
	if d.Required != "" {
		fmt.Fprintf(b, "    requiredness %s\n", d.Required)
	}
}

func changeLine(c rpcdiff.Change) string {
	line := string(c.Kind)
	if subject := c.Subject(); subject != "" {
		line += " " + subject
	}
	if c.Path != "" {
		line = c.Path + ": " + line
	}
	return line
}

func writeExclusive(b *bytes.Buffer, side string, names []string) {
	if len(names) == 0 {
		return
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "the following methods are only present on the %s:\n", side)
	for _, name := range names {
		fmt.Fprintf(b, "  %s\n", name)
	}
}
