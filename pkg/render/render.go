// Package render writes a red-black tree in one of several human or machine
// readable formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/redblack/pkg/layout"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatTree  Format = "tree"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatHTML  Format = "html"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTree, FormatTable, FormatYAML, FormatJSON, FormatHTML}
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Formats(), format) {
		return "", fmt.Errorf("%w: %q (supported: tree, table, yaml, json, html)", ErrUnknownFormat, name)
	}

	return format, nil
}

// Options tune the output.
type Options struct {
	// Color enables ANSI colors in the tree format.
	Color bool
	// Order is the row order of the table format.
	Order rbtree.Order
	// Title is used by the table and html formats.
	Title string
}

// Write renders tree to w.
func Write[T any](w io.Writer, tree *rbtree.Tree[T], format Format, options Options) error {
	var err error

	switch format {
	case FormatTree:
		err = WriteTree(w, tree, options)
	case FormatTable:
		err = WriteTable(w, tree, options)
	case FormatYAML:
		err = WriteYAML(w, tree)
	case FormatJSON:
		err = WriteJSON(w, tree)
	case FormatHTML:
		err = WriteHTML(w, tree, options)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	return nil
}

// WriteYAML writes the node layout as YAML.
func WriteYAML[T any](w io.Writer, tree *rbtree.Tree[T]) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(layout.Compute(tree))
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

// WriteJSON writes the node layout as indented JSON.
func WriteJSON[T any](w io.Writer, tree *rbtree.Tree[T]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(layout.Compute(tree))
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}
