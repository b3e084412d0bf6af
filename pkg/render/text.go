package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
	absentLeaf = "·"
	emptyTree  = "(empty)"
)

// palette colors node labels. Each color is toggled explicitly so that the
// output does not depend on whether stdout is a terminal.
type palette struct {
	red, black, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		red:   color.New(color.FgRed, color.Bold),
		black: color.New(color.FgHiWhite, color.BgBlack),
		dim:   color.New(color.Faint),
	}

	for _, c := range []*color.Color{p.red, p.black, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p palette) label(value any, c rbtree.Color) string {
	text := fmt.Sprintf("%v (%s)", value, c.String()[:1])
	if c == rbtree.Red {
		return p.red.Sprint(text)
	}

	return p.black.Sprint(text)
}

// WriteTree draws the tree sideways, root first, left child above right child.
// A missing child is drawn as a dot when its sibling exists.
func WriteTree[T any](w io.Writer, tree *rbtree.Tree[T], options Options) error {
	var sb strings.Builder

	p := newPalette(options.Color)

	if tree.IsEmpty() {
		sb.WriteString(p.dim.Sprint(emptyTree))
		sb.WriteByte('\n')
	} else {
		root := tree.Root()
		sb.WriteString(p.label(root.Value(), root.Color()))
		sb.WriteByte('\n')
		writeChildren(&sb, root, "", p)
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}

// The recursion depth is bounded by the tree height.
func writeChildren[T any](sb *strings.Builder, nd rbtree.Node[T], prefix string, p palette) {
	left, right := nd.Left(), nd.Right()
	if !left.Valid() && !right.Valid() {
		return
	}

	for idx, child := range []rbtree.Node[T]{left, right} {
		branch, indent := branchMid, indentMid
		if idx == 1 {
			branch, indent = branchLast, indentLast
		}

		sb.WriteString(prefix)
		sb.WriteString(branch)

		if !child.Valid() {
			sb.WriteString(p.dim.Sprint(absentLeaf))
			sb.WriteByte('\n')

			continue
		}

		sb.WriteString(p.label(child.Value(), child.Color()))
		sb.WriteByte('\n')
		writeChildren(sb, child, prefix+indent, p)
	}
}
