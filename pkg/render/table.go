package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

// WriteTable lists every node with its color, depth and relatives in options.Order.
func WriteTable[T any](w io.Writer, tree *rbtree.Tree[T], options Options) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	if options.Title != "" {
		tbl.SetTitle(options.Title)
	}

	tbl.AppendHeader(table.Row{"#", "Value", "Color", "Depth", "Parent", "Left", "Right"})

	idx := 0

	for nd := range tree.Traverse(options.Order) {
		idx++
		tbl.AppendRow(table.Row{
			idx,
			nd.Value(),
			nd.Color(),
			nd.Depth(),
			relative(nd.Parent()),
			relative(nd.Left()),
			relative(nd.Right()),
		})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d nodes", tree.Len()), "",
		fmt.Sprintf("Height: %d", tree.Height()), "", "", ""})

	tbl.Render()

	return nil
}

func relative[T any](nd rbtree.Node[T]) string {
	if !nd.Valid() {
		return "-"
	}

	return fmt.Sprint(nd.Value())
}
