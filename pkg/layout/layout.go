// Package layout computes display coordinates for the nodes of a red-black tree.
//
// Node k of the in-order walk goes to column k and every node sits one row
// below its parent, so a left-to-right reading of the drawing is the sorted
// order of the values.
package layout

import (
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

// Grid spacing in pixels.
const (
	XOffset = 100
	YOffset = 50

	// NodeRadius is the radius of a drawn node.
	NodeRadius = 30
)

// Point is a pixel position.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Placement is one laid out node.
type Placement[T any] struct {
	ID       uint32       `json:"id"               yaml:"id"`
	Value    T            `json:"value"            yaml:"value"`
	Color    rbtree.Color `json:"color"            yaml:"color"`
	Column   int          `json:"column"           yaml:"column"`
	Row      int          `json:"row"              yaml:"row"`
	Position Point        `json:"position"         yaml:"position"`
	Parent   uint32       `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Edge joins a node to its parent.
type Edge struct {
	Child  uint32 `json:"child"  yaml:"child"`
	Parent uint32 `json:"parent" yaml:"parent"`
	From   Point  `json:"from"   yaml:"from"`
	To     Point  `json:"to"     yaml:"to"`
}

// Layout is the full drawing of a tree.
type Layout[T any] struct {
	Nodes  []Placement[T] `json:"nodes"  yaml:"nodes"`
	Edges  []Edge         `json:"edges"  yaml:"edges"`
	Height int            `json:"height" yaml:"height"`
	Width  int            `json:"width"  yaml:"width"`
	Depth  int            `json:"depth"  yaml:"depth"`
}

// Position returns the pixel position of a grid cell. Rows start at 1 for the root.
func Position(column, row int) Point {
	return Point{X: XOffset + column*XOffset, Y: YOffset + row*YOffset}
}

// Compute lays out tree. Nodes are listed in order; edges follow the same order.
// An empty tree gives an empty layout.
func Compute[T any](tree *rbtree.Tree[T]) Layout[T] {
	result := Layout[T]{
		Nodes: make([]Placement[T], 0, tree.Len()),
		Edges: make([]Edge, 0, max(tree.Len()-1, 0)),
	}

	if tree.IsEmpty() {
		return result
	}

	// Pre-order visits every parent before its children.
	rows := make(map[uint32]int, tree.Len())

	for nd := range tree.PreOrder() {
		rows[nd.ID()] = rows[nd.Parent().ID()] + 1
	}

	index := make(map[uint32]int, tree.Len())
	column := 0

	for nd := range tree.InOrder() {
		row := rows[nd.ID()]
		index[nd.ID()] = len(result.Nodes)
		result.Nodes = append(result.Nodes, Placement[T]{
			ID:       nd.ID(),
			Value:    nd.Value(),
			Color:    nd.Color(),
			Column:   column,
			Row:      row,
			Position: Position(column, row),
			Parent:   nd.Parent().ID(),
		})
		result.Depth = max(result.Depth, row)
		column++
	}

	for _, placement := range result.Nodes {
		if placement.Parent == 0 {
			continue
		}

		result.Edges = append(result.Edges, Edge{
			Child:  placement.ID,
			Parent: placement.Parent,
			From:   placement.Position,
			To:     result.Nodes[index[placement.Parent]].Position,
		})
	}

	last := Position(column-1, result.Depth)
	result.Width = last.X + XOffset
	result.Height = last.Y + YOffset

	return result
}
