package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/redblack/pkg/layout"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

const (
	defaultTitle  = "Red-Black Tree"
	nodeColorRed  = "#d62728"
	nodeColorDark = "#222222"
	minChartWidth = 640
	minChartHigh  = 480
)

// WriteHTML writes a self-contained page with an interactive tree chart.
func WriteHTML[T any](w io.Writer, tree *rbtree.Tree[T], options Options) error {
	chart := buildTreeChart(tree, options.Title)

	err := chart.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func buildTreeChart[T any](tree *rbtree.Tree[T], title string) *charts.Tree {
	if title == "" {
		title = defaultTitle
	}

	drawing := layout.Compute(tree)

	chart := charts.NewTree()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     strconv.Itoa(max(drawing.Width, minChartWidth)) + "px",
			Height:    strconv.Itoa(max(drawing.Height, minChartHigh)) + "px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	var data []opts.TreeData
	if !tree.IsEmpty() {
		data = []opts.TreeData{*treeData(tree.Root())}
	}

	chart.AddSeries(title, data,
		charts.WithTreeOpts(opts.TreeChart{
			Layout:           "orthogonal",
			Orient:           "TB",
			Roam:             opts.Bool(true),
			InitialTreeDepth: -1,
			Top:              "10%",
			Bottom:           "10%",
		}),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "inside",
			Color:    "#ffffff",
		}),
	)

	return chart
}

// The recursion depth is bounded by the tree height.
func treeData[T any](nd rbtree.Node[T]) *opts.TreeData {
	fill := nodeColorDark
	if nd.Color() == rbtree.Red {
		fill = nodeColorRed
	}

	item := &opts.TreeData{
		Name:       fmt.Sprint(nd.Value()),
		Value:      nd.Color().String(),
		Symbol:     "circle",
		SymbolSize: 2 * layout.NodeRadius,
		ItemStyle:  &opts.ItemStyle{Color: fill},
	}

	for _, child := range []rbtree.Node[T]{nd.Left(), nd.Right()} {
		if child.Valid() {
			item.Children = append(item.Children, treeData(child))
		}
	}

	return item
}
