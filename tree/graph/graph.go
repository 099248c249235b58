/*
Package graph renders compressed trees as graphviz graphs.
*/
package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pbanos/sapling/tree"
)

var formats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// FormatNamed returns the graphviz format for a name: dot, png, svg or jpg.
func FormatNamed(name string) (graphviz.Format, error) {
	f, ok := formats[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown graph format %s", name)
	}
	return f, nil
}

/*
Draw takes a tree and returns a graphviz instance and a graph with one node
per record, decisions labelled with the feature they test and leaves drawn as
boxes with their class and counts. Edges are labelled with the condition
rows satisfy to follow them. Callers must close both when done.
*/
func Draw(t *tree.Tree) (*graphviz.Graphviz, *cgraph.Graph, error) {
	gv := graphviz.New()
	g, err := gv.Graph()
	if err != nil {
		gv.Close()
		return nil, nil, fmt.Errorf("creating graph: %v", err)
	}
	if err = draw(g, t, 0, nil, ""); err != nil {
		g.Close()
		gv.Close()
		return nil, nil, err
	}
	return gv, g, nil
}

func draw(g *cgraph.Graph, t *tree.Tree, i int, parent *cgraph.Node, condition string) error {
	r := &t.Records[i]
	n, err := g.CreateNode(fmt.Sprintf("n%d", i))
	if err != nil {
		return fmt.Errorf("creating node for record %d: %v", i, err)
	}
	if parent != nil {
		e, err := g.CreateEdge(fmt.Sprintf("e%d", i), parent, n)
		if err != nil {
			return fmt.Errorf("creating edge to record %d: %v", i, err)
		}
		e.SetLabel(condition)
	}
	if r.Leaf() {
		n.Set("label", fmt.Sprintf("%s\n%d | %d", t.ClassName(r.Class), r.Counts[0], r.Counts[1]))
		n.Set("shape", "box")
		return nil
	}
	left, right := t.BranchConditions(i)
	n.Set("label", fmt.Sprintf("%s\n%d | %d", left.Feature().Name(), r.Counts[0], r.Counts[1]))
	if err = draw(g, t, r.Left, n, left.String()); err != nil {
		return err
	}
	return draw(g, t, r.Right, n, right.String())
}

// Render draws the tree and renders it in the given format onto w.
func Render(t *tree.Tree, format graphviz.Format, w io.Writer) error {
	gv, g, err := Draw(t)
	if err != nil {
		return err
	}
	defer gv.Close()
	defer g.Close()
	if err = gv.Render(g, format, w); err != nil {
		return fmt.Errorf("rendering tree: %v", err)
	}
	return nil
}
