package graphviz

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/pgcascade/pkg/catalog"
	"github.com/platinummonkey/pgcascade/pkg/resolver"
)

// nodeStyle returns the DOT attributes for one object kind. Tables are
// plain, views filled lightgrey, functions filled lightblue2.
func nodeStyle(kind catalog.ObjectKind) string {
	switch kind {
	case catalog.KindView:
		return `style=filled, color=lightgrey`
	case catalog.KindFunction:
		return `style=filled, color=lightblue2`
	default:
		return `style=solid, color=black`
	}
}

// Export renders a cascade as a Graphviz DOT digraph: one node per
// visited object styled by kind, one edge per recorded dependency edge.
// Edges point from the expanded object outward, so arrows follow the
// direction of impact. Foreign key edges carry the referencing column
// names as their label.
func Export(c *resolver.Cascade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %q {\n", c.Root.QualifiedName())
	b.WriteString("\trankdir=LR\n")
	b.WriteString("\tsize=\"8,5\"\n")

	for _, obj := range c.Objects() {
		fmt.Fprintf(&b, "\t%q [%s]\n", obj.QualifiedName(), nodeStyle(obj.Kind))
	}

	for _, level := range c.Levels {
		for _, edge := range level.Edges {
			if edge.Kind == catalog.EdgeForeignKey && edge.Label != "" {
				fmt.Fprintf(&b, "\t%q -> %q [label=%q]\n",
					edge.To.QualifiedName(),
					edge.From.QualifiedName(),
					edge.Label)
				continue
			}
			fmt.Fprintf(&b, "\t%q -> %q\n",
				edge.To.QualifiedName(),
				edge.From.QualifiedName())
		}
	}

	b.WriteString("}\n")
	return b.String()
}
