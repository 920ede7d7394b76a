// Package report renders resolver output as aligned text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/platinummonkey/pgcascade/pkg/resolver"
)

var titleColor = color.New(color.Bold)

// WriteSummary renders the first-level counts as a flat table with one
// row per object in the schema.
func WriteSummary(w io.Writer, schema string, summaries []resolver.Summary) error {
	titleColor.Fprintf(w, "First-level dependencies in schema %s\n\n", schema)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Schema\tType\tName\tDependents\tForeign keys")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			s.Object.Schema,
			s.Object.Kind,
			s.Object.Name,
			s.Dependents,
			s.ForeignKeys,
		)
	}
	return tw.Flush()
}

// WriteCascade renders a cascade as a leveled table. The level and parent
// columns are printed once per group; rows repeating the same parent at
// the same level leave them blank.
func WriteCascade(w io.Writer, c *resolver.Cascade) error {
	titleColor.Fprintf(w, "Cascading dependencies of %s (%d objects, %d edges)\n\n",
		c.Root.QualifiedName(), len(c.Objects()), c.TotalEdges())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Level\tObject\tDep./For. Type\tDep./For. object\tForeign key")
	for _, level := range c.Levels {
		levelCell := strconv.Itoa(level.Depth)
		lastParent := ""
		for _, edge := range level.Edges {
			parentCell := edge.To.QualifiedName()
			if parentCell == lastParent {
				parentCell = ""
			} else {
				lastParent = parentCell
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				levelCell,
				parentCell,
				edge.From.Kind,
				edge.From.QualifiedName(),
				edge.Label,
			)
			levelCell = ""
		}
	}
	return tw.Flush()
}
