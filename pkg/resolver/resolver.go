package resolver

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pgcascade/pkg/catalog"
)

// Summary holds the first-level counts for one schema object.
type Summary struct {
	Object      catalog.SchemaObject
	Dependents  int
	ForeignKeys int
}

// Level is one step of breadth-first expansion. Edges are every edge
// discovered while expanding the frontier of this depth; Discovered lists
// the objects first reached here, which form the next frontier.
type Level struct {
	Depth      int
	Edges      []catalog.Edge
	Discovered []catalog.SchemaObject
}

// Cascade is the full traversal result for one root object. Each object
// appears in exactly one level's Discovered set (first discovery wins),
// while edges into already-visited objects are still recorded so fan-in
// stays visible.
type Cascade struct {
	Root   catalog.SchemaObject
	Levels []Level

	visited map[catalog.ObjectRef]bool
	order   []catalog.SchemaObject
}

// Objects returns every visited object in discovery order, root first.
func (c *Cascade) Objects() []catalog.SchemaObject {
	return c.order
}

// Visited reports whether the object was reached by the traversal.
func (c *Cascade) Visited(ref catalog.ObjectRef) bool {
	return c.visited[ref]
}

// TotalEdges counts the recorded edges across all levels.
func (c *Cascade) TotalEdges() int {
	n := 0
	for _, level := range c.Levels {
		n += len(level.Edges)
	}
	return n
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth bounds the number of expansion levels. Zero or negative
// means unbounded; the monotone visited set already guarantees
// termination on a finite schema.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// WithLogger sets the logger used for traversal tracing.
func WithLogger(log *logrus.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// Resolver computes first-level dependency counts and cascading
// traversals on top of a Catalog. Each call owns its own visited set and
// frontier; no state is shared between resolutions.
type Resolver struct {
	cat      catalog.Catalog
	log      *logrus.Logger
	maxDepth int
}

// New creates a Resolver over the given catalog.
func New(cat catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		cat: cat,
		log: logrus.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summarize reports, for every table and view in the schema, the size of
// its first-level dependent set and foreign-key referencer set. No
// cascading: one DirectDependents and one ForeignKeyReferences call per
// object, output in catalog listing order.
func (r *Resolver) Summarize(ctx context.Context, schema string) ([]Summary, error) {
	objects, err := r.cat.ListSchemaObjects(ctx, schema)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(objects))
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dependents, err := r.cat.DirectDependents(ctx, obj.Schema, obj.Name)
		if err != nil {
			return nil, err
		}
		refs, err := r.cat.ForeignKeyReferences(ctx, obj.Schema, obj.Name)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, Summary{
			Object:      obj,
			Dependents:  len(dependents),
			ForeignKeys: len(refs),
		})
	}

	return summaries, nil
}

// Cascade expands the full transitive dependency graph from the root
// object, breadth-first. Any catalog failure aborts the traversal with no
// partial result: a half-built cascade would misstate dependency impact.
func (r *Resolver) Cascade(ctx context.Context, schema, name string) (*Cascade, error) {
	// Resolve the root's kind before any traversal begins; an unknown
	// root surfaces ErrObjectNotFound from the catalog.
	root, err := r.cat.LookupObject(ctx, schema, name)
	if err != nil {
		return nil, err
	}

	c := &Cascade{
		Root:    root,
		visited: map[catalog.ObjectRef]bool{root.Ref(): true},
		order:   []catalog.SchemaObject{root},
	}

	frontier := []catalog.SchemaObject{root}
	for depth := 0; len(frontier) > 0; depth++ {
		if r.maxDepth > 0 && depth >= r.maxDepth {
			r.log.WithField("depth", depth).Debug("max depth reached, stopping expansion")
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		level := Level{Depth: depth}
		var next []catalog.SchemaObject

		for _, obj := range frontier {
			edges, err := r.expand(ctx, obj)
			if err != nil {
				return nil, err
			}
			for _, edge := range edges {
				level.Edges = append(level.Edges, edge)
				ref := edge.From.Ref()
				if c.visited[ref] {
					// Fan-in or self-loop: the edge is recorded but the
					// endpoint is not expanded again.
					continue
				}
				c.visited[ref] = true
				c.order = append(c.order, edge.From)
				level.Discovered = append(level.Discovered, edge.From)
				next = append(next, edge.From)
			}
		}

		if len(level.Edges) > 0 {
			c.Levels = append(c.Levels, level)
		}
		frontier = next
	}

	r.log.WithFields(logrus.Fields{
		"root":    root.QualifiedName(),
		"objects": len(c.order),
		"edges":   c.TotalEdges(),
		"levels":  len(c.Levels),
	}).Debug("cascade complete")

	return c, nil
}

// expand fetches both primitive relations for one object and merges them
// into a single edge list for the current level.
func (r *Resolver) expand(ctx context.Context, obj catalog.SchemaObject) ([]catalog.Edge, error) {
	dependents, err := r.cat.DirectDependents(ctx, obj.Schema, obj.Name)
	if err != nil {
		return nil, err
	}
	refs, err := r.cat.ForeignKeyReferences(ctx, obj.Schema, obj.Name)
	if err != nil {
		return nil, err
	}

	edges := make([]catalog.Edge, 0, len(dependents)+len(refs))
	for _, dep := range dependents {
		edges = append(edges, catalog.Edge{
			From: dep,
			To:   obj,
			Kind: catalog.EdgeUses,
		})
	}
	for _, ref := range refs {
		edges = append(edges, catalog.Edge{
			From:  ref.Referencer,
			To:    obj,
			Kind:  catalog.EdgeForeignKey,
			Label: strings.Join(ref.Columns, ", "),
		})
	}
	return edges, nil
}

