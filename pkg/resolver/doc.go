// Package resolver builds dependency cascades over catalog lookups.
//
// # Overview
//
// This package is the traversal core: given a root object it
// repeatedly asks the catalog "what directly depends on this object" and
// "what has a foreign key into this object", merges the answers into
// leveled edge lists, and walks the result breadth-first. A visited set
// guards against cycles and self-referencing foreign keys; objects are
// expanded once, at their first discovery level, while later edges into
// them are still recorded so fan-in stays visible.
//
// # Usage Example
//
// First-level counts for a whole schema:
//
//	res := resolver.New(cat)
//	summaries, err := res.Summarize(ctx, "public")
//
// Full cascade from one object:
//
//	cascade, err := res.Cascade(ctx, "public", "users")
//	for _, level := range cascade.Levels {
//		fmt.Printf("level %d: %d edges\n", level.Depth, len(level.Edges))
//	}
//
// # Related Packages
//
//   - pkg/catalog: The primitive lookups this package traverses
//   - pkg/report: Text rendering of summaries and cascades
//   - pkg/graphviz: DOT export of cascades
package resolver
