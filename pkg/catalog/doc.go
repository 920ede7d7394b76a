// Package catalog models PostgreSQL schema objects and answers the two
// primitive dependency questions the resolver is built on.
//
// # Overview
//
// The Catalog interface exposes one-level-deep lookups: the views and
// functions whose definition references an object, the tables with a
// foreign key pointing at an object, the listing of tables and views in a
// schema, and single-object resolution by name. PostgresCatalog
// implements them against pg_catalog and information_schema;
// CachingCatalog memoizes lookups for the duration of one invocation.
//
// # Usage Example
//
// Open a catalog and inspect an object:
//
//	cat, err := catalog.Open(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer cat.Close()
//
//	deps, err := cat.DirectDependents(ctx, "public", "users")
//	refs, err := cat.ForeignKeyReferences(ctx, "public", "users")
//
// # Related Packages
//
//   - pkg/resolver: Cascading traversal over Catalog lookups
//   - pkg/graphviz: DOT export of traversal results
package catalog
