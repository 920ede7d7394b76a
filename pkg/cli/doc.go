// Package cli implements the pgcascade command tree: summary mode for
// whole-schema first-level counts and cascade mode for the transitive
// dependency trace with optional graph output.
package cli
