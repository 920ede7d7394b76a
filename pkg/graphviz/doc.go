// Package graphviz turns cascades into Graphviz DOT descriptions and
// renders them to files via the external dot binary.
package graphviz
