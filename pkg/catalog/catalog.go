package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrCatalogUnavailable indicates the metadata store could not be reached
// or a catalog query could not be executed. Fatal for the current
// invocation; callers must not produce partial results on top of it.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ErrObjectNotFound indicates a requested root object does not exist in
// the schema. Reported before any traversal begins.
var ErrObjectNotFound = errors.New("object not found")

// Catalog answers the two primitive dependency questions plus schema-wide
// enumeration against a relational catalog. Results are one level deep;
// transitive expansion belongs to the resolver. Implementations must be
// deterministic for a fixed catalog state.
type Catalog interface {
	// DirectDependents returns every view or function whose definition
	// references schema.name, one level deep.
	DirectDependents(ctx context.Context, schema, name string) ([]SchemaObject, error)

	// ForeignKeyReferences returns every table declaring a foreign key
	// whose target is schema.name, with the referencing column names.
	ForeignKeyReferences(ctx context.Context, schema, name string) ([]Reference, error)

	// ListSchemaObjects enumerates the tables and views of a schema in
	// catalog listing order.
	ListSchemaObjects(ctx context.Context, schema string) ([]SchemaObject, error)

	// LookupObject resolves a single table, view or function by name,
	// returning ErrObjectNotFound when the schema has no such object.
	LookupObject(ctx context.Context, schema, name string) (SchemaObject, error)
}

// unavailable wraps a driver error so callers can errors.Is it against
// ErrCatalogUnavailable while keeping the underlying detail in the message.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrCatalogUnavailable, err)
}
