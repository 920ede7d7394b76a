package catalog

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 512

// CachingCatalog memoizes per-object lookups in front of another Catalog.
// A summary followed by a cascade in the same invocation hits the same
// objects twice; the catalog state is assumed stable for the lifetime of
// one invocation. Errors are never cached.
type CachingCatalog struct {
	inner      Catalog
	dependents *lru.Cache[ObjectRef, []SchemaObject]
	references *lru.Cache[ObjectRef, []Reference]
	listings   *lru.Cache[string, []SchemaObject]
	lookups    *lru.Cache[ObjectRef, SchemaObject]
}

// NewCachingCatalog wraps inner with LRU memoization. size <= 0 selects
// the default capacity.
func NewCachingCatalog(inner Catalog, size int) (*CachingCatalog, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	dependents, err := lru.New[ObjectRef, []SchemaObject](size)
	if err != nil {
		return nil, err
	}
	references, err := lru.New[ObjectRef, []Reference](size)
	if err != nil {
		return nil, err
	}
	listings, err := lru.New[string, []SchemaObject](size)
	if err != nil {
		return nil, err
	}
	lookups, err := lru.New[ObjectRef, SchemaObject](size)
	if err != nil {
		return nil, err
	}
	return &CachingCatalog{
		inner:      inner,
		dependents: dependents,
		references: references,
		listings:   listings,
		lookups:    lookups,
	}, nil
}

func (c *CachingCatalog) DirectDependents(ctx context.Context, schema, name string) ([]SchemaObject, error) {
	key := ObjectRef{Schema: schema, Name: name}
	if cached, ok := c.dependents.Get(key); ok {
		return cached, nil
	}
	result, err := c.inner.DirectDependents(ctx, schema, name)
	if err != nil {
		return nil, err
	}
	c.dependents.Add(key, result)
	return result, nil
}

func (c *CachingCatalog) ForeignKeyReferences(ctx context.Context, schema, name string) ([]Reference, error) {
	key := ObjectRef{Schema: schema, Name: name}
	if cached, ok := c.references.Get(key); ok {
		return cached, nil
	}
	result, err := c.inner.ForeignKeyReferences(ctx, schema, name)
	if err != nil {
		return nil, err
	}
	c.references.Add(key, result)
	return result, nil
}

func (c *CachingCatalog) ListSchemaObjects(ctx context.Context, schema string) ([]SchemaObject, error) {
	if cached, ok := c.listings.Get(schema); ok {
		return cached, nil
	}
	result, err := c.inner.ListSchemaObjects(ctx, schema)
	if err != nil {
		return nil, err
	}
	c.listings.Add(schema, result)
	return result, nil
}

func (c *CachingCatalog) LookupObject(ctx context.Context, schema, name string) (SchemaObject, error) {
	key := ObjectRef{Schema: schema, Name: name}
	if cached, ok := c.lookups.Get(key); ok {
		return cached, nil
	}
	result, err := c.inner.LookupObject(ctx, schema, name)
	if err != nil {
		return SchemaObject{}, err
	}
	c.lookups.Add(key, result)
	return result, nil
}
