package resolver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pgcascade/pkg/catalog"
)

// fakeCatalog is a map-driven Catalog with per-object failure injection
// and expansion counting.
type fakeCatalog struct {
	listings   map[string][]catalog.SchemaObject
	objects    map[catalog.ObjectRef]catalog.SchemaObject
	dependents map[catalog.ObjectRef][]catalog.SchemaObject
	references map[catalog.ObjectRef][]catalog.Reference
	failOn     map[catalog.ObjectRef]error
	expansions map[catalog.ObjectRef]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		listings:   make(map[string][]catalog.SchemaObject),
		objects:    make(map[catalog.ObjectRef]catalog.SchemaObject),
		dependents: make(map[catalog.ObjectRef][]catalog.SchemaObject),
		references: make(map[catalog.ObjectRef][]catalog.Reference),
		failOn:     make(map[catalog.ObjectRef]error),
		expansions: make(map[catalog.ObjectRef]int),
	}
}

func (f *fakeCatalog) DirectDependents(ctx context.Context, schema, name string) ([]catalog.SchemaObject, error) {
	ref := catalog.ObjectRef{Schema: schema, Name: name}
	f.expansions[ref]++
	if err := f.failOn[ref]; err != nil {
		return nil, err
	}
	return f.dependents[ref], nil
}

func (f *fakeCatalog) ForeignKeyReferences(ctx context.Context, schema, name string) ([]catalog.Reference, error) {
	ref := catalog.ObjectRef{Schema: schema, Name: name}
	if err := f.failOn[ref]; err != nil {
		return nil, err
	}
	return f.references[ref], nil
}

func (f *fakeCatalog) ListSchemaObjects(ctx context.Context, schema string) ([]catalog.SchemaObject, error) {
	return f.listings[schema], nil
}

func (f *fakeCatalog) LookupObject(ctx context.Context, schema, name string) (catalog.SchemaObject, error) {
	if o, ok := f.objects[catalog.ObjectRef{Schema: schema, Name: name}]; ok {
		return o, nil
	}
	for _, o := range f.listings[schema] {
		if o.Name == name {
			return o, nil
		}
	}
	return catalog.SchemaObject{}, fmt.Errorf("%s.%s: %w", schema, name, catalog.ErrObjectNotFound)
}

func obj(name string, kind catalog.ObjectKind) catalog.SchemaObject {
	return catalog.SchemaObject{Schema: "app", Name: name, Kind: kind}
}

func ref(name string) catalog.ObjectRef {
	return catalog.ObjectRef{Schema: "app", Name: name}
}

// scenarioCatalog builds: T1 (table), V1 (view referencing T1), F1
// (function referencing V1), T2 (table with a foreign key into T1 on
// t1_id).
func scenarioCatalog() *fakeCatalog {
	f := newFakeCatalog()
	t1 := obj("t1", catalog.KindTable)
	v1 := obj("v1", catalog.KindView)
	t2 := obj("t2", catalog.KindTable)
	f1 := obj("f1", catalog.KindFunction)

	f.listings["app"] = []catalog.SchemaObject{t1, t2, v1}
	f.objects[f1.Ref()] = f1
	f.dependents[t1.Ref()] = []catalog.SchemaObject{v1}
	f.dependents[v1.Ref()] = []catalog.SchemaObject{f1}
	f.references[t1.Ref()] = []catalog.Reference{
		{Referencer: t2, Columns: []string{"t1_id"}},
	}
	return f
}

func TestCascadeScenario(t *testing.T) {
	res := New(scenarioCatalog())
	c, err := res.Cascade(context.Background(), "app", "t1")
	require.NoError(t, err)

	require.Len(t, c.Levels, 2)

	// Level 0: V1 uses T1, T2 has a foreign key into T1.
	level0 := c.Levels[0]
	require.Len(t, level0.Edges, 2)
	assert.Equal(t, catalog.EdgeUses, level0.Edges[0].Kind)
	assert.Equal(t, "v1", level0.Edges[0].From.Name)
	assert.Equal(t, "t1", level0.Edges[0].To.Name)
	assert.Equal(t, catalog.EdgeForeignKey, level0.Edges[1].Kind)
	assert.Equal(t, "t2", level0.Edges[1].From.Name)
	assert.Equal(t, "t1_id", level0.Edges[1].Label)

	// Level 1: F1 uses V1.
	level1 := c.Levels[1]
	require.Len(t, level1.Edges, 1)
	assert.Equal(t, catalog.EdgeUses, level1.Edges[0].Kind)
	assert.Equal(t, "f1", level1.Edges[0].From.Name)
	assert.Equal(t, "v1", level1.Edges[0].To.Name)

	// Visited set is exactly {t1, v1, t2, f1}.
	names := make([]string, 0, len(c.Objects()))
	for _, o := range c.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"t1", "v1", "t2", "f1"}, names)
	for _, name := range names {
		assert.True(t, c.Visited(ref(name)))
	}
	assert.Equal(t, 3, c.TotalEdges())
}

func TestCascadeDeterminism(t *testing.T) {
	res := New(scenarioCatalog())

	first, err := res.Cascade(context.Background(), "app", "t1")
	require.NoError(t, err)
	second, err := res.Cascade(context.Background(), "app", "t1")
	require.NoError(t, err)

	assert.Equal(t, first.Levels, second.Levels)
	assert.Equal(t, first.Objects(), second.Objects())
}

func TestCascadeVisitedOnce(t *testing.T) {
	res := New(scenarioCatalog())
	c, err := res.Cascade(context.Background(), "app", "t1")
	require.NoError(t, err)

	seen := make(map[catalog.ObjectRef]int)
	for _, level := range c.Levels {
		for _, o := range level.Discovered {
			seen[o.Ref()]++
		}
	}
	for r, n := range seen {
		assert.Equal(t, 1, n, "object %s discovered %d times", r, n)
	}
}

func TestCascadeSelfLoopTerminates(t *testing.T) {
	f := newFakeCatalog()
	a := obj("a", catalog.KindTable)
	f.listings["app"] = []catalog.SchemaObject{a}
	f.references[a.Ref()] = []catalog.Reference{
		{Referencer: a, Columns: []string{"parent_id"}},
	}

	res := New(f)
	c, err := res.Cascade(context.Background(), "app", "a")
	require.NoError(t, err)

	require.Len(t, c.Levels, 1)
	require.Len(t, c.Levels[0].Edges, 1)
	assert.True(t, c.Levels[0].Edges[0].SelfLoop())
	assert.Empty(t, c.Levels[0].Discovered)
	assert.Len(t, c.Objects(), 1)
	assert.Equal(t, 1, f.expansions[a.Ref()])
}

func TestCascadeDiamondDedup(t *testing.T) {
	f := newFakeCatalog()
	root := obj("root", catalog.KindTable)
	a := obj("a", catalog.KindView)
	b := obj("b", catalog.KindView)
	c := obj("c", catalog.KindView)

	f.listings["app"] = []catalog.SchemaObject{root}
	f.dependents[root.Ref()] = []catalog.SchemaObject{a, b}
	f.dependents[a.Ref()] = []catalog.SchemaObject{c}
	f.dependents[b.Ref()] = []catalog.SchemaObject{c}

	res := New(f)
	cascade, err := res.Cascade(context.Background(), "app", "root")
	require.NoError(t, err)

	require.Len(t, cascade.Levels, 2)

	// Both edges into c are recorded at level 1, c is discovered once.
	level1 := cascade.Levels[1]
	assert.Len(t, level1.Edges, 2)
	require.Len(t, level1.Discovered, 1)
	assert.Equal(t, "c", level1.Discovered[0].Name)

	// c was expanded exactly once.
	assert.Equal(t, 1, f.expansions[c.Ref()])
}

func TestCascadeFatalPropagation(t *testing.T) {
	f := scenarioCatalog()
	f.failOn[ref("v1")] = catalog.ErrCatalogUnavailable

	res := New(f)
	c, err := res.Cascade(context.Background(), "app", "t1")
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
	assert.Nil(t, c, "no partial cascade on failure")
}

func TestCascadeFunctionRoot(t *testing.T) {
	res := New(scenarioCatalog())
	c, err := res.Cascade(context.Background(), "app", "f1")
	require.NoError(t, err)

	assert.Equal(t, catalog.KindFunction, c.Root.Kind)
	assert.Empty(t, c.Levels)
	assert.Len(t, c.Objects(), 1)
}

func TestCascadeObjectNotFound(t *testing.T) {
	res := New(scenarioCatalog())
	_, err := res.Cascade(context.Background(), "app", "missing")
	assert.ErrorIs(t, err, catalog.ErrObjectNotFound)
}

func TestCascadeMaxDepth(t *testing.T) {
	f := newFakeCatalog()
	root := obj("root", catalog.KindTable)
	v1 := obj("v1", catalog.KindView)
	v2 := obj("v2", catalog.KindView)
	v3 := obj("v3", catalog.KindView)

	f.listings["app"] = []catalog.SchemaObject{root}
	f.dependents[root.Ref()] = []catalog.SchemaObject{v1}
	f.dependents[v1.Ref()] = []catalog.SchemaObject{v2}
	f.dependents[v2.Ref()] = []catalog.SchemaObject{v3}

	res := New(f, WithMaxDepth(2))
	c, err := res.Cascade(context.Background(), "app", "root")
	require.NoError(t, err)

	assert.Len(t, c.Levels, 2)
	assert.False(t, c.Visited(v3.Ref()))
	assert.Equal(t, 0, f.expansions[v2.Ref()])
}

func TestCascadeHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(scenarioCatalog())
	_, err := res.Cascade(ctx, "app", "t1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarizeAdditivity(t *testing.T) {
	f := scenarioCatalog()
	res := New(f)

	summaries, err := res.Summarize(context.Background(), "app")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Catalog listing order is preserved: t1, t2, v1.
	assert.Equal(t, "t1", summaries[0].Object.Name)
	assert.Equal(t, 1, summaries[0].Dependents)
	assert.Equal(t, 1, summaries[0].ForeignKeys)

	assert.Equal(t, "t2", summaries[1].Object.Name)
	assert.Equal(t, 0, summaries[1].Dependents)
	assert.Equal(t, 0, summaries[1].ForeignKeys)

	assert.Equal(t, "v1", summaries[2].Object.Name)
	assert.Equal(t, 1, summaries[2].Dependents)
	assert.Equal(t, 0, summaries[2].ForeignKeys)
}

func TestSummarizeFatalPropagation(t *testing.T) {
	f := scenarioCatalog()
	f.failOn[ref("t2")] = catalog.ErrCatalogUnavailable

	res := New(f)
	summaries, err := res.Summarize(context.Background(), "app")
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
	assert.Nil(t, summaries)
}
