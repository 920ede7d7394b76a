package catalog

import "strings"

// ObjectKind classifies a catalog object for traversal and styling rules.
// The catalog may report kinds this tool does not specifically handle;
// those fall into KindOther.
type ObjectKind int

const (
	KindTable ObjectKind = iota
	KindView
	KindFunction
	KindOther
)

func (k ObjectKind) String() string {
	switch k {
	case KindTable:
		return "TABLE"
	case KindView:
		return "VIEW"
	case KindFunction:
		return "FUNCTION"
	default:
		return "OTHER"
	}
}

// ParseKind maps a catalog-reported kind string to an ObjectKind.
// information_schema reports tables as "BASE TABLE".
func ParseKind(s string) ObjectKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TABLE", "BASE TABLE":
		return KindTable
	case "VIEW":
		return KindView
	case "FUNCTION":
		return KindFunction
	default:
		return KindOther
	}
}

// ObjectRef is the identity of a schema object: the (schema, name) pair.
// Kind is metadata, not identity - the same qualified name cannot carry
// two kinds at once.
type ObjectRef struct {
	Schema string
	Name   string
}

func (r ObjectRef) String() string {
	return r.Schema + "." + r.Name
}

// SchemaObject identifies one catalog entity. Values are constructed fresh
// from catalog rows and never mutated.
type SchemaObject struct {
	Schema string
	Name   string
	Kind   ObjectKind
}

// Ref returns the object's identity.
func (o SchemaObject) Ref() ObjectRef {
	return ObjectRef{Schema: o.Schema, Name: o.Name}
}

// QualifiedName returns the schema-qualified name, e.g. "public.users".
func (o SchemaObject) QualifiedName() string {
	return o.Schema + "." + o.Name
}

// EdgeKind distinguishes the two primitive dependency relations.
type EdgeKind int

const (
	// EdgeUses means From references To in its definition (view or function body).
	EdgeUses EdgeKind = iota
	// EdgeForeignKey means From declares a foreign key constraint into To.
	EdgeForeignKey
)

func (k EdgeKind) String() string {
	if k == EdgeForeignKey {
		return "FOREIGN KEY"
	}
	return "USES"
}

// Edge is a directed dependency relation between two schema objects.
// From is always the dependent or referencing side; To is the object it
// points at. Label carries the referencing column names for foreign key
// edges and is empty otherwise.
type Edge struct {
	From  SchemaObject
	To    SchemaObject
	Kind  EdgeKind
	Label string
}

// SelfLoop reports whether the edge starts and ends on the same object,
// e.g. a self-referencing foreign key.
func (e Edge) SelfLoop() bool {
	return e.From.Ref() == e.To.Ref()
}

// Reference is one foreign key constraint pointing at the inspected object.
type Reference struct {
	Referencer SchemaObject
	Columns    []string
}
