package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want ObjectKind
	}{
		{"BASE TABLE", KindTable},
		{"TABLE", KindTable},
		{"table", KindTable},
		{"VIEW", KindView},
		{"view", KindView},
		{"FUNCTION", KindFunction},
		{"MATERIALIZED VIEW", KindOther},
		{"SEQUENCE", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseKind(tt.in), "ParseKind(%q)", tt.in)
	}
}

func TestSchemaObjectIdentity(t *testing.T) {
	table := SchemaObject{Schema: "public", Name: "users", Kind: KindTable}
	view := SchemaObject{Schema: "public", Name: "users", Kind: KindView}

	// Kind is metadata, not identity.
	assert.Equal(t, table.Ref(), view.Ref())
	assert.Equal(t, "public.users", table.QualifiedName())
	assert.Equal(t, "public.users", table.Ref().String())

	other := SchemaObject{Schema: "audit", Name: "users", Kind: KindTable}
	assert.NotEqual(t, table.Ref(), other.Ref())
}

func TestEdgeSelfLoop(t *testing.T) {
	users := SchemaObject{Schema: "public", Name: "users", Kind: KindTable}
	orders := SchemaObject{Schema: "public", Name: "orders", Kind: KindTable}

	assert.True(t, Edge{From: users, To: users, Kind: EdgeForeignKey}.SelfLoop())
	assert.False(t, Edge{From: orders, To: users, Kind: EdgeForeignKey}.SelfLoop())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "TABLE", KindTable.String())
	assert.Equal(t, "VIEW", KindView.String())
	assert.Equal(t, "FUNCTION", KindFunction.String())
	assert.Equal(t, "OTHER", KindOther.String())
	assert.Equal(t, "USES", EdgeUses.String())
	assert.Equal(t, "FOREIGN KEY", EdgeForeignKey.String())
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     5433,
		User:     "inspector",
		Password: "secret",
		Database: "warehouse",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=inspector dbname=warehouse password=secret sslmode=require",
		cfg.DSN())

	// No password, default sslmode.
	cfg.Password = ""
	cfg.SSLMode = ""
	assert.Equal(t,
		"host=db.internal port=5433 user=inspector dbname=warehouse sslmode=prefer",
		cfg.DSN())
}
