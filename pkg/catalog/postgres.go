package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Config holds PostgreSQL connection parameters for the catalog gateway.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	ConnectTimeout time.Duration
	MaxOpenConns   int
	MaxIdleConns   int
}

// DSN renders the config as a lib/pq keyword/value connection string.
func (c Config) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Host),
		fmt.Sprintf("port=%d", c.Port),
		fmt.Sprintf("user=%s", c.User),
		fmt.Sprintf("dbname=%s", c.Database),
	}
	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", c.Password))
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	parts = append(parts, fmt.Sprintf("sslmode=%s", sslMode))
	return strings.Join(parts, " ")
}

// PostgresCatalog implements Catalog against the PostgreSQL system
// catalogs (pg_catalog and information_schema).
type PostgresCatalog struct {
	db  *sql.DB
	log *logrus.Logger
}

// Open connects to PostgreSQL and verifies the connection. The returned
// catalog owns the connection pool; callers must Close it on every exit
// path.
func Open(ctx context.Context, cfg Config, log *logrus.Logger) (*PostgresCatalog, error) {
	if log == nil {
		log = logrus.New()
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, unavailable("open connection", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, unavailable("ping", err)
	}

	log.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.Database,
	}).Debug("connected to catalog")

	return &PostgresCatalog{db: db, log: log}, nil
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *sql.DB, log *logrus.Logger) *PostgresCatalog {
	if log == nil {
		log = logrus.New()
	}
	return &PostgresCatalog{db: db, log: log}
}

// Close releases the underlying connection pool.
func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}

// dependentsQuery gathers every view and function definition outside the
// system schemas (excluding the inspected object itself) and matches the
// flattened definition text against SIMILAR TO patterns built from the
// inspected object's name.
const dependentsQuery = `
WITH f AS (
    SELECT
      'FUNCTION'::TEXT AS "type",
      n.nspname        AS schema_name,
      p.proname        AS "name",
      regexp_replace(pg_get_functiondef(p.oid), '[\n\r]+', ' ', 'g') AS definition
    FROM pg_catalog.pg_proc p
      INNER JOIN pg_catalog.pg_namespace n ON (n.oid = p.pronamespace)
    WHERE n.nspname NOT IN ('information_schema', 'pg_catalog')
    AND NOT (n.nspname = $1 AND p.proname = $2)
),
v AS (
    SELECT
      'VIEW'::TEXT AS "type",
      v.schemaname AS schema_name,
      v.viewname   AS "name",
      regexp_replace(v.definition, '[\n\r]+', ' ', 'g') AS definition
    FROM pg_catalog.pg_views v
    WHERE v.schemaname NOT IN ('information_schema', 'pg_catalog')
    AND NOT (v.schemaname = $1 AND v.viewname = $2)
),
r AS (
    SELECT * FROM f
    UNION SELECT * FROM v
)
SELECT type, schema_name, name
FROM r
WHERE definition SIMILAR TO $3
OR definition SIMILAR TO $4
OR (definition SIMILAR TO $5 AND schema_name = $1)
OR (definition SIMILAR TO $6 AND schema_name = $1)
ORDER BY type, schema_name, name
`

// DirectDependents returns the views and functions whose definition
// references schema.name, one level deep.
func (c *PostgresCatalog) DirectDependents(ctx context.Context, schema, name string) ([]SchemaObject, error) {
	// Qualified name surrounded by spaces and optionally double-quoted,
	// plus a variant terminated by an opening parenthesis for function
	// references. Bare-name variants are limited to the current schema.
	qualified := fmt.Sprintf(`%% (")?%s(")?.(")?%s(")? %%`, schema, name)
	qualifiedCall := fmt.Sprintf(`%% (")?%s(")?.(")?%s(")?\(%%`, schema, name)
	bare := fmt.Sprintf(`%% (")?%s(")? %%`, name)
	bareCall := fmt.Sprintf(`%% (")?%s(")?\(%%`, name)

	rows, err := c.db.QueryContext(ctx, dependentsQuery, schema, name, qualified, qualifiedCall, bare, bareCall)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("direct dependents of %s.%s", schema, name), err)
	}
	defer rows.Close()

	var dependents []SchemaObject
	for rows.Next() {
		var kind, depSchema, depName string
		if err := rows.Scan(&kind, &depSchema, &depName); err != nil {
			return nil, unavailable("scan dependent row", err)
		}
		dependents = append(dependents, SchemaObject{
			Schema: depSchema,
			Name:   depName,
			Kind:   ParseKind(kind),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate dependent rows", err)
	}

	c.log.WithFields(logrus.Fields{
		"object": schema + "." + name,
		"count":  len(dependents),
	}).Debug("direct dependents")

	return dependents, nil
}

// foreignKeysQuery joins referential_constraints with the column usage of
// both constraint sides, aggregating the referencing column names per
// constraint.
const foreignKeysQuery = `
SELECT
  rest.table_schema AS schema_name,
  rest.table_name,
  rest.column_name
FROM (
    SELECT
        a.constraint_catalog, a.constraint_schema, a.constraint_name, a.table_schema, a.table_name,
        array_agg(a.column_name::TEXT) AS column_name
    FROM information_schema.constraint_column_usage a
    GROUP BY a.constraint_catalog, a.constraint_schema, a.constraint_name, a.table_schema, a.table_name
) refer
INNER JOIN information_schema.referential_constraints fkey
    USING (constraint_catalog, constraint_schema, constraint_name)
INNER JOIN (
    SELECT
        a.constraint_catalog, a.constraint_schema, a.constraint_name, a.table_schema, a.table_name,
        array_agg(a.column_name::TEXT) AS column_name
    FROM (
        SELECT
            *
        FROM information_schema.key_column_usage
        ORDER BY ordinal_position, position_in_unique_constraint
    ) a
    GROUP BY a.constraint_catalog, a.constraint_schema, a.constraint_name, a.table_schema, a.table_name
) rest
    USING (constraint_catalog, constraint_schema, constraint_name)
WHERE refer.table_schema = $1 AND refer.table_name = $2
ORDER BY rest.table_schema, rest.table_name
`

// ForeignKeyReferences returns every table that declares a foreign key
// whose target is schema.name, with the referencing column names.
func (c *PostgresCatalog) ForeignKeyReferences(ctx context.Context, schema, name string) ([]Reference, error) {
	rows, err := c.db.QueryContext(ctx, foreignKeysQuery, schema, name)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("foreign keys into %s.%s", schema, name), err)
	}
	defer rows.Close()

	var refs []Reference
	for rows.Next() {
		var refSchema, refName string
		var columns pq.StringArray
		if err := rows.Scan(&refSchema, &refName, &columns); err != nil {
			return nil, unavailable("scan foreign key row", err)
		}
		refs = append(refs, Reference{
			Referencer: SchemaObject{Schema: refSchema, Name: refName, Kind: KindTable},
			Columns:    []string(columns),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate foreign key rows", err)
	}

	c.log.WithFields(logrus.Fields{
		"object": schema + "." + name,
		"count":  len(refs),
	}).Debug("foreign key references")

	return refs, nil
}

const listObjectsQuery = `
SELECT
    table_schema AS schema_name,
    table_name,
    table_type
FROM information_schema.tables
WHERE table_schema = $1
AND table_type IN ('BASE TABLE', 'VIEW')
ORDER BY table_name ASC
`

// ListSchemaObjects enumerates the tables and views of a schema, ordered
// by name.
func (c *PostgresCatalog) ListSchemaObjects(ctx context.Context, schema string) ([]SchemaObject, error) {
	rows, err := c.db.QueryContext(ctx, listObjectsQuery, schema)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("list objects in schema %s", schema), err)
	}
	defer rows.Close()

	var objects []SchemaObject
	for rows.Next() {
		var objSchema, objName, objType string
		if err := rows.Scan(&objSchema, &objName, &objType); err != nil {
			return nil, unavailable("scan object row", err)
		}
		objects = append(objects, SchemaObject{
			Schema: objSchema,
			Name:   objName,
			Kind:   ParseKind(objType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate object rows", err)
	}

	return objects, nil
}

const lookupObjectQuery = `
SELECT kind, schema_name, name
FROM (
    SELECT
        table_type   AS kind,
        table_schema AS schema_name,
        table_name   AS name
    FROM information_schema.tables
    WHERE table_schema = $1 AND table_name = $2
    UNION ALL
    SELECT
        'FUNCTION'::TEXT AS kind,
        n.nspname        AS schema_name,
        p.proname        AS name
    FROM pg_catalog.pg_proc p
      INNER JOIN pg_catalog.pg_namespace n ON (n.oid = p.pronamespace)
    WHERE n.nspname = $1 AND p.proname = $2
) o
LIMIT 1
`

// LookupObject resolves a single table, view or function by name.
func (c *PostgresCatalog) LookupObject(ctx context.Context, schema, name string) (SchemaObject, error) {
	var kind, objSchema, objName string
	err := c.db.QueryRowContext(ctx, lookupObjectQuery, schema, name).Scan(&kind, &objSchema, &objName)
	if err == sql.ErrNoRows {
		return SchemaObject{}, fmt.Errorf("%s.%s: %w", schema, name, ErrObjectNotFound)
	}
	if err != nil {
		return SchemaObject{}, unavailable(fmt.Sprintf("lookup %s.%s", schema, name), err)
	}
	return SchemaObject{
		Schema: objSchema,
		Name:   objName,
		Kind:   ParseKind(kind),
	}, nil
}
