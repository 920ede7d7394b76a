// Package config provides application configuration from environment
// variables and an optional YAML defaults file.
//
// # Configuration Structure
//
// Connection settings:
//
//	PGCASCADE_HOST="localhost"
//	PGCASCADE_PORT="5432"
//	PGCASCADE_USER="$USER"
//	PGCASCADE_PASSWORD=""        # prompted when empty
//	PGCASCADE_DATABASE="$USER"
//	PGCASCADE_SSLMODE="prefer"
//	PGCASCADE_CONNECT_TIMEOUT="10s"
//
// Output settings:
//
//	PGCASCADE_OUTPUT_DIR="."
//	PGCASCADE_FORMAT="pdf"       # any format the dot binary supports, or "dot"
//	PGCASCADE_MAX_DEPTH="0"      # 0 = unbounded
//	PGCASCADE_LOG_LEVEL="info"   # debug, info, warn, error
//
// Defaults may also be set in ~/.pgcascade.yaml (or the file named by
// PGCASCADE_CONFIG). Precedence: CLI flags over environment over file
// over built-ins.
package config
