package postgresengine

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// SchemaStatements returns the idempotent DDL that creates the events table and its indexes.
func SchemaStatements(tableName string) []string {
	if tableName == "" {
		tableName = defaultEventTableName
	}

	parts := strings.Split(tableName, ".")
	table := pgx.Identifier(parts).Sanitize()
	base := parts[len(parts)-1]

	return []string{
		`CREATE TABLE IF NOT EXISTS ` + table + ` (
			sequence_number BIGSERIAL PRIMARY KEY,
			event_type      TEXT        NOT NULL,
			occurred_at     TIMESTAMPTZ NOT NULL,
			payload         JSONB       NOT NULL,
			metadata        JSONB       NOT NULL,
			appended_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pgx.Identifier{base + "_event_type_idx"}.Sanitize() +
			` ON ` + table + ` (event_type)`,
		`CREATE INDEX IF NOT EXISTS ` + pgx.Identifier{base + "_payload_idx"}.Sanitize() +
			` ON ` + table + ` USING gin (payload jsonb_path_ops)`,
	}
}
