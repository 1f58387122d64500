package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the complete registry schema. Links and media live in separate
// tables so the two code namespaces stay independent; the same code value may
// exist in both. The identity column is the tiebreak for rows created in the
// same microsecond when listing by creator.
const Schema = `
CREATE TABLE IF NOT EXISTS links (
    id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    short_code   TEXT NOT NULL,
    original_url TEXT NOT NULL,
    creator      TEXT NOT NULL DEFAULT 'anonymous',
    clicks       BIGINT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),

    CONSTRAINT links_code_unique UNIQUE (short_code)
);

CREATE TABLE IF NOT EXISTS media (
    id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    short_code TEXT NOT NULL,
    ipfs_hash  TEXT NOT NULL,
    file_name  TEXT NOT NULL,
    file_type  TEXT NOT NULL DEFAULT '',
    file_size  BIGINT NOT NULL DEFAULT 0,
    creator    TEXT NOT NULL DEFAULT 'anonymous',
    views      BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),

    CONSTRAINT media_code_unique UNIQUE (short_code)
);

CREATE INDEX IF NOT EXISTS links_creator_idx ON links (creator, created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS media_creator_idx ON media (creator, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS namespace_totals (
    namespace     TEXT PRIMARY KEY,
    created_total BIGINT NOT NULL DEFAULT 0
);

INSERT INTO namespace_totals (namespace, created_total)
VALUES ('link', 0), ('media', 0)
ON CONFLICT (namespace) DO NOTHING;
`

// Migrate applies the schema. An Exec without arguments runs over the simple
// protocol, which accepts the multi-statement script in one call. The
// statements are idempotent, so Migrate is safe to run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
