// Package db is the hand-written pgx query layer over the registry schema.
// It returns raw rows; mapping to domain types and error classification
// happen in the repository layer above it.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx connection behavior the queries need.
// *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New returns a Queries bound to the given connection or pool.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries executes the registry's SQL statements.
type Queries struct {
	db DBTX
}

// Link is a row of the links table.
type Link struct {
	ShortCode   string
	OriginalUrl string
	Creator     string
	Clicks      int64
	CreatedAt   pgtype.Timestamptz
}

// Media is a row of the media table.
type Media struct {
	ShortCode string
	IpfsHash  string
	FileName  string
	FileType  string
	FileSize  int64
	Creator   string
	Views     int64
	CreatedAt pgtype.Timestamptz
}

// NamespaceTotal is a row of the namespace_totals table.
type NamespaceTotal struct {
	Namespace    string
	CreatedTotal int64
}
