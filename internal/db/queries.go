package db

import (
	"context"
)

// Creation statements bump the namespace counter in the same statement as the
// insert. A unique violation on short_code aborts the whole statement, so the
// counter only ever counts rows that were actually inserted, and it is never
// decremented afterwards.

const createLink = `
WITH bump AS (
    UPDATE namespace_totals
    SET created_total = created_total + 1
    WHERE namespace = 'link'
)
INSERT INTO links (short_code, original_url, creator)
VALUES ($1, $2, $3)
RETURNING short_code, original_url, creator, clicks, created_at
`

type CreateLinkParams struct {
	ShortCode   string
	OriginalUrl string
	Creator     string
}

func (q *Queries) CreateLink(ctx context.Context, arg CreateLinkParams) (Link, error) {
	row := q.db.QueryRow(ctx, createLink, arg.ShortCode, arg.OriginalUrl, arg.Creator)
	var i Link
	err := row.Scan(&i.ShortCode, &i.OriginalUrl, &i.Creator, &i.Clicks, &i.CreatedAt)
	return i, err
}

const createMedia = `
WITH bump AS (
    UPDATE namespace_totals
    SET created_total = created_total + 1
    WHERE namespace = 'media'
)
INSERT INTO media (short_code, ipfs_hash, file_name, file_type, file_size, creator)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING short_code, ipfs_hash, file_name, file_type, file_size, creator, views, created_at
`

type CreateMediaParams struct {
	ShortCode string
	IpfsHash  string
	FileName  string
	FileType  string
	FileSize  int64
	Creator   string
}

func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (Media, error) {
	row := q.db.QueryRow(ctx, createMedia,
		arg.ShortCode,
		arg.IpfsHash,
		arg.FileName,
		arg.FileType,
		arg.FileSize,
		arg.Creator,
	)
	var i Media
	err := row.Scan(
		&i.ShortCode,
		&i.IpfsHash,
		&i.FileName,
		&i.FileType,
		&i.FileSize,
		&i.Creator,
		&i.Views,
		&i.CreatedAt,
	)
	return i, err
}

const getLinkByCode = `
SELECT short_code, original_url, creator, clicks, created_at
FROM links
WHERE short_code = $1
`

func (q *Queries) GetLinkByCode(ctx context.Context, shortCode string) (Link, error) {
	row := q.db.QueryRow(ctx, getLinkByCode, shortCode)
	var i Link
	err := row.Scan(&i.ShortCode, &i.OriginalUrl, &i.Creator, &i.Clicks, &i.CreatedAt)
	return i, err
}

const getMediaByCode = `
SELECT short_code, ipfs_hash, file_name, file_type, file_size, creator, views, created_at
FROM media
WHERE short_code = $1
`

func (q *Queries) GetMediaByCode(ctx context.Context, shortCode string) (Media, error) {
	row := q.db.QueryRow(ctx, getMediaByCode, shortCode)
	var i Media
	err := row.Scan(
		&i.ShortCode,
		&i.IpfsHash,
		&i.FileName,
		&i.FileType,
		&i.FileSize,
		&i.Creator,
		&i.Views,
		&i.CreatedAt,
	)
	return i, err
}

// Resolve statements increment the hit counter and return the updated row in
// one statement. The row lock taken by UPDATE serializes concurrent resolves
// of the same code, so no increment is lost.

const resolveLink = `
UPDATE links
SET clicks = clicks + 1
WHERE short_code = $1
RETURNING short_code, original_url, creator, clicks, created_at
`

func (q *Queries) ResolveLink(ctx context.Context, shortCode string) (Link, error) {
	row := q.db.QueryRow(ctx, resolveLink, shortCode)
	var i Link
	err := row.Scan(&i.ShortCode, &i.OriginalUrl, &i.Creator, &i.Clicks, &i.CreatedAt)
	return i, err
}

const resolveMedia = `
UPDATE media
SET views = views + 1
WHERE short_code = $1
RETURNING short_code, ipfs_hash, file_name, file_type, file_size, creator, views, created_at
`

func (q *Queries) ResolveMedia(ctx context.Context, shortCode string) (Media, error) {
	row := q.db.QueryRow(ctx, resolveMedia, shortCode)
	var i Media
	err := row.Scan(
		&i.ShortCode,
		&i.IpfsHash,
		&i.FileName,
		&i.FileType,
		&i.FileSize,
		&i.Creator,
		&i.Views,
		&i.CreatedAt,
	)
	return i, err
}

const listLinksByCreator = `
SELECT short_code, original_url, creator, clicks, created_at
FROM links
WHERE creator = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListLinksByCreatorParams struct {
	Creator string
	Limit   int32
}

func (q *Queries) ListLinksByCreator(ctx context.Context, arg ListLinksByCreatorParams) ([]Link, error) {
	rows, err := q.db.Query(ctx, listLinksByCreator, arg.Creator, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Link
	for rows.Next() {
		var i Link
		if err := rows.Scan(&i.ShortCode, &i.OriginalUrl, &i.Creator, &i.Clicks, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listMediaByCreator = `
SELECT short_code, ipfs_hash, file_name, file_type, file_size, creator, views, created_at
FROM media
WHERE creator = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListMediaByCreatorParams struct {
	Creator string
	Limit   int32
}

func (q *Queries) ListMediaByCreator(ctx context.Context, arg ListMediaByCreatorParams) ([]Media, error) {
	rows, err := q.db.Query(ctx, listMediaByCreator, arg.Creator, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Media
	for rows.Next() {
		var i Media
		if err := rows.Scan(
			&i.ShortCode,
			&i.IpfsHash,
			&i.FileName,
			&i.FileType,
			&i.FileSize,
			&i.Creator,
			&i.Views,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const linkExists = `
SELECT EXISTS (SELECT 1 FROM links WHERE short_code = $1)
`

func (q *Queries) LinkExists(ctx context.Context, shortCode string) (bool, error) {
	row := q.db.QueryRow(ctx, linkExists, shortCode)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const mediaExists = `
SELECT EXISTS (SELECT 1 FROM media WHERE short_code = $1)
`

func (q *Queries) MediaExists(ctx context.Context, shortCode string) (bool, error) {
	row := q.db.QueryRow(ctx, mediaExists, shortCode)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getNamespaceTotals = `
SELECT namespace, created_total
FROM namespace_totals
ORDER BY namespace
`

func (q *Queries) GetNamespaceTotals(ctx context.Context) ([]NamespaceTotal, error) {
	rows, err := q.db.Query(ctx, getNamespaceTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NamespaceTotal
	for rows.Next() {
		var i NamespaceTotal
		if err := rows.Scan(&i.Namespace, &i.CreatedTotal); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Deletes do not touch namespace_totals; the created totals are lifetime
// counts and stay monotonic across removals.

const deleteLink = `
DELETE FROM links
WHERE short_code = $1
`

func (q *Queries) DeleteLink(ctx context.Context, shortCode string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteLink, shortCode)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteMedia = `
DELETE FROM media
WHERE short_code = $1
`

func (q *Queries) DeleteMedia(ctx context.Context, shortCode string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteMedia, shortCode)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
