package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nasirnaqash/web3-ls/internal/db"
	"github.com/nasirnaqash/web3-ls/internal/errx"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	CreateLink(ctx context.Context, arg db.CreateLinkParams) (db.Link, error)
	CreateMedia(ctx context.Context, arg db.CreateMediaParams) (db.Media, error)
	GetLinkByCode(ctx context.Context, shortCode string) (db.Link, error)
	GetMediaByCode(ctx context.Context, shortCode string) (db.Media, error)
	ResolveLink(ctx context.Context, shortCode string) (db.Link, error)
	ResolveMedia(ctx context.Context, shortCode string) (db.Media, error)
	ListLinksByCreator(ctx context.Context, arg db.ListLinksByCreatorParams) ([]db.Link, error)
	ListMediaByCreator(ctx context.Context, arg db.ListMediaByCreatorParams) ([]db.Media, error)
	LinkExists(ctx context.Context, shortCode string) (bool, error)
	MediaExists(ctx context.Context, shortCode string) (bool, error)
	GetNamespaceTotals(ctx context.Context) ([]db.NamespaceTotal, error)
	DeleteLink(ctx context.Context, shortCode string) (int64, error)
	DeleteMedia(ctx context.Context, shortCode string) (int64, error)
}

type repo struct {
	q querier
}

// NewRepository creates a Repository backed by the Postgres query layer.
func NewRepository(q querier) Repository {
	return &repo{q: q}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func toDomainLink(x db.Link) (LinkRecord, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return LinkRecord{}, err
	}

	return LinkRecord{
		ShortCode:   x.ShortCode,
		OriginalURL: x.OriginalUrl,
		Creator:     x.Creator,
		Clicks:      x.Clicks,
		CreatedAt:   createdAt,
	}, nil
}

func toDomainMedia(x db.Media) (MediaRecord, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return MediaRecord{}, err
	}

	return MediaRecord{
		ShortCode: x.ShortCode,
		IPFSHash:  x.IpfsHash,
		FileName:  x.FileName,
		FileType:  x.FileType,
		FileSize:  x.FileSize,
		Creator:   x.Creator,
		Views:     x.Views,
		CreatedAt: createdAt,
	}, nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func (r *repo) CreateLink(ctx context.Context, rec LinkRecord) (LinkRecord, error) {
	const op = "registry.repo.CreateLink"

	row, err := r.q.CreateLink(ctx, db.CreateLinkParams{
		ShortCode:   rec.ShortCode,
		OriginalUrl: rec.OriginalURL,
		Creator:     rec.Creator,
	})
	if err != nil {
		return LinkRecord{}, mapRepoError(op, err)
	}

	return toDomainLink(row)
}

func (r *repo) CreateMedia(ctx context.Context, rec MediaRecord) (MediaRecord, error) {
	const op = "registry.repo.CreateMedia"

	row, err := r.q.CreateMedia(ctx, db.CreateMediaParams{
		ShortCode: rec.ShortCode,
		IpfsHash:  rec.IPFSHash,
		FileName:  rec.FileName,
		FileType:  rec.FileType,
		FileSize:  rec.FileSize,
		Creator:   rec.Creator,
	})
	if err != nil {
		return MediaRecord{}, mapRepoError(op, err)
	}

	return toDomainMedia(row)
}

func (r *repo) GetLink(ctx context.Context, code string) (LinkRecord, error) {
	const op = "registry.repo.GetLink"

	row, err := r.q.GetLinkByCode(ctx, code)
	if err != nil {
		return LinkRecord{}, mapRepoError(op, err)
	}
	return toDomainLink(row)
}

func (r *repo) GetMedia(ctx context.Context, code string) (MediaRecord, error) {
	const op = "registry.repo.GetMedia"

	row, err := r.q.GetMediaByCode(ctx, code)
	if err != nil {
		return MediaRecord{}, mapRepoError(op, err)
	}
	return toDomainMedia(row)
}

func (r *repo) ResolveLink(ctx context.Context, code string) (LinkRecord, error) {
	const op = "registry.repo.ResolveLink"

	row, err := r.q.ResolveLink(ctx, code)
	if err != nil {
		return LinkRecord{}, mapRepoError(op, err)
	}
	return toDomainLink(row)
}

func (r *repo) ResolveMedia(ctx context.Context, code string) (MediaRecord, error) {
	const op = "registry.repo.ResolveMedia"

	row, err := r.q.ResolveMedia(ctx, code)
	if err != nil {
		return MediaRecord{}, mapRepoError(op, err)
	}
	return toDomainMedia(row)
}

func (r *repo) ListLinksByCreator(ctx context.Context, creator string, limit int) ([]LinkRecord, error) {
	const op = "registry.repo.ListLinksByCreator"

	rows, err := r.q.ListLinksByCreator(ctx, db.ListLinksByCreatorParams{
		Creator: creator,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	records := make([]LinkRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toDomainLink(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *repo) ListMediaByCreator(ctx context.Context, creator string, limit int) ([]MediaRecord, error) {
	const op = "registry.repo.ListMediaByCreator"

	rows, err := r.q.ListMediaByCreator(ctx, db.ListMediaByCreatorParams{
		Creator: creator,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	records := make([]MediaRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := toDomainMedia(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *repo) LinkExists(ctx context.Context, code string) (bool, error) {
	const op = "registry.repo.LinkExists"

	exists, err := r.q.LinkExists(ctx, code)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return exists, nil
}

func (r *repo) MediaExists(ctx context.Context, code string) (bool, error) {
	const op = "registry.repo.MediaExists"

	exists, err := r.q.MediaExists(ctx, code)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return exists, nil
}

func (r *repo) Totals(ctx context.Context) (Stats, error) {
	const op = "registry.repo.Totals"

	rows, err := r.q.GetNamespaceTotals(ctx)
	if err != nil {
		return Stats{}, mapRepoError(op, err)
	}

	var stats Stats
	for _, row := range rows {
		switch Namespace(row.Namespace) {
		case NamespaceLink:
			stats.TotalLinks = row.CreatedTotal
		case NamespaceMedia:
			stats.TotalMedia = row.CreatedTotal
		}
	}
	return stats, nil
}

func (r *repo) DeleteLink(ctx context.Context, code string) error {
	const op = "registry.repo.DeleteLink"

	affected, err := r.q.DeleteLink(ctx, code)
	if err != nil {
		return mapRepoError(op, err)
	}
	if affected == 0 {
		return errx.E(op, errx.NotFound, errors.New("no record with this code"))
	}
	return nil
}

func (r *repo) DeleteMedia(ctx context.Context, code string) error {
	const op = "registry.repo.DeleteMedia"

	affected, err := r.q.DeleteMedia(ctx, code)
	if err != nil {
		return mapRepoError(op, err)
	}
	if affected == 0 {
		return errx.E(op, errx.NotFound, errors.New("no record with this code"))
	}
	return nil
}
