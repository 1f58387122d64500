package registry

import "context"

// Repository defines the persistence operations for link and media records.
// Create methods report a short-code collision as an errx.Conflict error;
// the service treats that as its signal to retry with a fresh code. Resolve
// methods apply their counter increment and the lookup as one atomic unit.
type Repository interface {
	CreateLink(ctx context.Context, rec LinkRecord) (LinkRecord, error)
	CreateMedia(ctx context.Context, rec MediaRecord) (MediaRecord, error)

	GetLink(ctx context.Context, code string) (LinkRecord, error)
	GetMedia(ctx context.Context, code string) (MediaRecord, error)

	ResolveLink(ctx context.Context, code string) (LinkRecord, error)
	ResolveMedia(ctx context.Context, code string) (MediaRecord, error)

	ListLinksByCreator(ctx context.Context, creator string, limit int) ([]LinkRecord, error)
	ListMediaByCreator(ctx context.Context, creator string, limit int) ([]MediaRecord, error)

	LinkExists(ctx context.Context, code string) (bool, error)
	MediaExists(ctx context.Context, code string) (bool, error)

	Totals(ctx context.Context) (Stats, error)

	DeleteLink(ctx context.Context, code string) error
	DeleteMedia(ctx context.Context, code string) error
}
