package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/nasirnaqash/web3-ls/codegen"
	"github.com/nasirnaqash/web3-ls/internal/errx"
)

const (
	DefaultCodeLength      = 6
	DefaultCodeMaxAttempts = 20
	DefaultOwnerPageSize   = 10
	MaxURLLength           = 2048
)

// ErrCodeSpaceExhausted reports that every generation attempt within the
// configured budget collided with an existing code. At 62^6 codes per
// namespace this should never trigger outside of tests.
var ErrCodeSpaceExhausted = errors.New("code space exhausted")

// CreateLinkRequest represents the parameters for registering a URL.
type CreateLinkRequest struct {
	OriginalURL string
	Creator     string // empty means anonymous
}

// CreateMediaRequest represents the parameters for registering a media
// reference. FileType and FileSize pass through unvalidated; checking them
// is the uploader's job before it calls the registry.
type CreateMediaRequest struct {
	IPFSHash string
	FileName string
	FileType string
	FileSize int64
	Creator  string
}

// Service defines the registry operations exposed to transports.
type Service interface {
	CreateLink(ctx context.Context, req CreateLinkRequest) (LinkRecord, error)
	CreateMedia(ctx context.Context, req CreateMediaRequest) (MediaRecord, error)

	// Resolve methods are counting reads: the returned record carries the
	// post-increment counter value.
	ResolveLink(ctx context.Context, code string) (LinkRecord, error)
	ResolveMedia(ctx context.Context, code string) (MediaRecord, error)

	// Peek methods read without touching any counter.
	PeekLink(ctx context.Context, code string) (LinkRecord, error)
	PeekMedia(ctx context.Context, code string) (MediaRecord, error)

	ListLinksByOwner(ctx context.Context, owner string) ([]LinkRecord, error)
	ListMediaByOwner(ctx context.Context, owner string) ([]MediaRecord, error)

	Exists(ctx context.Context, ns Namespace, code string) (bool, error)
	TotalCount(ctx context.Context, ns Namespace) (int64, error)
	Stats(ctx context.Context) (Stats, error)

	DeleteLink(ctx context.Context, code string) error
	DeleteMedia(ctx context.Context, code string) error
}

// Cache is an optional store for non-counting reads. Counting reads never
// go through it; they invalidate the entry after each increment so a later
// peek does not serve a stale counter. Implementations must degrade cache
// failures to misses rather than surface them.
type Cache interface {
	GetLink(ctx context.Context, code string) (LinkRecord, bool)
	SetLink(ctx context.Context, rec LinkRecord)
	GetMedia(ctx context.Context, code string) (MediaRecord, bool)
	SetMedia(ctx context.Context, rec MediaRecord)
	Invalidate(ctx context.Context, ns Namespace, code string)
}

// service implements the Service interface.
type service struct {
	repo            Repository
	cache           Cache
	codes           codegen.Generator
	codeLength      int
	codeMaxAttempts int
	ownerPageSize   int
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	Codes           codegen.Generator
	Cache           Cache // optional; nil disables caching
	CodeLength      int
	CodeMaxAttempts int
	OwnerPageSize   int
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	codes := config.Codes
	if codes == nil {
		codes = codegen.NewAlphanumeric()
	}

	length := config.CodeLength
	if length <= 0 {
		length = DefaultCodeLength
	}

	attempts := config.CodeMaxAttempts
	if attempts <= 0 {
		attempts = DefaultCodeMaxAttempts
	}

	pageSize := config.OwnerPageSize
	if pageSize <= 0 {
		pageSize = DefaultOwnerPageSize
	}

	return &service{
		repo:            repo,
		cache:           config.Cache,
		codes:           codes,
		codeLength:      length,
		codeMaxAttempts: attempts,
		ownerPageSize:   pageSize,
	}
}

// mint runs the collision-avoidance loop shared by both namespaces:
// generate a candidate code, hand it to the store, and retry with a fresh
// code when the store reports a Conflict. Any other error aborts. The store
// rejecting a duplicate is the only uniqueness check; mint never probes for
// existence first.
func mint[R any](ctx context.Context, s *service, op string, insert func(ctx context.Context, code string) (R, error)) (R, error) {
	var zero R

	for range s.codeMaxAttempts {
		code, err := s.codes.Generate(s.codeLength)
		if err != nil {
			return zero, errx.E(op, errx.Unavailable, err)
		}

		rec, err := insert(ctx, code)
		if err == nil {
			return rec, nil
		}

		// Retry on collision, fail on anything else
		if errx.KindOf(err) != errx.Conflict {
			return zero, errx.E(op, errx.KindOf(err), err)
		}
	}

	return zero, errx.E(op, errx.Unavailable,
		fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, s.codeMaxAttempts))
}

// CreateLink registers a URL under a freshly minted short code.
func (s *service) CreateLink(ctx context.Context, req CreateLinkRequest) (LinkRecord, error) {
	const op = "registry.service.CreateLink"

	if err := validateURL(req.OriginalURL); err != nil {
		return LinkRecord{}, errx.E(op, errx.Invalid, err)
	}
	creator := normalizeCreator(req.Creator)

	return mint(ctx, s, op, func(ctx context.Context, code string) (LinkRecord, error) {
		return s.repo.CreateLink(ctx, LinkRecord{
			ShortCode:   code,
			OriginalURL: req.OriginalURL,
			Creator:     creator,
		})
	})
}

// CreateMedia registers a media reference under a freshly minted short code.
func (s *service) CreateMedia(ctx context.Context, req CreateMediaRequest) (MediaRecord, error) {
	const op = "registry.service.CreateMedia"

	if err := validateMedia(req); err != nil {
		return MediaRecord{}, errx.E(op, errx.Invalid, err)
	}
	creator := normalizeCreator(req.Creator)

	return mint(ctx, s, op, func(ctx context.Context, code string) (MediaRecord, error) {
		return s.repo.CreateMedia(ctx, MediaRecord{
			ShortCode: code,
			IPFSHash:  req.IPFSHash,
			FileName:  req.FileName,
			FileType:  req.FileType,
			FileSize:  req.FileSize,
			Creator:   creator,
		})
	})
}

func (s *service) ResolveLink(ctx context.Context, code string) (LinkRecord, error) {
	const op = "registry.service.ResolveLink"

	if code == "" {
		return LinkRecord{}, errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	rec, err := s.repo.ResolveLink(ctx, code)
	if err != nil {
		return LinkRecord{}, errx.E(op, errx.KindOf(err), err)
	}
	s.invalidate(ctx, NamespaceLink, code)
	return rec, nil
}

func (s *service) ResolveMedia(ctx context.Context, code string) (MediaRecord, error) {
	const op = "registry.service.ResolveMedia"

	if code == "" {
		return MediaRecord{}, errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	rec, err := s.repo.ResolveMedia(ctx, code)
	if err != nil {
		return MediaRecord{}, errx.E(op, errx.KindOf(err), err)
	}
	s.invalidate(ctx, NamespaceMedia, code)
	return rec, nil
}

func (s *service) PeekLink(ctx context.Context, code string) (LinkRecord, error) {
	const op = "registry.service.PeekLink"

	if code == "" {
		return LinkRecord{}, errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	if s.cache != nil {
		if rec, ok := s.cache.GetLink(ctx, code); ok {
			return rec, nil
		}
	}

	rec, err := s.repo.GetLink(ctx, code)
	if err != nil {
		return LinkRecord{}, errx.E(op, errx.KindOf(err), err)
	}
	if s.cache != nil {
		s.cache.SetLink(ctx, rec)
	}
	return rec, nil
}

func (s *service) PeekMedia(ctx context.Context, code string) (MediaRecord, error) {
	const op = "registry.service.PeekMedia"

	if code == "" {
		return MediaRecord{}, errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	if s.cache != nil {
		if rec, ok := s.cache.GetMedia(ctx, code); ok {
			return rec, nil
		}
	}

	rec, err := s.repo.GetMedia(ctx, code)
	if err != nil {
		return MediaRecord{}, errx.E(op, errx.KindOf(err), err)
	}
	if s.cache != nil {
		s.cache.SetMedia(ctx, rec)
	}
	return rec, nil
}

// ListLinksByOwner returns the owner's links, newest first. An empty owner
// selects the anonymous bucket.
func (s *service) ListLinksByOwner(ctx context.Context, owner string) ([]LinkRecord, error) {
	const op = "registry.service.ListLinksByOwner"

	records, err := s.repo.ListLinksByCreator(ctx, normalizeCreator(owner), s.ownerPageSize)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return records, nil
}

// ListMediaByOwner returns the owner's media records, newest first. An empty
// owner selects the anonymous bucket.
func (s *service) ListMediaByOwner(ctx context.Context, owner string) ([]MediaRecord, error) {
	const op = "registry.service.ListMediaByOwner"

	records, err := s.repo.ListMediaByCreator(ctx, normalizeCreator(owner), s.ownerPageSize)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return records, nil
}

// Exists reports whether a code is taken in the given namespace. Absence is
// false, never an error.
func (s *service) Exists(ctx context.Context, ns Namespace, code string) (bool, error) {
	const op = "registry.service.Exists"

	if code == "" {
		return false, nil
	}

	var (
		exists bool
		err    error
	)
	switch ns {
	case NamespaceLink:
		exists, err = s.repo.LinkExists(ctx, code)
	case NamespaceMedia:
		exists, err = s.repo.MediaExists(ctx, code)
	default:
		return false, errx.E(op, errx.Invalid, fmt.Errorf("unknown namespace %q", ns))
	}
	if err != nil {
		return false, errx.E(op, errx.KindOf(err), err)
	}
	return exists, nil
}

// TotalCount returns how many records were ever created in the namespace.
func (s *service) TotalCount(ctx context.Context, ns Namespace) (int64, error) {
	const op = "registry.service.TotalCount"

	stats, err := s.repo.Totals(ctx)
	if err != nil {
		return 0, errx.E(op, errx.KindOf(err), err)
	}

	switch ns {
	case NamespaceLink:
		return stats.TotalLinks, nil
	case NamespaceMedia:
		return stats.TotalMedia, nil
	default:
		return 0, errx.E(op, errx.Invalid, fmt.Errorf("unknown namespace %q", ns))
	}
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	const op = "registry.service.Stats"

	stats, err := s.repo.Totals(ctx)
	if err != nil {
		return Stats{}, errx.E(op, errx.KindOf(err), err)
	}
	return stats, nil
}

func (s *service) DeleteLink(ctx context.Context, code string) error {
	const op = "registry.service.DeleteLink"

	if code == "" {
		return errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	if err := s.repo.DeleteLink(ctx, code); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	s.invalidate(ctx, NamespaceLink, code)
	return nil
}

func (s *service) DeleteMedia(ctx context.Context, code string) error {
	const op = "registry.service.DeleteMedia"

	if code == "" {
		return errx.E(op, errx.Invalid, errors.New("code cannot be empty"))
	}

	if err := s.repo.DeleteMedia(ctx, code); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	s.invalidate(ctx, NamespaceMedia, code)
	return nil
}

func (s *service) invalidate(ctx context.Context, ns Namespace, code string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ns, code)
	}
}

// validateURL enforces presence and length only. URLs are otherwise opaque
// to the registry; anything the caller can later follow is acceptable.
func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return errors.New("url too long (max 2048 characters)")
	}
	return nil
}

func validateMedia(req CreateMediaRequest) error {
	if req.IPFSHash == "" {
		return errors.New("ipfs hash cannot be empty")
	}
	if req.FileName == "" {
		return errors.New("file name cannot be empty")
	}
	return nil
}

func normalizeCreator(creator string) string {
	if creator == "" {
		return AnonymousCreator
	}
	return creator
}
