package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nasirnaqash/web3-ls/internal/errx"
	"github.com/nasirnaqash/web3-ls/internal/httpx"
)

// HTTPCreateLinkRequest represents the JSON request body for registering a URL.
type HTTPCreateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
	Creator     string `json:"creator,omitempty"`
}

// HTTPCreateMediaRequest represents the JSON request body for registering a
// media reference.
type HTTPCreateMediaRequest struct {
	IPFSHash string `json:"ipfsHash"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
	Creator  string `json:"creator,omitempty"`
}

// LinkResponse represents the JSON rendering of a link record.
type LinkResponse struct {
	ShortCode   string `json:"shortCode"`
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
	Creator     string `json:"creator"`
	Clicks      int64  `json:"clicks"`
	CreatedAt   string `json:"createdAt"`
}

// MediaResponse represents the JSON rendering of a media record.
type MediaResponse struct {
	ShortCode string `json:"shortCode"`
	IPFSHash  string `json:"ipfsHash"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	FileSize  int64  `json:"fileSize"`
	ShortURL  string `json:"shortUrl"`
	Creator   string `json:"creator"`
	Views     int64  `json:"views"`
	CreatedAt string `json:"createdAt"`
}

// StatsResponse reports lifetime creation totals per namespace.
type StatsResponse struct {
	TotalLinks int64 `json:"totalLinks"`
	TotalMedia int64 `json:"totalMedia"`
}

// Handler provides HTTP handlers for the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
	baseURL string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
	BaseURL string // Base URL for constructing short URLs (e.g., "https://w3ls.io")
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service: cfg.Service,
		logger:  logger,
		baseURL: cfg.BaseURL,
	}
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// CreateLink handles POST requests to register a URL under a new short code.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[HTTPCreateLinkRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	rec, err := h.service.CreateLink(ctx, CreateLinkRequest{
		OriginalURL: req.OriginalURL,
		Creator:     req.Creator,
	})
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "link created",
		"short_code", rec.ShortCode,
		"creator", rec.Creator,
	)

	httpx.WriteJSON(w, http.StatusCreated, h.linkResponse(rec))
}

// CreateMedia handles POST requests to register a media reference under a
// new short code.
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[HTTPCreateMediaRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	rec, err := h.service.CreateMedia(ctx, CreateMediaRequest{
		IPFSHash: req.IPFSHash,
		FileName: req.FileName,
		FileType: req.FileType,
		FileSize: req.FileSize,
		Creator:  req.Creator,
	})
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "media created",
		"short_code", rec.ShortCode,
		"file_name", rec.FileName,
		"creator", rec.Creator,
	)

	httpx.WriteJSON(w, http.StatusCreated, h.mediaResponse(rec))
}

// ResolveLink handles GET requests on a link code: counts the hit and
// redirects to the original URL.
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	rec, err := h.service.ResolveLink(ctx, code)
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "link resolved",
		"short_code", code,
		"clicks", rec.Clicks,
		"referer", r.Referer(),
	)

	http.Redirect(w, r, rec.OriginalURL, http.StatusFound)
}

// ResolveMedia handles GET requests on a media code: counts the view and
// returns the full record so the client can fetch the content itself.
func (h *Handler) ResolveMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	rec, err := h.service.ResolveMedia(ctx, code)
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "media resolved",
		"short_code", code,
		"views", rec.Views,
	)

	httpx.WriteJSON(w, http.StatusOK, h.mediaResponse(rec))
}

// PeekLink handles GET requests for a link record without counting a click.
func (h *Handler) PeekLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	rec, err := h.service.PeekLink(ctx, r.PathValue("code"))
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.linkResponse(rec))
}

// PeekMedia handles GET requests for a media record without counting a view.
func (h *Handler) PeekMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	rec, err := h.service.PeekMedia(ctx, r.PathValue("code"))
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.mediaResponse(rec))
}

// ListLinks handles GET requests for an owner's links, newest first. Without
// a creator query parameter it lists the anonymous bucket.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	owner := r.URL.Query().Get("creator")

	records, err := h.service.ListLinksByOwner(ctx, owner)
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	resp := make([]LinkResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, h.linkResponse(rec))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ListMedia handles GET requests for an owner's media records, newest first.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	owner := r.URL.Query().Get("creator")

	records, err := h.service.ListMediaByOwner(ctx, owner)
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	resp := make([]MediaResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, h.mediaResponse(rec))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// LinkExists handles HEAD requests probing whether a link code is taken.
func (h *Handler) LinkExists(w http.ResponseWriter, r *http.Request) {
	h.exists(w, r, NamespaceLink)
}

// MediaExists handles HEAD requests probing whether a media code is taken.
func (h *Handler) MediaExists(w http.ResponseWriter, r *http.Request) {
	h.exists(w, r, NamespaceMedia)
}

func (h *Handler) exists(w http.ResponseWriter, r *http.Request, ns Namespace) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	exists, err := h.service.Exists(ctx, ns, r.PathValue("code"))
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteLink handles administrative DELETE requests for a link code. The
// lifetime creation total is unaffected.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	if err := h.service.DeleteLink(ctx, code); err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "link deleted", "short_code", code)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMedia handles administrative DELETE requests for a media code.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	if err := h.service.DeleteMedia(ctx, code); err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "media deleted", "short_code", code)
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET requests for the lifetime creation totals.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.respondServiceError(ctx, logger, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatsResponse{
		TotalLinks: stats.TotalLinks,
		TotalMedia: stats.TotalMedia,
	})
}

func (h *Handler) linkResponse(rec LinkRecord) LinkResponse {
	return LinkResponse{
		ShortCode:   rec.ShortCode,
		OriginalURL: rec.OriginalURL,
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, rec.ShortCode),
		Creator:     rec.Creator,
		Clicks:      rec.Clicks,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) mediaResponse(rec MediaRecord) MediaResponse {
	return MediaResponse{
		ShortCode: rec.ShortCode,
		IPFSHash:  rec.IPFSHash,
		FileName:  rec.FileName,
		FileType:  rec.FileType,
		FileSize:  rec.FileSize,
		ShortURL:  fmt.Sprintf("%s/m/%s", h.baseURL, rec.ShortCode),
		Creator:   rec.Creator,
		Views:     rec.Views,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// respondServiceError maps a service error onto the HTTP response and logs
// it at a severity matching its kind.
func (h *Handler) respondServiceError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		logger.WarnContext(ctx, "invalid request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", rootMessage(err), nil)

	case errx.NotFound:
		logger.WarnContext(ctx, "code not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"short code doesn't exist", nil)

	case errx.Conflict:
		logger.WarnContext(ctx, "code conflict", logAttrs...)
		httpx.WriteError(w, http.StatusConflict, "conflict",
			"short code is already taken", nil)

	case errx.Unavailable:
		logger.ErrorContext(ctx, "registry unavailable", logAttrs...)
		httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable",
			"Unable to serve this request right now. Please try again.", nil)

	default:
		logger.ErrorContext(ctx, "unexpected registry error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Something went wrong. Please try again.", nil)
	}
}

// rootMessage digs to the innermost cause so validation messages reach the
// caller without internal operation prefixes.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
