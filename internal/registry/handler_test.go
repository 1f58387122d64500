package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nasirnaqash/web3-ls/internal/errx"
	"github.com/nasirnaqash/web3-ls/internal/httpx"
)

/***************
 * Mocks
 ***************/

// mockService implements the Service interface for handler testing.
type mockService struct {
	createLinkFunc   func(ctx context.Context, req CreateLinkRequest) (LinkRecord, error)
	createMediaFunc  func(ctx context.Context, req CreateMediaRequest) (MediaRecord, error)
	resolveLinkFunc  func(ctx context.Context, code string) (LinkRecord, error)
	resolveMediaFunc func(ctx context.Context, code string) (MediaRecord, error)
	peekLinkFunc     func(ctx context.Context, code string) (LinkRecord, error)
	peekMediaFunc    func(ctx context.Context, code string) (MediaRecord, error)
	listLinksFunc    func(ctx context.Context, owner string) ([]LinkRecord, error)
	listMediaFunc    func(ctx context.Context, owner string) ([]MediaRecord, error)
	existsFunc       func(ctx context.Context, ns Namespace, code string) (bool, error)
	totalCountFunc   func(ctx context.Context, ns Namespace) (int64, error)
	statsFunc        func(ctx context.Context) (Stats, error)
	deleteLinkFunc   func(ctx context.Context, code string) error
	deleteMediaFunc  func(ctx context.Context, code string) error
}

func (m *mockService) CreateLink(ctx context.Context, req CreateLinkRequest) (LinkRecord, error) {
	if m.createLinkFunc != nil {
		return m.createLinkFunc(ctx, req)
	}
	return LinkRecord{}, nil
}

func (m *mockService) CreateMedia(ctx context.Context, req CreateMediaRequest) (MediaRecord, error) {
	if m.createMediaFunc != nil {
		return m.createMediaFunc(ctx, req)
	}
	return MediaRecord{}, nil
}

func (m *mockService) ResolveLink(ctx context.Context, code string) (LinkRecord, error) {
	if m.resolveLinkFunc != nil {
		return m.resolveLinkFunc(ctx, code)
	}
	return LinkRecord{}, errx.E("service.ResolveLink", errx.NotFound, errors.New("not found"))
}

func (m *mockService) ResolveMedia(ctx context.Context, code string) (MediaRecord, error) {
	if m.resolveMediaFunc != nil {
		return m.resolveMediaFunc(ctx, code)
	}
	return MediaRecord{}, errx.E("service.ResolveMedia", errx.NotFound, errors.New("not found"))
}

func (m *mockService) PeekLink(ctx context.Context, code string) (LinkRecord, error) {
	if m.peekLinkFunc != nil {
		return m.peekLinkFunc(ctx, code)
	}
	return LinkRecord{}, errx.E("service.PeekLink", errx.NotFound, errors.New("not found"))
}

func (m *mockService) PeekMedia(ctx context.Context, code string) (MediaRecord, error) {
	if m.peekMediaFunc != nil {
		return m.peekMediaFunc(ctx, code)
	}
	return MediaRecord{}, errx.E("service.PeekMedia", errx.NotFound, errors.New("not found"))
}

func (m *mockService) ListLinksByOwner(ctx context.Context, owner string) ([]LinkRecord, error) {
	if m.listLinksFunc != nil {
		return m.listLinksFunc(ctx, owner)
	}
	return nil, nil
}

func (m *mockService) ListMediaByOwner(ctx context.Context, owner string) ([]MediaRecord, error) {
	if m.listMediaFunc != nil {
		return m.listMediaFunc(ctx, owner)
	}
	return nil, nil
}

func (m *mockService) Exists(ctx context.Context, ns Namespace, code string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, ns, code)
	}
	return false, nil
}

func (m *mockService) TotalCount(ctx context.Context, ns Namespace) (int64, error) {
	if m.totalCountFunc != nil {
		return m.totalCountFunc(ctx, ns)
	}
	return 0, nil
}

func (m *mockService) Stats(ctx context.Context) (Stats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return Stats{}, nil
}

func (m *mockService) DeleteLink(ctx context.Context, code string) error {
	if m.deleteLinkFunc != nil {
		return m.deleteLinkFunc(ctx, code)
	}
	return nil
}

func (m *mockService) DeleteMedia(ctx context.Context, code string) error {
	if m.deleteMediaFunc != nil {
		return m.deleteMediaFunc(ctx, code)
	}
	return nil
}

/***************
 * Helpers
 ***************/

func newTestHandler(svc Service) *Handler {
	return NewHandler(HandlerConfig{
		Service: svc,
		BaseURL: "https://w3ls.io",
	})
}

func decodeErrorResponse(t *testing.T, rr *httptest.ResponseRecorder) httpx.ErrorResponse {
	t.Helper()
	var resp httpx.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

/***************
 * Create Tests
 ***************/

func TestHandlerCreateLink(t *testing.T) {
	t.Run("returns 201 with the wire representation", func(t *testing.T) {
		created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		svc := &mockService{
			createLinkFunc: func(ctx context.Context, req CreateLinkRequest) (LinkRecord, error) {
				if req.OriginalURL != "https://example.com" {
					t.Errorf("OriginalURL = %q, want %q", req.OriginalURL, "https://example.com")
				}
				if req.Creator != "0xABC" {
					t.Errorf("Creator = %q, want %q", req.Creator, "0xABC")
				}
				return LinkRecord{
					ShortCode:   "Ab3xYz",
					OriginalURL: req.OriginalURL,
					Creator:     req.Creator,
					Clicks:      0,
					CreatedAt:   created,
				}, nil
			},
		}

		h := newTestHandler(svc)

		body := `{"originalUrl": "https://example.com", "creator": "0xABC"}`
		req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.CreateLink(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
		}

		var resp map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		for _, field := range []string{"shortCode", "originalUrl", "shortUrl", "creator", "clicks", "createdAt"} {
			if _, ok := resp[field]; !ok {
				t.Errorf("response missing field %q", field)
			}
		}
		if resp["shortCode"] != "Ab3xYz" {
			t.Errorf("shortCode = %v, want %q", resp["shortCode"], "Ab3xYz")
		}
		if resp["shortUrl"] != "https://w3ls.io/Ab3xYz" {
			t.Errorf("shortUrl = %v, want %q", resp["shortUrl"], "https://w3ls.io/Ab3xYz")
		}
		if resp["createdAt"] != "2025-06-01T12:30:00Z" {
			t.Errorf("createdAt = %v, want %q", resp["createdAt"], "2025-06-01T12:30:00Z")
		}
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		h := newTestHandler(&mockService{})

		req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(`{not json`))
		rr := httptest.NewRecorder()

		h.CreateLink(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
		}
		resp := decodeErrorResponse(t, rr)
		if resp.Error != "invalid_request" {
			t.Errorf("error = %q, want %q", resp.Error, "invalid_request")
		}
	})

	t.Run("returns 400 with the validation message", func(t *testing.T) {
		svc := &mockService{
			createLinkFunc: func(ctx context.Context, req CreateLinkRequest) (LinkRecord, error) {
				return LinkRecord{}, errx.E("registry.service.CreateLink", errx.Invalid,
					errors.New("url cannot be empty"))
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(`{"originalUrl": ""}`))
		rr := httptest.NewRecorder()

		h.CreateLink(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
		}
		resp := decodeErrorResponse(t, rr)
		if resp.Error != "invalid_input" {
			t.Errorf("error = %q, want %q", resp.Error, "invalid_input")
		}
		if resp.Message != "url cannot be empty" {
			t.Errorf("message = %q, want the bare validation message", resp.Message)
		}
	})

	t.Run("returns 503 when the registry is unavailable", func(t *testing.T) {
		svc := &mockService{
			createLinkFunc: func(ctx context.Context, req CreateLinkRequest) (LinkRecord, error) {
				return LinkRecord{}, errx.E("registry.service.CreateLink", errx.Unavailable,
					errors.New("code space exhausted after 20 attempts"))
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(`{"originalUrl": "https://example.com"}`))
		rr := httptest.NewRecorder()

		h.CreateLink(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
		}
		resp := decodeErrorResponse(t, rr)
		if resp.Error != "unavailable" {
			t.Errorf("error = %q, want %q", resp.Error, "unavailable")
		}
	})
}

func TestHandlerCreateMedia(t *testing.T) {
	t.Run("returns 201 with the wire representation", func(t *testing.T) {
		created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		svc := &mockService{
			createMediaFunc: func(ctx context.Context, req CreateMediaRequest) (MediaRecord, error) {
				return MediaRecord{
					ShortCode: "mMn456",
					IPFSHash:  req.IPFSHash,
					FileName:  req.FileName,
					FileType:  req.FileType,
					FileSize:  req.FileSize,
					Creator:   "anonymous",
					Views:     0,
					CreatedAt: created,
				}, nil
			},
		}

		h := newTestHandler(svc)

		body := `{"ipfsHash": "QmHash", "fileName": "sunset.png", "fileType": "image/png", "fileSize": 204800}`
		req := httptest.NewRequest(http.MethodPost, "/api/media", strings.NewReader(body))
		rr := httptest.NewRecorder()

		h.CreateMedia(rr, req)

		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
		}

		var resp map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		for _, field := range []string{"shortCode", "ipfsHash", "fileName", "fileType", "fileSize", "shortUrl", "creator", "views", "createdAt"} {
			if _, ok := resp[field]; !ok {
				t.Errorf("response missing field %q", field)
			}
		}
		if resp["shortUrl"] != "https://w3ls.io/m/mMn456" {
			t.Errorf("shortUrl = %v, want %q", resp["shortUrl"], "https://w3ls.io/m/mMn456")
		}
	})

	t.Run("returns 400 with the validation message", func(t *testing.T) {
		svc := &mockService{
			createMediaFunc: func(ctx context.Context, req CreateMediaRequest) (MediaRecord, error) {
				return MediaRecord{}, errx.E("registry.service.CreateMedia", errx.Invalid,
					errors.New("ipfs hash cannot be empty"))
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/media", strings.NewReader(`{"fileName": "a.png"}`))
		rr := httptest.NewRecorder()

		h.CreateMedia(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
		}
		resp := decodeErrorResponse(t, rr)
		if resp.Message != "ipfs hash cannot be empty" {
			t.Errorf("message = %q, want the bare validation message", resp.Message)
		}
	})
}

/***************
 * Resolve Tests
 ***************/

func TestHandlerResolveLink(t *testing.T) {
	t.Run("redirects to the original URL", func(t *testing.T) {
		svc := &mockService{
			resolveLinkFunc: func(ctx context.Context, code string) (LinkRecord, error) {
				if code != "Ab3xYz" {
					t.Errorf("code = %q, want %q", code, "Ab3xYz")
				}
				return LinkRecord{
					ShortCode:   code,
					OriginalURL: "https://example.com/path?q=1",
					Clicks:      1,
					CreatedAt:   time.Now(),
				}, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/Ab3xYz", nil)
		req.SetPathValue("code", "Ab3xYz")
		rr := httptest.NewRecorder()

		h.ResolveLink(rr, req)

		if rr.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
		}
		if loc := rr.Header().Get("Location"); loc != "https://example.com/path?q=1" {
			t.Errorf("Location = %q, want %q", loc, "https://example.com/path?q=1")
		}
	})

	t.Run("returns 404 for a missing code", func(t *testing.T) {
		h := newTestHandler(&mockService{})

		req := httptest.NewRequest(http.MethodGet, "/missin", nil)
		req.SetPathValue("code", "missin")
		rr := httptest.NewRecorder()

		h.ResolveLink(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
		}
		resp := decodeErrorResponse(t, rr)
		if resp.Error != "not_found" {
			t.Errorf("error = %q, want %q", resp.Error, "not_found")
		}
		if resp.Message != "short code doesn't exist" {
			t.Errorf("message = %q, want %q", resp.Message, "short code doesn't exist")
		}
	})
}

func TestHandlerResolveMedia(t *testing.T) {
	t.Run("returns the record as JSON", func(t *testing.T) {
		svc := &mockService{
			resolveMediaFunc: func(ctx context.Context, code string) (MediaRecord, error) {
				return MediaRecord{
					ShortCode: code,
					IPFSHash:  "QmHash",
					FileName:  "sunset.png",
					Views:     5,
					CreatedAt: time.Now(),
				}, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/m/mMn456", nil)
		req.SetPathValue("code", "mMn456")
		rr := httptest.NewRecorder()

		h.ResolveMedia(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var resp MediaResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Views != 5 {
			t.Errorf("views = %d, want 5", resp.Views)
		}
		if resp.IPFSHash != "QmHash" {
			t.Errorf("ipfsHash = %q, want %q", resp.IPFSHash, "QmHash")
		}
	})
}

/***************
 * Peek Tests
 ***************/

func TestHandlerPeekLink(t *testing.T) {
	t.Run("returns the record without redirecting", func(t *testing.T) {
		resolveCalled := false
		svc := &mockService{
			peekLinkFunc: func(ctx context.Context, code string) (LinkRecord, error) {
				return LinkRecord{
					ShortCode:   code,
					OriginalURL: "https://example.com",
					Clicks:      7,
					CreatedAt:   time.Now(),
				}, nil
			},
			resolveLinkFunc: func(ctx context.Context, code string) (LinkRecord, error) {
				resolveCalled = true
				return LinkRecord{}, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/links/Ab3xYz", nil)
		req.SetPathValue("code", "Ab3xYz")
		rr := httptest.NewRecorder()

		h.PeekLink(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if resolveCalled {
			t.Error("peek went through the counting resolve")
		}

		var resp LinkResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Clicks != 7 {
			t.Errorf("clicks = %d, want 7", resp.Clicks)
		}
	})
}

/***************
 * List Tests
 ***************/

func TestHandlerListLinks(t *testing.T) {
	t.Run("passes the creator query through", func(t *testing.T) {
		var gotOwner string
		svc := &mockService{
			listLinksFunc: func(ctx context.Context, owner string) ([]LinkRecord, error) {
				gotOwner = owner
				return []LinkRecord{
					{ShortCode: "newer1", OriginalURL: "https://example.com/2", CreatedAt: time.Now()},
					{ShortCode: "older1", OriginalURL: "https://example.com/1", CreatedAt: time.Now().Add(-time.Hour)},
				}, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/links?creator=0xABC", nil)
		rr := httptest.NewRecorder()

		h.ListLinks(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if gotOwner != "0xABC" {
			t.Errorf("owner = %q, want %q", gotOwner, "0xABC")
		}

		var resp []LinkResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp) != 2 {
			t.Fatalf("len(resp) = %d, want 2", len(resp))
		}
		if resp[0].ShortCode != "newer1" {
			t.Errorf("first record = %q, want %q", resp[0].ShortCode, "newer1")
		}
	})

	t.Run("renders an empty list as an empty array", func(t *testing.T) {
		h := newTestHandler(&mockService{})

		req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
		rr := httptest.NewRecorder()

		h.ListLinks(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
			t.Errorf("body = %q, want %q", body, "[]")
		}
	})
}

func TestHandlerListMedia(t *testing.T) {
	t.Run("returns the owner's media records", func(t *testing.T) {
		svc := &mockService{
			listMediaFunc: func(ctx context.Context, owner string) ([]MediaRecord, error) {
				return []MediaRecord{
					{ShortCode: "mMn456", IPFSHash: "QmHash", FileName: "a.png", CreatedAt: time.Now()},
				}, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/media?creator=0xABC", nil)
		rr := httptest.NewRecorder()

		h.ListMedia(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var resp []MediaResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp) != 1 {
			t.Fatalf("len(resp) = %d, want 1", len(resp))
		}
	})
}

/***************
 * Exists Tests
 ***************/

func TestHandlerExists(t *testing.T) {
	t.Run("returns 200 with no body when the code is taken", func(t *testing.T) {
		svc := &mockService{
			existsFunc: func(ctx context.Context, ns Namespace, code string) (bool, error) {
				if ns != NamespaceLink {
					t.Errorf("namespace = %q, want %q", ns, NamespaceLink)
				}
				return true, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodHead, "/api/links/Ab3xYz", nil)
		req.SetPathValue("code", "Ab3xYz")
		rr := httptest.NewRecorder()

		h.LinkExists(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}
		if rr.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rr.Body.String())
		}
	})

	t.Run("returns 404 with no body when the code is free", func(t *testing.T) {
		h := newTestHandler(&mockService{})

		req := httptest.NewRequest(http.MethodHead, "/api/links/free12", nil)
		req.SetPathValue("code", "free12")
		rr := httptest.NewRecorder()

		h.LinkExists(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
		}
		if rr.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", rr.Body.String())
		}
	})

	t.Run("probes the media namespace", func(t *testing.T) {
		var gotNS Namespace
		svc := &mockService{
			existsFunc: func(ctx context.Context, ns Namespace, code string) (bool, error) {
				gotNS = ns
				return true, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodHead, "/api/media/mMn456", nil)
		req.SetPathValue("code", "mMn456")
		rr := httptest.NewRecorder()

		h.MediaExists(rr, req)

		if gotNS != NamespaceMedia {
			t.Errorf("namespace = %q, want %q", gotNS, NamespaceMedia)
		}
	})
}

/***************
 * Delete Tests
 ***************/

func TestHandlerDeleteLink(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var gotCode string
		svc := &mockService{
			deleteLinkFunc: func(ctx context.Context, code string) error {
				gotCode = code
				return nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodDelete, "/api/links/Ab3xYz", nil)
		req.SetPathValue("code", "Ab3xYz")
		rr := httptest.NewRecorder()

		h.DeleteLink(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
		}
		if gotCode != "Ab3xYz" {
			t.Errorf("code = %q, want %q", gotCode, "Ab3xYz")
		}
	})

	t.Run("returns 404 for a missing code", func(t *testing.T) {
		svc := &mockService{
			deleteLinkFunc: func(ctx context.Context, code string) error {
				return errx.E("registry.service.DeleteLink", errx.NotFound, errors.New("no record with this code"))
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodDelete, "/api/links/missin", nil)
		req.SetPathValue("code", "missin")
		rr := httptest.NewRecorder()

		h.DeleteLink(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
		}
	})
}

/***************
 * Stats Tests
 ***************/

func TestHandlerStats(t *testing.T) {
	t.Run("returns both namespace totals", func(t *testing.T) {
		svc := &mockService{
			statsFunc: func(ctx context.Context) (Stats, error) {
				return Stats{TotalLinks: 42, TotalMedia: 17}, nil
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rr := httptest.NewRecorder()

		h.Stats(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
		}

		var resp map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["totalLinks"] != float64(42) {
			t.Errorf("totalLinks = %v, want 42", resp["totalLinks"])
		}
		if resp["totalMedia"] != float64(17) {
			t.Errorf("totalMedia = %v, want 17", resp["totalMedia"])
		}
	})

	t.Run("returns 503 when totals are unavailable", func(t *testing.T) {
		svc := &mockService{
			statsFunc: func(ctx context.Context) (Stats, error) {
				return Stats{}, errx.E("registry.service.Stats", errx.Unavailable, errors.New("db down"))
			},
		}

		h := newTestHandler(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rr := httptest.NewRecorder()

		h.Stats(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
		}
	})
}

/***************
 * Error rendering
 ***************/

func TestRootMessage(t *testing.T) {
	t.Run("returns the innermost message", func(t *testing.T) {
		inner := errors.New("url cannot be empty")
		wrapped := errx.E("registry.service.CreateLink", errx.Invalid, inner)

		if got := rootMessage(wrapped); got != "url cannot be empty" {
			t.Errorf("rootMessage() = %q, want %q", got, "url cannot be empty")
		}
	})

	t.Run("returns the message of an unwrapped error", func(t *testing.T) {
		err := errors.New("plain")
		if got := rootMessage(err); got != "plain" {
			t.Errorf("rootMessage() = %q, want %q", got, "plain")
		}
	})
}
