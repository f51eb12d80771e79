package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/inkwelllabs/styleprofd/internal/config"
	"github.com/inkwelllabs/styleprofd/internal/generate"
	"github.com/inkwelllabs/styleprofd/internal/patterns"
	"github.com/inkwelllabs/styleprofd/internal/profile"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	store := profile.NewStore(zap.NewNop())
	gen, err := generate.NewService(config.GenerationConfig{}, store, zap.NewNop())
	require.NoError(t, err)
	server, err := NewServer(store, gen, zap.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func TestNewServer(t *testing.T) {
	t.Run("creates server with valid config", func(t *testing.T) {
		store := profile.NewStore(zap.NewNop())
		cfg := &Config{Host: "localhost", Port: 8460}

		server, err := NewServer(store, nil, zap.NewNop(), cfg)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.echo)
		assert.Equal(t, cfg, server.config)
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		store := profile.NewStore(zap.NewNop())

		server, err := NewServer(store, nil, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", server.config.Host)
		assert.Equal(t, 8460, server.config.Port)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		store := profile.NewStore(zap.NewNop())
		_, err := NewServer(store, nil, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})

	t.Run("returns error when store is nil", func(t *testing.T) {
		_, err := NewServer(nil, nil, zap.NewNop(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "store cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func postUpload(t *testing.T, server *Server, body UploadRequest) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandleUpload(t *testing.T) {
	t.Run("extracts and merges a document", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postUpload(t, server, UploadRequest{
			Name:   "landing.html",
			Markup: `<style>.btn { color: #3B82F6; padding: 8px 16px }</style><button class="btn">Go</button>`,
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp UploadResponse
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "landing.html", resp.Name)
		assert.Equal(t, 1, resp.DocumentCount)
		assert.Equal(t, 1, resp.Categories["colors"])
		assert.Equal(t, 2, resp.Categories["spacing"])
		assert.Equal(t, 1, resp.Layouts.Buttons)

		assert.Equal(t, 1, server.store.Count())
	})

	t.Run("rejects missing markup", func(t *testing.T) {
		server := setupTestServer(t)

		rec := postUpload(t, server, UploadRequest{Name: "empty.html"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, server.store.Count())
	})

	t.Run("rejects invalid json body", func(t *testing.T) {
		server := setupTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", bytes.NewReader([]byte("{not json")))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleUploadBatch(t *testing.T) {
	t.Run("merges every readable file", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartBody(t, map[string]string{
			"a.html": `<style>.a { color: #111 }</style>`,
			"b.html": `<style>.b { color: #222 }</style>`,
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/batch", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Accepted)
		assert.Equal(t, 0, resp.Failed)
		assert.Equal(t, 2, resp.DocumentCount)
		assert.Len(t, resp.Files, 2)
	})

	t.Run("a bad file does not abort its siblings", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartBody(t, map[string]string{
			"good.html": `<style>.a { color: #111 }</style>`,
			"bad.html":  "<style>\xff\xfe</style>",
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/batch", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Accepted)
		assert.Equal(t, 1, resp.Failed)
		assert.Equal(t, 1, resp.DocumentCount)

		for _, f := range resp.Files {
			if f.Name == "bad.html" {
				assert.NotEmpty(t, f.Error)
			} else {
				assert.Empty(t, f.Error)
			}
		}
	})

	t.Run("rejects a batch with no files", func(t *testing.T) {
		server := setupTestServer(t)

		body, contentType := multipartBody(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/batch", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlePatterns(t *testing.T) {
	server := setupTestServer(t)

	rec := postUpload(t, server, UploadRequest{
		Name:   "a.html",
		Markup: `<style>.a { color: #3B82F6; font-size: 16px }</style>`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patterns", nil)
	rec = httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var p profile.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 1, p.Count)
	assert.Equal(t, []string{"#3B82F6"}, p.Strings[patterns.Colors])
	assert.Equal(t, []float64{16}, p.Numbers[patterns.FontSizes])
}

func TestHandleSummary(t *testing.T) {
	server := setupTestServer(t)

	rec := postUpload(t, server, UploadRequest{
		Name:   "a.html",
		Markup: `<style>.a { color: #3B82F6 }</style>`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patterns/summary", nil)
	rec = httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Contains(t, resp.Guidance, "#3B82F6")
}

func TestHandleReset(t *testing.T) {
	server := setupTestServer(t)

	rec := postUpload(t, server, UploadRequest{
		Name:   "a.html",
		Markup: `<style>.a { color: #3B82F6 }</style>`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, server.store.Count())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patterns", nil)
	rec = httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, server.store.Count())
}

// fakeModel satisfies llms.Model with a canned response.
type fakeModel struct {
	response string
	lastReq  string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.lastReq += text.Text
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.lastReq = prompt
	return f.response, nil
}

func TestHandleGenerate(t *testing.T) {
	t.Run("returns 503 when no LLM is configured", func(t *testing.T) {
		server := setupTestServer(t)

		raw, err := json.Marshal(GenerateRequest{Brief: "a pricing page"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("generates with the profile guidance", func(t *testing.T) {
		server := setupTestServer(t)
		fake := &fakeModel{response: "<html>generated</html>"}
		server.gen.SetModel(fake)

		rec := postUpload(t, server, UploadRequest{
			Name:   "a.html",
			Markup: `<style>.a { color: #3B82F6 }</style>`,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		raw, err := json.Marshal(GenerateRequest{Brief: "a pricing page"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec = httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp GenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "<html>generated</html>", resp.Output)
		assert.Equal(t, 1, resp.DocumentCount)

		assert.Contains(t, fake.lastReq, "a pricing page")
		assert.Contains(t, fake.lastReq, "#3B82F6")
	})

	t.Run("rejects an empty brief", func(t *testing.T) {
		server := setupTestServer(t)
		server.gen.SetModel(&fakeModel{response: "x"})

		raw, err := json.Marshal(GenerateRequest{Brief: "  "})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
