package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/inkwelllabs/styleprofd/internal/generate"
	"github.com/inkwelllabs/styleprofd/internal/guidance"
	"github.com/inkwelllabs/styleprofd/internal/patterns"
)

// UploadRequest is the request body for POST /api/v1/uploads.
type UploadRequest struct {
	Name   string `json:"name"`
	Markup string `json:"markup"`
}

// UploadResponse is the response body for POST /api/v1/uploads.
type UploadResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name,omitempty"`
	Categories    map[string]int        `json:"categories"`
	Layouts       patterns.LayoutCounts `json:"layouts"`
	DocumentCount int                   `json:"document_count"`
}

// BatchFileResult reports the outcome of one file within a batch upload.
type BatchFileResult struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Categories map[string]int `json:"categories,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// BatchResponse is the response body for POST /api/v1/uploads/batch.
type BatchResponse struct {
	Files         []BatchFileResult `json:"files"`
	Accepted      int               `json:"accepted"`
	Failed        int               `json:"failed"`
	DocumentCount int               `json:"document_count"`
}

// SummaryResponse is the response body for GET /api/v1/patterns/summary.
type SummaryResponse struct {
	Count    int    `json:"count"`
	Guidance string `json:"guidance"`
}

// ResetResponse is the response body for DELETE /api/v1/patterns.
type ResetResponse struct {
	Status string `json:"status"`
}

// GenerateRequest is the request body for POST /api/v1/generate.
type GenerateRequest struct {
	Brief string `json:"brief"`
}

// GenerateResponse is the response body for POST /api/v1/generate.
type GenerateResponse struct {
	Output        string `json:"output"`
	DocumentCount int    `json:"document_count"`
}

// handleUpload extracts design attributes from one document and merges them
// into the aggregate profile.
func (s *Server) handleUpload(c echo.Context) error {
	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid upload request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Markup == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "markup field is required")
	}

	snap, err := patterns.Extract(req.Markup)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.store.Merge(c.Request().Context(), snap)

	s.logger.Debug("document analyzed",
		zap.String("name", req.Name),
		zap.Int("document_count", s.store.Count()),
	)

	return c.JSON(http.StatusOK, UploadResponse{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Categories:    categoryCounts(snap),
		Layouts:       snap.Layouts,
		DocumentCount: s.store.Count(),
	})
}

// handleUploadBatch accepts a multipart form and merges every readable file.
// A file that fails to read or decode is reported in the response and does
// not abort its siblings.
func (s *Server) handleUploadBatch(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		s.logger.Warn("invalid batch request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one file is required")
	}

	resp := BatchResponse{Files: make([]BatchFileResult, 0, len(files))}
	for _, fh := range files {
		result := BatchFileResult{ID: uuid.NewString(), Name: fh.Filename}

		markup, err := readFormFile(fh)
		if err != nil {
			result.Error = err.Error()
			resp.Files = append(resp.Files, result)
			resp.Failed++
			s.logger.Warn("batch file unreadable",
				zap.String("name", fh.Filename), zap.Error(err))
			continue
		}

		snap, err := patterns.Extract(markup)
		if err != nil {
			result.Error = err.Error()
			resp.Files = append(resp.Files, result)
			resp.Failed++
			s.logger.Warn("batch file rejected",
				zap.String("name", fh.Filename), zap.Error(err))
			continue
		}

		s.store.Merge(c.Request().Context(), snap)
		result.Categories = categoryCounts(snap)
		resp.Files = append(resp.Files, result)
		resp.Accepted++
	}

	resp.DocumentCount = s.store.Count()
	return c.JSON(http.StatusOK, resp)
}

// handlePatterns returns the full aggregate profile.
func (s *Server) handlePatterns(c echo.Context) error {
	p := s.store.Profile()
	return c.JSON(http.StatusOK, p)
}

// handleSummary returns the rendered guidance text.
func (s *Server) handleSummary(c echo.Context) error {
	p := s.store.Profile()
	return c.JSON(http.StatusOK, SummaryResponse{
		Count:    p.Count,
		Guidance: guidance.Render(p),
	})
}

// handleReset discards the accumulated profile.
func (s *Server) handleReset(c echo.Context) error {
	s.store.Reset()
	s.logger.Info("profile reset")
	return c.JSON(http.StatusOK, ResetResponse{Status: "reset"})
}

// handleGenerate builds the design-generation prompt from the live profile
// and forwards it to the configured LLM.
func (s *Server) handleGenerate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid generate request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	out, err := s.gen.Generate(c.Request().Context(), req.Brief)
	switch {
	case errors.Is(err, generate.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "generation LLM not configured")
	case errors.Is(err, generate.ErrEmptyBrief):
		return echo.NewHTTPError(http.StatusBadRequest, "brief field is required")
	case err != nil:
		s.logger.Error("generation failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "generation failed")
	}

	return c.JSON(http.StatusOK, GenerateResponse{
		Output:        out,
		DocumentCount: s.store.Count(),
	})
}

// categoryCounts summarizes a snapshot as token counts per non-empty category.
func categoryCounts(snap *patterns.Snapshot) map[string]int {
	counts := make(map[string]int)
	for cat, vals := range snap.Strings {
		if len(vals) > 0 {
			counts[string(cat)] = len(vals)
		}
	}
	for cat, vals := range snap.Numbers {
		if len(vals) > 0 {
			counts[string(cat)] = len(vals)
		}
	}
	return counts
}

func readFormFile(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
