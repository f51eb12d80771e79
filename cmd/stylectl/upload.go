package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// uploadCmd uploads one or more HTML documents for analysis
var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload HTML documents for design-pattern analysis",
	Long: `Upload one or more HTML documents to the styleprofd server. The server
extracts design attributes from each document and merges them into the
aggregate profile.

A single file is sent as JSON; multiple files are sent as one multipart batch.

Examples:
  # Upload a single file
  stylectl upload index.html

  # Upload from stdin
  cat page.html | stylectl upload -

  # Upload a batch
  stylectl upload pages/*.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

// UploadRequest matches internal/http/handlers.go UploadRequest
type UploadRequest struct {
	Name   string `json:"name"`
	Markup string `json:"markup"`
}

// UploadResponse matches internal/http/handlers.go UploadResponse
type UploadResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Categories    map[string]int `json:"categories"`
	DocumentCount int            `json:"document_count"`
}

// BatchFileResult matches internal/http/handlers.go BatchFileResult
type BatchFileResult struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Categories map[string]int `json:"categories,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// BatchResponse matches internal/http/handlers.go BatchResponse
type BatchResponse struct {
	Files         []BatchFileResult `json:"files"`
	Accepted      int               `json:"accepted"`
	Failed        int               `json:"failed"`
	DocumentCount int               `json:"document_count"`
}

// runUpload handles the upload command
func runUpload(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return uploadSingle(args[0])
	}
	return uploadBatch(args)
}

// uploadSingle sends one document as JSON.
func uploadSingle(path string) error {
	var content []byte
	var err error
	name := filepath.Base(path)

	if path == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		name = "stdin"
	} else {
		content, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}

	if len(content) == 0 {
		return fmt.Errorf("no content to upload")
	}

	var resp UploadResponse
	if err := postJSON("/api/v1/uploads", UploadRequest{Name: name, Markup: string(content)}, &resp); err != nil {
		return err
	}

	fmt.Printf("Analyzed %s (documents so far: %d)\n", name, resp.DocumentCount)
	printCategories(resp.Categories)
	return nil
}

// uploadBatch sends multiple documents as a multipart form.
func uploadBatch(paths []string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		part, err := w.CreateFormFile("files", filepath.Base(path))
		if err != nil {
			return fmt.Errorf("failed to build multipart form: %w", err)
		}
		if _, err := part.Write(content); err != nil {
			return fmt.Errorf("failed to build multipart form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/uploads/batch", serverURL)
	httpReq, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	client := &http.Client{
		Timeout: 120 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var batchResp BatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	for _, f := range batchResp.Files {
		if f.Error != "" {
			fmt.Fprintf(os.Stderr, "  FAIL %s: %s\n", f.Name, f.Error)
			continue
		}
		fmt.Printf("  ok   %s\n", f.Name)
	}
	fmt.Printf("Accepted %d, failed %d (documents so far: %d)\n",
		batchResp.Accepted, batchResp.Failed, batchResp.DocumentCount)

	if batchResp.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", batchResp.Failed)
	}
	return nil
}

// printCategories lists per-category token counts in stable order.
func printCategories(counts map[string]int) {
	if len(counts) == 0 {
		fmt.Println("  no design attributes found")
		return
	}
	cats := make([]string, 0, len(counts))
	for cat := range counts {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fmt.Printf("  %s: %d\n", cat, counts[cat])
	}
}
