package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// UploadResult is the backend's acknowledgement of a stored document.
type UploadResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// uploadPath returns the upload endpoint for the file type. The pdf
// namespace predates the csv one and lives at the legacy root path.
func uploadPath(fileType string) string {
	if fileType == "csv" {
		return "/api/csv/upload"
	}
	return "/api/upload"
}

// Upload stores one document on the backend via multipart form data.
func (c *Client) Upload(ctx context.Context, fileType, filename string, r io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("client: create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("client: buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("client: finalize form: %w", err)
	}

	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath(fileType), &buf)
	if err != nil {
		return UploadResult{}, fmt.Errorf("client: create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("client: upload failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	var result UploadResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("client: decode upload response: %w", err)
	}
	return result, nil
}

// ListFiles returns the filenames stored under the given namespace. The
// backend has answered both as a bare array and as a wrapped object over
// its lifetime, so both shapes are accepted.
func (c *Client) ListFiles(ctx context.Context, fileType string) ([]string, error) {
	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/%s/list", c.baseURL, fileType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("client: create list request: %w", err)
	}

	res, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("client: list request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("client: read list response: %w", err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, nil
	}

	var wrapped map[string][]string
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("client: decode list response: %w", err)
	}
	if files, ok := wrapped[fileType+"s"]; ok {
		return files, nil
	}
	if files, ok := wrapped["files"]; ok {
		return files, nil
	}
	return nil, fmt.Errorf("client: unrecognized list response shape for %s", fileType)
}

// DeleteFile removes one stored document.
func (c *Client) DeleteFile(ctx context.Context, fileType, filename string) error {
	ctx, cancel := c.boundedContext(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/%s/delete?filename=%s", c.baseURL, fileType, url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("client: create delete request: %w", err)
	}

	res, err := c.do(req)
	if err != nil {
		return fmt.Errorf("client: delete request failed: %w", err)
	}
	_ = res.Body.Close()
	return nil
}
