package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDisabled is returned when no upload preset is configured.
var ErrDisabled = errors.New("photo uploads are disabled: set upload_preset")

// Uploader posts photos to an unsigned upload endpoint that answers with
// {"secure_url": "..."}.
type Uploader struct {
	endpoint string
	preset   string
	http     *http.Client
	logger   *slog.Logger
}

// New builds an Uploader. An empty preset yields an Uploader whose uploads
// fail with ErrDisabled.
func New(endpoint, preset string, timeout time.Duration, logger *slog.Logger) *Uploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		endpoint: strings.TrimSpace(endpoint),
		preset:   strings.TrimSpace(preset),
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Enabled reports whether uploads are configured.
func (u *Uploader) Enabled() bool {
	return u != nil && u.endpoint != "" && u.preset != ""
}

// UploadFile processes the photo at path and uploads it.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer func() { _ = f.Close() }()

	photo, err := Process(f)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".jpg"
	return u.Upload(ctx, name, photo)
}

// Upload sends photo as the multipart "file" field and returns the hosted
// URL.
func (u *Uploader) Upload(ctx context.Context, name string, photo *Photo) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := mw.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("write preset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("upload photo: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var payload struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.SecureURL == "" {
		return "", errors.New("upload response missing secure_url")
	}
	u.logger.Info("photo uploaded", "request_id", requestID, "bytes", len(photo.Data), "url", payload.SecureURL)
	return payload.SecureURL, nil
}
