// Package client talks to the image server: multipart uploads to the save
// endpoint and JSON listings from the list endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"

	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/pkg/types"

	"github.com/google/uuid"
)

// FormField is the multipart field the save endpoint reads the image from.
const FormField = "file"

// Client is an HTTP client for the image server.
type Client struct {
	http    *http.Client
	baseURL string
	saveURL string
	listURL string
}

// New creates a client for the server described by cfg.
func New(cfg *config.Config) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Server.Timeout})
}

// NewWithHTTPClient creates a client using hc for all requests.
func NewWithHTTPClient(cfg *config.Config, hc *http.Client) *Client {
	return &Client{
		http:    hc,
		baseURL: cfg.Server.BaseURL,
		saveURL: cfg.SaveURL(),
		listURL: cfg.ListURL(),
	}
}

// Save uploads file as multipart form data and decodes the acknowledgement.
func (c *Client) Save(ctx context.Context, file types.LocalImage) (Ack, error) {
	body, contentType, err := encodeForm(file)
	if err != nil {
		return Ack{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.saveURL, body)
	if err != nil {
		return Ack{}, errors.NewTransportError("cannot build upload request", c.saveURL, errors.ServerUnreachable, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req, "upload failed")
	if err != nil {
		return Ack{}, err
	}

	ack, err := ParseAck(data)
	if err != nil {
		return Ack{}, errors.NewTransportError("invalid upload response", c.saveURL, errors.DecodeFailed, err)
	}
	return ack, nil
}

// List fetches the remote image listing.
func (c *Client) List(ctx context.Context) ([]types.RemoteImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL, nil)
	if err != nil {
		return nil, errors.NewTransportError("cannot build list request", c.listURL, errors.ServerUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req, "list failed")
	if err != nil {
		return nil, err
	}

	var images []types.RemoteImage
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, errors.NewTransportError("invalid list response", c.listURL, errors.DecodeFailed, err)
	}
	if images == nil {
		images = []types.RemoteImage{}
	}
	return images, nil
}

// ResolveImageURL turns an entry path into something a viewer can load.
// Absolute URLs pass through; anything else is resolved against the base URL.
func (c *Client) ResolveImageURL(path string) string {
	return ResolveImageURL(c.baseURL, path)
}

// ResolveImageURL resolves path against base.
func ResolveImageURL(base, path string) string {
	ref, err := url.Parse(path)
	if err != nil || ref.IsAbs() {
		return path
	}
	b, err := url.Parse(base)
	if err != nil {
		return path
	}
	if !strings.HasPrefix(path, "/") && !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	return b.ResolveReference(ref).String()
}

func (c *Client) do(req *http.Request, msg string) ([]byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	logger := log.LogWithFields(
		log.F("method", req.Method),
		log.F("url", req.URL.String()),
		log.F("request_id", requestID),
	)
	logger.Debug("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.With(log.F("error", err)).Warn("request failed")
		return nil, errors.NewTransportError(msg, req.URL.String(), errors.ServerUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(msg, req.URL.String(), errors.ServerUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.With(log.F("status", resp.StatusCode)).Warn("server rejected request")
		var (
			cause  error
			detail string
		)
		if text := strings.TrimSpace(string(data)); text != "" {
			detail = truncate(text, 200)
			if ack, err := ParseAck(data); err == nil {
				detail = truncate(ack.String(), 200)
			}
			cause = errors.New(truncate(text, 200))
		}
		return nil, errors.NewTransportError(msg, req.URL.String(), errors.ServerUnreachable, cause).
			WithStatus(resp.StatusCode).
			WithDetail(detail)
	}

	logger.With(log.F("status", resp.StatusCode), log.F("bytes", len(data))).Debug("response received")
	return data, nil
}

// encodeForm builds the multipart body in memory; one image per request.
func encodeForm(file types.LocalImage) (io.Reader, string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		kind := errors.FileAccessDenied
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return nil, "", errors.NewFileError("cannot open image", file.Path, kind, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FormField, escapeQuotes(file.Name)))
	mediaType := file.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	h.Set("Content-Type", mediaType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", errors.Wrap(err, "cannot build upload form")
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", errors.NewFileError("cannot read image", file.Path, errors.FileAccessDenied, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "cannot build upload form")
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
