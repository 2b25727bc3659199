package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"

	"github.com/siliconvoice/voice-upload/internal/config"
)

const (
	voiceUploadEndpoint = "/uploads/audio/voice"
	userAgent           = "voice-upload/1.0"

	// sniffLen matches the amount of data mimetype inspects by default.
	sniffLen = 3072
)

var (
	// ErrTimeout is returned when the call exceeds the client timeout or
	// the context deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrConnection is returned when the API host cannot be reached at all.
	ErrConnection = errors.New("cannot connect to server")
	// ErrDecodeResponse is returned when a 200 response is not a JSON object.
	ErrDecodeResponse = errors.New("failed to decode response")
)

// APIError is a non-200 answer from the API. Body is kept verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("siliconflow API error (status %d): %s", e.StatusCode, e.Body)
}

// VoiceCloner defines the interface for reference voice uploads
type VoiceCloner interface {
	UploadVoice(ctx context.Context, req *VoiceUploadRequest) (*VoiceUploadResponse, error)
}

// VoiceUploadRequest carries the multipart fields of one upload
type VoiceUploadRequest struct {
	APIKey     string
	Model      string
	CustomName string
	Text       string
	FileName   string
	Audio      io.Reader
}

// VoiceUploadResponse is the decoded 200 body. URI is nil when the API
// answered without a "uri" key.
type VoiceUploadResponse struct {
	URI *string `json:"uri"`
	Raw string  `json:"-"`
}

// HasURI reports whether the response carried a "uri" key.
func (r *VoiceUploadResponse) HasURI() bool {
	return r.URI != nil
}

// SiliconFlowClient implements VoiceCloner for the SiliconFlow API
type SiliconFlowClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewSiliconFlowClient creates a new SiliconFlow API client
func NewSiliconFlowClient(cfg *config.SiliconFlowConfig, logger *log.Logger) *SiliconFlowClient {
	return NewSiliconFlowClientWithHTTP(cfg, NewHTTPClient(cfg), logger)
}

// NewSiliconFlowClientWithHTTP creates a client around a caller-supplied
// http.Client.
func NewSiliconFlowClientWithHTTP(cfg *config.SiliconFlowConfig, httpClient *http.Client, logger *log.Logger) *SiliconFlowClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SiliconFlowClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// UploadVoice posts the reference audio and its metadata in a single
// multipart request. No retries are made.
func (c *SiliconFlowClient) UploadVoice(ctx context.Context, req *VoiceUploadRequest) (*VoiceUploadResponse, error) {
	body, contentType, err := buildVoiceForm(req)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + voiceUploadEndpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(req.APIKey))
	httpReq.Header.Set("User-Agent", userAgent)

	c.logger.Printf("[SiliconFlow API] → POST %s (%d bytes)", url, body.Len())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Printf("[SiliconFlow API] ✗ POST %s — request failed: %v", url, err)
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Printf("[SiliconFlow API] ✗ POST %s — failed to read response: %v", url, err)
		return nil, classifyTransportError(err)
	}

	c.logger.Printf("[SiliconFlow API] ← %d POST %s — %s", resp.StatusCode, url, string(respBody))

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	result := &VoiceUploadResponse{Raw: string(respBody)}
	if err := json.Unmarshal(respBody, result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return result, nil
}

// buildVoiceForm encodes the text fields and the audio part into a
// multipart body.
func buildVoiceForm(req *VoiceUploadRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := []struct{ name, value string }{
		{"model", strings.TrimSpace(req.Model)},
		{"customName", strings.TrimSpace(req.CustomName)},
		{"text", strings.TrimSpace(req.Text)},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	audio, partType, err := sniffAudio(req.Audio)
	if err != nil {
		return nil, "", err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(req.FileName)))
	header.Set("Content-Type", partType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, "", fmt.Errorf("failed to copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// sniffAudio detects the content type from the head of r and returns a
// reader that still yields the full stream.
func sniffAudio(r io.Reader) (io.Reader, string, error) {
	if r == nil {
		return nil, "", errors.New("audio reader is nil")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, "", fmt.Errorf("failed to read audio: %w", err)
	}
	head = head[:n]

	partType := "application/octet-stream"
	if n > 0 {
		partType = mimetype.Detect(head).String()
	}

	return io.MultiReader(bytes.NewReader(head), r), partType, nil
}

// classifyTransportError maps a failed round trip onto ErrTimeout or
// ErrConnection where possible. The original error stays in the chain.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		(errors.As(err, &opErr) && opErr.Op == "dial") {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	return fmt.Errorf("failed to send request: %w", err)
}
