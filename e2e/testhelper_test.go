package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"

	"github.com/siliconvoice/voice-upload/internal/client"
	"github.com/siliconvoice/voice-upload/internal/config"
	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/internal/server"
	"github.com/siliconvoice/voice-upload/internal/service"
)

const testAPIKey = "sk-e2e-0123456789abcdef"

// testApp holds all components needed for testing
type testApp struct {
	app     *fiber.App
	fs      afero.Fs
	remote  *httptest.Server
	hits    *atomic.Int32
	metrics *metrics.Metrics
}

// setupApp creates the Fiber app exactly as main.go does, with the
// SiliconFlow API replaced by remote and the disk by an in-memory fs.
func setupApp(t *testing.T, remote http.HandlerFunc) *testApp {
	t.Helper()

	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		remote(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "7860", LogLevel: "info"},
		SiliconFlow: config.SiliconFlowConfig{
			BaseURL:      srv.URL,
			Timeout:      5,
			BypassProxy:  true,
			DefaultModel: "FunAudioLLM/CosyVoice2-0.5B",
		},
		Upload: config.UploadConfig{MaxSizeMB: 50, TempDir: "/tmp/voice-upload"},
	}

	fs := afero.NewMemMapFs()
	m := metrics.NewMetrics()

	sfClient := client.NewSiliconFlowClient(&cfg.SiliconFlow, nil)
	uploadService := service.NewUploadService(sfClient, fs, cfg, nil, m)

	app, err := server.New(server.Deps{
		Config:   cfg,
		Uploader: uploadService,
		Fs:       fs,
		Metrics:  m,
	})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	return &testApp{app: app, fs: fs, remote: srv, hits: hits, metrics: m}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// newVoiceRequest builds the multipart form the page submits. A nil audio
// leaves out the file part.
func newVoiceRequest(t *testing.T, fields map[string]string, fileName string, audio []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if audio != nil {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		_, _ = part.Write(audio)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, "/api/voices", &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"apiKey":     testAPIKey,
		"model":      "FunAudioLLM/CosyVoice2-0.5B",
		"customName": "narrator",
		"text":       "The quick brown fox jumps over the lazy dog.",
	}
}

// fakeWAV is a minimal WAV header followed by silence.
func fakeWAV() []byte {
	return append([]byte("RIFF\x24\x08\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00"), make([]byte, 1024)...)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// okRemote answers every upload with the given status and body.
func okRemote(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}
