package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siliconvoice/voice-upload/internal/config"
	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/internal/model"
	"github.com/siliconvoice/voice-upload/internal/server"
	"github.com/siliconvoice/voice-upload/pkg/response"
)

type stubUploader struct{ calls int }

func (s *stubUploader) Upload(context.Context, *model.UploadRequest) *model.UploadResult {
	s.calls++
	return &model.UploadResult{Kind: model.KindValidation, Message: "stub"}
}

func (s *stubUploader) IsConfigured() bool { return true }

func newTestDeps(t *testing.T, uploader *stubUploader) *server.Deps {
	t.Helper()
	return &server.Deps{
		Config: &config.Config{
			SiliconFlow: config.SiliconFlowConfig{DefaultModel: model.DefaultVoiceModel},
			Upload:      config.UploadConfig{MaxSizeMB: 1, TempDir: "/tmp"},
		},
		Uploader: uploader,
		Fs:       afero.NewMemMapFs(),
		Metrics:  metrics.NewMetrics(),
	}
}

func TestNew_RejectsOversizedBody(t *testing.T) {
	uploader := &stubUploader{}
	app, err := server.New(*newTestDeps(t, uploader))
	require.NoError(t, err)

	body := bytes.Repeat([]byte("a"), 4*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/api/voices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var envelope response.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, response.CodePayloadTooLarge, envelope.Error.Code)
	assert.Equal(t, 0, uploader.calls)
}

func TestNew_Routes(t *testing.T) {
	uploader := &stubUploader{}
	app, err := server.New(*newTestDeps(t, uploader))
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/api/voices", http.StatusBadRequest},
		{http.MethodPost, "/api/credential/hint", http.StatusOK},
		{http.MethodGet, "/api/voices", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
	assert.Equal(t, 1, uploader.calls)
}

func TestNew_WithoutMetrics(t *testing.T) {
	deps := newTestDeps(t, &stubUploader{})
	deps.Metrics = nil

	app, err := server.New(*deps)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
