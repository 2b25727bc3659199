package logging_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siliconvoice/voice-upload/internal/config"
	"github.com/siliconvoice/voice-upload/internal/logging"
)

func TestNew_WritesToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &config.LogConfig{Dir: "/var/log/voice", File: "voice_upload.log"}

	logger, closer, err := logging.New(fs, cfg)
	require.NoError(t, err)

	logger.Printf("[Upload] hello %s", "world")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "/var/log/voice/voice_upload.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Logging initialized")
	assert.Contains(t, string(data), "[Upload] hello world")
}

func TestNew_Appends(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &config.LogConfig{Dir: "logs", File: "voice_upload.log"}
	require.NoError(t, afero.WriteFile(fs, "logs/voice_upload.log", []byte("previous run\n"), 0o644))

	logger, closer, err := logging.New(fs, cfg)
	require.NoError(t, err)
	logger.Print("next run")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "logs/voice_upload.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous run\n")
	assert.Contains(t, string(data), "next run")
}

func TestNew_ReadOnlyFs(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, _, err := logging.New(fs, &config.LogConfig{Dir: "logs", File: "x.log"})
	require.Error(t, err)
}
