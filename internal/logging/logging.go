package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/siliconvoice/voice-upload/internal/config"
)

// New returns a logger writing to stderr and to the configured log file.
// The returned closer releases the file; it is safe to call once the
// server has stopped.
func New(fs afero.Fs, cfg *config.LogConfig) (*log.Logger, io.Closer, error) {
	if err := fs.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir %s: %w", cfg.Dir, err)
	}

	path := filepath.Join(cfg.Dir, cfg.File)
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logger := log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
	logger.Printf("Logging initialized: %s", path)

	return logger, f, nil
}
