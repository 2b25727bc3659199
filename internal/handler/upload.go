package handler

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/siliconvoice/voice-upload/internal/model"
	"github.com/siliconvoice/voice-upload/internal/service"
	"github.com/siliconvoice/voice-upload/pkg/response"
)

const fallbackAudioName = "reference-audio"

type UploadHandler struct {
	service service.VoiceUploader
	fs      afero.Fs
	tempDir string
	logger  *log.Logger
}

func NewUploadHandler(svc service.VoiceUploader, fs afero.Fs, tempDir string, logger *log.Logger) *UploadHandler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &UploadHandler{
		service: svc,
		fs:      fs,
		tempDir: tempDir,
		logger:  logger,
	}
}

// Voice handles POST /api/voices
func (h *UploadHandler) Voice(c *fiber.Ctx) error {
	req := model.UploadRequest{
		Credential:    c.FormValue("apiKey"),
		AudioFilePath: c.FormValue("audioPath"),
		Model:         c.FormValue("model"),
		VoiceName:     c.FormValue("customName"),
		Transcript:    c.FormValue("text"),
	}

	// An uploaded file wins over a typed path
	if file, err := c.FormFile("file"); err == nil {
		path, cleanup, err := h.stage(file)
		if err != nil {
			h.logger.Printf("[Upload] failed to stage %s: %v", file.Filename, err)
			return response.ServiceError(c, "Failed to store uploaded file")
		}
		defer cleanup()
		req.AudioFilePath = path
	}

	result := h.service.Upload(c.UserContext(), &req)
	return response.UploadResult(c, result)
}

// stage copies an uploaded part to its own directory under tempDir so the
// upload keeps its original base name. cleanup removes the directory.
func (h *UploadHandler) stage(file *multipart.FileHeader) (string, func(), error) {
	dir := filepath.Join(h.tempDir, uuid.NewString())
	if err := h.fs.MkdirAll(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	cleanup := func() {
		if err := h.fs.RemoveAll(dir); err != nil {
			h.logger.Printf("[Upload] failed to remove %s: %v", dir, err)
		}
	}

	src, err := file.Open()
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(dir, stagedName(file.Filename))
	dst, err := h.fs.Create(path)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	return path, cleanup, nil
}

// stagedName keeps the base name of a client supplied file name. Browsers
// on Windows may send a full path.
func stagedName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return fallbackAudioName
	}
	return name
}
