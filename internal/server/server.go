package server

import (
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/siliconvoice/voice-upload/internal/config"
	"github.com/siliconvoice/voice-upload/internal/handler"
	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/internal/middleware"
	"github.com/siliconvoice/voice-upload/internal/service"
	"github.com/siliconvoice/voice-upload/pkg/response"
)

// bodyHeadroom covers the text fields of the form. The body limit is twice
// the file limit so oversized files still reach the service, which reports
// their size.
const bodyHeadroom = 1024 * 1024

// Uploader is the upload flow behind POST /api/voices.
type Uploader interface {
	service.VoiceUploader
	handler.Configurable
}

// Deps holds everything the form server is built from.
type Deps struct {
	Config   *config.Config
	Uploader Uploader
	Fs       afero.Fs
	Metrics  *metrics.Metrics
	Logger   *log.Logger
}

// New builds the Fiber app serving the form and its API.
func New(d Deps) (*fiber.App, error) {
	logOut := io.Discard
	if d.Logger != nil {
		logOut = d.Logger.Writer()
	}

	formHandler, err := handler.NewFormHandler(d.Config.SiliconFlow.DefaultModel, d.Config.Upload.MaxSizeMB)
	if err != nil {
		return nil, err
	}
	uploadHandler := handler.NewUploadHandler(d.Uploader, d.Fs, d.Config.Upload.TempDir, d.Logger)
	credentialHandler := handler.NewCredentialHandler(d.Metrics)
	healthHandler := handler.NewHealthHandler(d.Uploader)

	inFlight := middleware.NewInFlightGuard(d.Metrics)

	app := fiber.New(fiber.Config{
		ErrorHandler:          errorHandler,
		BodyLimit:             int(2*d.Config.Upload.MaxSizeBytes()) + bodyHeadroom,
		DisableStartupMessage: true,
	})

	accessFormat := "${status} ${method} ${path}\n"
	if d.Config.Server.LogLevel == "debug" {
		accessFormat = "[${time}] ${status} - ${latency} ${method} ${path}\n"
	}

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: accessFormat,
		Output: logOut,
	}))

	app.Get("/", formHandler.Show)
	app.Get("/health", healthHandler.Check)
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/voices", inFlight.Limit(), uploadHandler.Voice)
	api.Post("/credential/hint", credentialHandler.Hint)

	return app, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	switch code {
	case fiber.StatusRequestEntityTooLarge:
		return response.PayloadTooLarge(c, "Error: file too large, please upload a smaller file")
	case fiber.StatusNotFound:
		return response.NotFound(c, message)
	}

	return response.Error(c, code, response.CodeServiceError, message, nil)
}
