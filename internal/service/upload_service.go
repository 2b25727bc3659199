package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/siliconvoice/voice-upload/internal/client"
	"github.com/siliconvoice/voice-upload/internal/config"
	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/internal/model"
)

const bytesPerMB = 1024 * 1024

// User-facing messages, rendered verbatim by the form.
const (
	MsgMissingCredential = "Error: please enter an API key"
	MsgMissingFile       = "Error: please upload an audio file"
	MsgFileNotFound      = "Error: file does not exist - %s"
	MsgFileTooLarge      = "Error: file too large (%.2fMB), please upload a file smaller than %dMB"
	MsgMissingVoiceName  = "Error: please enter a name for the reference audio"
	MsgMissingTranscript = "Error: please enter the text spoken in the reference audio"
	MsgSuccess           = "Upload succeeded!\n\nVoice ID (uri): %s\n\nUse this ID as the voice parameter in later requests."
	MsgMissingURI        = "Upload succeeded, but no uri field was returned\n\n%s"
	MsgRejected          = "Upload failed, status code: %d\n\n%s"
	MsgTimeout           = "Error: request timed out, please try again later"
	MsgConnection        = "Error: cannot connect to the server, please check your network connection"
	MsgUnexpected        = "An error occurred: %s"
)

// VoiceUploader defines the interface for the upload flow. Every failure
// is reported through the result, never as an error.
type VoiceUploader interface {
	Upload(ctx context.Context, req *model.UploadRequest) *model.UploadResult
}

// UploadService validates a form submission and uploads the reference
// audio to SiliconFlow in a single call.
type UploadService struct {
	voiceClient  client.VoiceCloner
	fs           afero.Fs
	validate     *validator.Validate
	maxSize      int64
	defaultModel string
	logger       *log.Logger
	metrics      *metrics.Metrics
}

// NewUploadService creates a new upload service. Files are read through fs.
func NewUploadService(voiceClient client.VoiceCloner, fs afero.Fs, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) *UploadService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	defaultModel := cfg.SiliconFlow.DefaultModel
	if defaultModel == "" {
		defaultModel = model.DefaultVoiceModel
	}

	s := &UploadService{
		voiceClient:  voiceClient,
		fs:           fs,
		validate:     validator.New(),
		maxSize:      cfg.Upload.MaxSizeBytes(),
		defaultModel: defaultModel,
		logger:       logger,
		metrics:      m,
	}
	// Registration only fails on an empty tag or nil func.
	_ = s.validate.RegisterValidation("audiofile", s.isAudioFile)
	_ = s.validate.RegisterValidation("audiosize", s.isWithinSizeLimit)

	return s
}

// Upload runs validation, the remote call and the response mapping for
// one submission.
func (s *UploadService) Upload(ctx context.Context, req *model.UploadRequest) *model.UploadResult {
	requestID := uuid.NewString()
	r := *req
	r.Normalize(s.defaultModel)

	if err := s.validate.Struct(&r); err != nil {
		result := s.validationFailure(&r, err)
		s.logger.Printf("[Upload %s] rejected before sending: %s", requestID, result.Message)
		return s.finish(result)
	}

	f, err := s.fs.Open(r.AudioFilePath)
	if err != nil {
		s.logger.Printf("[Upload %s] failed to open %s: %v", requestID, r.AudioFilePath, err)
		return s.finish(unexpected(fmt.Errorf("failed to open audio file: %w", err)))
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		s.metrics.RecordFileSize(info.Size())
		s.logger.Printf("[Upload %s] preparing to upload %s, size: %.2fMB",
			requestID, filepath.Base(r.AudioFilePath), float64(info.Size())/bytesPerMB)
	}

	s.logger.Printf("[Upload %s] sending API request (model=%s, name=%s)", requestID, r.Model, r.VoiceName)
	start := time.Now()
	resp, err := s.voiceClient.UploadVoice(ctx, &client.VoiceUploadRequest{
		APIKey:     r.Credential,
		Model:      r.Model,
		CustomName: r.VoiceName,
		Text:       r.Transcript,
		FileName:   filepath.Base(r.AudioFilePath),
		Audio:      f,
	})
	s.metrics.RecordUploadDuration(time.Since(start).Seconds())

	if err != nil {
		result := classifyFailure(err)
		s.logger.Printf("[Upload %s] upload failed (%s): %v", requestID, result.Kind, err)
		return s.finish(result)
	}

	if !resp.HasURI() {
		s.logger.Printf("[Upload %s] upload succeeded without uri: %s", requestID, resp.Raw)
		return s.finish(&model.UploadResult{
			Success:    true,
			Kind:       model.KindMissingURI,
			StatusCode: 200,
			Body:       resp.Raw,
			Message:    fmt.Sprintf(MsgMissingURI, resp.Raw),
		})
	}

	s.logger.Printf("[Upload %s] upload succeeded: %s", requestID, resp.Raw)
	return s.finish(&model.UploadResult{
		Success:    true,
		Kind:       model.KindSuccess,
		VoiceURI:   *resp.URI,
		StatusCode: 200,
		Body:       resp.Raw,
		Message:    fmt.Sprintf(MsgSuccess, *resp.URI),
	})
}

// IsConfigured returns true if the service has a remote client
func (s *UploadService) IsConfigured() bool {
	return s.voiceClient != nil
}

func (s *UploadService) finish(result *model.UploadResult) *model.UploadResult {
	s.metrics.RecordUploadResult(string(result.Kind))
	return result
}

// validationFailure maps the first failing field onto its message.
// ValidationErrors follow struct field order, which fixes the order in
// which problems are reported.
func (s *UploadService) validationFailure(req *model.UploadRequest, err error) *model.UploadResult {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return unexpected(err)
	}

	var msg string
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Credential":
		msg = MsgMissingCredential
	case "AudioFilePath":
		switch fe.Tag() {
		case "required":
			msg = MsgMissingFile
		case "audiofile":
			msg = fmt.Sprintf(MsgFileNotFound, req.AudioFilePath)
		default:
			msg = fmt.Sprintf(MsgFileTooLarge, s.fileSizeMB(req.AudioFilePath), s.maxSize/bytesPerMB)
		}
	case "VoiceName":
		msg = MsgMissingVoiceName
	case "Transcript":
		msg = MsgMissingTranscript
	default:
		msg = fmt.Sprintf(MsgUnexpected, fe.Error())
	}

	return &model.UploadResult{Kind: model.KindValidation, Message: msg}
}

func (s *UploadService) isAudioFile(fl validator.FieldLevel) bool {
	info, err := s.fs.Stat(fl.Field().String())
	return err == nil && info.Mode().IsRegular()
}

func (s *UploadService) isWithinSizeLimit(fl validator.FieldLevel) bool {
	info, err := s.fs.Stat(fl.Field().String())
	return err == nil && info.Size() <= s.maxSize
}

func (s *UploadService) fileSizeMB(path string) float64 {
	info, err := s.fs.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / bytesPerMB
}

// classifyFailure turns a client error into a result of the matching kind.
func classifyFailure(err error) *model.UploadResult {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return &model.UploadResult{
			Kind:       model.KindRejected,
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
			Message:    fmt.Sprintf(MsgRejected, apiErr.StatusCode, apiErr.Body),
		}
	case errors.Is(err, client.ErrTimeout):
		return &model.UploadResult{Kind: model.KindTimeout, Message: MsgTimeout}
	case errors.Is(err, client.ErrConnection):
		return &model.UploadResult{Kind: model.KindConnection, Message: MsgConnection}
	default:
		return unexpected(err)
	}
}

func unexpected(err error) *model.UploadResult {
	return &model.UploadResult{Kind: model.KindUnexpected, Message: fmt.Sprintf(MsgUnexpected, err.Error())}
}
