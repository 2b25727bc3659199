package model

import "strings"

// DefaultVoiceModel is the cloning model preselected in the form.
const DefaultVoiceModel = "FunAudioLLM/CosyVoice2-0.5B"

// UploadRequest is one form submission. It lives for a single
// request/response cycle and is never stored.
type UploadRequest struct {
	Credential    string `json:"-" validate:"required"`
	AudioFilePath string `json:"audioPath" validate:"required,audiofile,audiosize"`
	Model         string `json:"model"`
	VoiceName     string `json:"customName" validate:"required"`
	Transcript    string `json:"text" validate:"required"`
}

// Normalize trims every field and fills the model with def when it is
// left blank.
func (r *UploadRequest) Normalize(def string) {
	r.Credential = strings.TrimSpace(r.Credential)
	r.AudioFilePath = strings.TrimSpace(r.AudioFilePath)
	r.Model = strings.TrimSpace(r.Model)
	r.VoiceName = strings.TrimSpace(r.VoiceName)
	r.Transcript = strings.TrimSpace(r.Transcript)
	if r.Model == "" {
		r.Model = def
	}
}

// ResultKind classifies the outcome of an upload
type ResultKind string

const (
	KindSuccess    ResultKind = "success"
	KindMissingURI ResultKind = "missing_uri"
	KindValidation ResultKind = "validation"
	KindTimeout    ResultKind = "timeout"
	KindConnection ResultKind = "connection"
	KindRejected   ResultKind = "rejected"
	KindUnexpected ResultKind = "unexpected"
)

// UploadResult is returned to the form and rendered verbatim via Message.
type UploadResult struct {
	Success    bool       `json:"success"`
	Kind       ResultKind `json:"kind"`
	VoiceURI   string     `json:"voiceUri,omitempty"`
	StatusCode int        `json:"statusCode,omitempty"`
	Body       string     `json:"body,omitempty"`
	Message    string     `json:"message"`
}

// CredentialHint is the inline hint shown under the API key field.
type CredentialHint struct {
	Hint string `json:"hint"`
}
