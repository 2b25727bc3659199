package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/internal/model"
	"github.com/siliconvoice/voice-upload/internal/service"
	"github.com/siliconvoice/voice-upload/pkg/response"
)

type CredentialHandler struct {
	metrics *metrics.Metrics
}

func NewCredentialHandler(m *metrics.Metrics) *CredentialHandler {
	return &CredentialHandler{metrics: m}
}

// Hint handles POST /api/credential/hint
func (h *CredentialHandler) Hint(c *fiber.Ctx) error {
	hint := service.CheckCredential(c.FormValue("apiKey"))

	switch hint {
	case service.HintMissingCredential:
		h.metrics.RecordCredentialCheck("missing")
	case service.HintShortCredential:
		h.metrics.RecordCredentialCheck("short")
	default:
		h.metrics.RecordCredentialCheck("ok")
	}

	return response.OK(c, model.CredentialHint{Hint: hint})
}
