package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/siliconvoice/voice-upload/internal/web"
)

// FormHandler serves the upload form. The page is rendered once.
type FormHandler struct {
	page []byte
}

func NewFormHandler(defaultModel string, maxSizeMB int) (*FormHandler, error) {
	page, err := web.RenderForm(web.FormPage{
		DefaultModel: defaultModel,
		MaxSizeMB:    maxSizeMB,
	})
	if err != nil {
		return nil, err
	}
	return &FormHandler{page: page}, nil
}

// Show handles GET /
func (h *FormHandler) Show(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(h.page)
}
