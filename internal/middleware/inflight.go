package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/semaphore"

	"github.com/siliconvoice/voice-upload/internal/metrics"
	"github.com/siliconvoice/voice-upload/pkg/response"
)

// InFlightGuard lets at most one upload run at a time. Further
// submissions are refused instead of queued.
type InFlightGuard struct {
	sem     *semaphore.Weighted
	metrics *metrics.Metrics
}

func NewInFlightGuard(m *metrics.Metrics) *InFlightGuard {
	return &InFlightGuard{
		sem:     semaphore.NewWeighted(1),
		metrics: m,
	}
}

// Limit creates the single-submission middleware
func (g *InFlightGuard) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.sem.TryAcquire(1) {
			g.metrics.RecordInFlightRejection()
			return response.UploadInProgress(c)
		}
		defer g.sem.Release(1)

		return c.Next()
	}
}
