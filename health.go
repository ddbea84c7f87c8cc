package marey

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	CachedEntries int    `json:"cached_entries"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		CachedEntries: s.engine.cache.Len(),
	})
}
