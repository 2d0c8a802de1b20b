package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/retail"
)

// Pinger reports connectivity of a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness of the process and its data stores.
type HealthHandler struct {
	Postgres Pinger
	Retail   *retail.Store
}

// NewHealthHandler creates the handler.
func NewHealthHandler(postgres Pinger, store *retail.Store) *HealthHandler {
	return &HealthHandler{Postgres: postgres, Retail: store}
}

// Health pings both stores with a short deadline. Any failed ping turns the
// response into a 503 so load balancers rotate the instance out.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	postgres, mongo := "up", "up"

	if h.Postgres != nil {
		if err := h.Postgres.Ping(ctx); err != nil {
			postgres = "down"
			status = http.StatusServiceUnavailable
		}
	}
	if h.Retail != nil {
		if err := h.Retail.Ping(ctx); err != nil {
			mongo = "down"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, gin.H{"status": httpStatusWord(status), "postgres": postgres, "mongo": mongo})
}

func httpStatusWord(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
