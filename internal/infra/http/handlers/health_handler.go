package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/calldesk/internal/infra/database"
)

const (
	componentUp       = "up"
	componentDown     = "down"
	componentDisabled = "disabled"
)

// HealthHandler reports the lead store, which the desk cannot work without,
// and the optional lead-event broker and script generator.
type HealthHandler struct {
	Store     *database.Conn
	RabbitMQ  *amqp091.Connection
	Generator bool
	StartTime time.Time
}

type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status  string          `json:"status"`
	Uptime  string          `json:"uptime"`
	Store   ComponentHealth `json:"store"`
	Events  ComponentHealth `json:"events"`
	Scripts ComponentHealth `json:"scripts"`
}

func NewHealthHandler(store *database.Conn, rabbitMQ *amqp091.Connection, generatorConfigured bool) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		RabbitMQ:  rabbitMQ,
		Generator: generatorConfigured,
		StartTime: time.Now(),
	}
}

// Handle (GET /health) answers 503 only when the store is unreachable; a
// lost broker leaves lead actions working and reports "degraded".
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.StartTime).Round(time.Second).String(),
		Store:   h.storeHealth(r.Context()),
		Events:  h.eventsHealth(),
		Scripts: ComponentHealth{Status: componentDisabled},
	}
	if h.Generator {
		resp.Scripts.Status = componentUp
	}

	code := http.StatusOK
	switch {
	case resp.Store.Status != componentUp:
		resp.Status = "down"
		code = http.StatusServiceUnavailable
	case resp.Events.Status == componentDown:
		resp.Status = "degraded"
	}
	writeJSON(w, code, resp)
}

func (h *HealthHandler) storeHealth(ctx context.Context) ComponentHealth {
	if h.Store == nil {
		return ComponentHealth{Status: componentDown, Detail: "no store"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.Store.DB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: componentDown, Detail: h.Store.Driver + ": " + err.Error()}
	}
	return ComponentHealth{Status: componentUp, Detail: h.Store.Driver}
}

func (h *HealthHandler) eventsHealth() ComponentHealth {
	switch {
	case h.RabbitMQ == nil:
		return ComponentHealth{Status: componentDisabled}
	case h.RabbitMQ.IsClosed():
		return ComponentHealth{Status: componentDown, Detail: "rabbitmq connection closed"}
	default:
		return ComponentHealth{Status: componentUp, Detail: "rabbitmq"}
	}
}
