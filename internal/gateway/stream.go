package gateway

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/demoforge/demo-orchestrator/internal/models"
	"github.com/demoforge/demo-orchestrator/internal/orchestration"
)

// ProgressStreamer pushes pipeline progress frames for one demo over a
// WebSocket until the demo reaches a terminal state.
type ProgressStreamer struct {
	service      *orchestration.Service
	tracer       trace.Tracer
	upgrader     websocket.Upgrader
	pollInterval time.Duration
}

// NewProgressStreamer creates a progress streamer over the orchestration
// service.
func NewProgressStreamer(service *orchestration.Service) *ProgressStreamer {
	return &ProgressStreamer{
		service: service,
		tracer:  otel.Tracer("progress-streamer"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origins once the frontend host is fixed
				return true
			},
			HandshakeTimeout: 10 * time.Second,
		},
		pollInterval: 500 * time.Millisecond,
	}
}

// progressFrame is one message pushed to the client
type progressFrame struct {
	DemoID   string                         `json:"demoId"`
	Progress orchestration.PipelineProgress `json:"progress"`
	Error    string                         `json:"error,omitempty"`
}

// StreamProgress handles GET /demos/:demoId/stream
// @Summary Stream demo pipeline progress
// @Description WebSocket endpoint pushing status/progress frames until the demo reaches a terminal state
// @Tags demos
// @Param demoId path string true "Demo ID"
// @Success 101 "Switching Protocols"
// @Failure 404 {object} models.ErrorResponse
// @Router /demos/{demoId}/stream [get]
func (p *ProgressStreamer) StreamProgress(c *gin.Context) {
	ctx, span := p.tracer.Start(c.Request.Context(), "progress_streamer.stream_progress")
	defer span.End()

	demoID := c.Param("demoId")
	span.SetAttributes(attribute.String("demo_id", demoID))

	demo, err := p.service.GetDemo(ctx, demoID)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusNotFound, models.NewErrorResponse(models.ErrCodeNotFound, err.Error()))
		return
	}

	conn, err := p.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		log.Printf(`{"level":"error","message":"WebSocket upgrade failed","demo_id":"%s","error":"%v"}`, demoID, err)
		return
	}
	defer conn.Close()

	// Push the current snapshot immediately, then poll until terminal. The
	// client closing the socket ends the loop via the write error.
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	last := models.DemoStatus("")
	for {
		if demo.Status != last {
			frame := progressFrame{
				DemoID:   demo.ID,
				Progress: orchestration.Progress(demo.Status),
				Error:    demo.Error,
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.Printf(`{"level":"info","message":"WebSocket client gone","demo_id":"%s"}`, demoID)
				return
			}
			last = demo.Status
		}

		if demo.Status.Terminal() {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(demo.Status))
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		demo, err = p.service.GetDemo(ctx, demoID)
		if err != nil {
			span.RecordError(err)
			_ = conn.WriteJSON(progressFrame{DemoID: demoID, Error: err.Error()})
			return
		}
	}
}
