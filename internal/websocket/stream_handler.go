package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"company-research-be/internal/dto"
	"company-research-be/internal/pkg/logger"
	"company-research-be/internal/pkg/serverutils"
	"company-research-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const writeWait = 10 * time.Second

// StreamFrame mirrors the SSE event shape over the websocket transport
type StreamFrame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// StreamHandler runs one research stream per websocket connection: the client
// sends a start-research request, the server answers with the ordered
// status/token/done frame sequence, then the connection closes.
type StreamHandler struct {
	researchService service.IResearchService
	log             logger.ILogger
}

func NewStreamHandler(researchService service.IResearchService, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		researchService: researchService,
		log:             log,
	}
}

func (h *StreamHandler) Serve(c *websocket.Conn) {
	defer c.Close()

	var req dto.StartResearchRequest
	if err := c.ReadJSON(&req); err != nil {
		h.writeFrame(c, StreamFrame{Event: "error", Data: "invalid request payload"})
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		h.writeFrame(c, StreamFrame{Event: "error", Data: err.Error()})
		return
	}

	h.log.Info("websocket", "research stream started", map[string]interface{}{
		"company": req.CompanyName,
		"depth":   req.Depth,
	})

	frames := h.researchService.StreamResearch(context.Background(), &req)
	for frame := range frames {
		event, data := parseSSEFrame(frame)
		if !h.writeFrame(c, StreamFrame{Event: event, Data: data}) {
			// Client went away; drain so the pipeline goroutine can finish
			for range frames {
			}
			return
		}
	}
}

func (h *StreamHandler) writeFrame(c *websocket.Conn, frame StreamFrame) bool {
	payload, err := json.Marshal(frame)
	if err != nil {
		return false
	}
	c.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.log.Warn("websocket", "write failed, closing stream", map[string]interface{}{"error": err.Error()})
		return false
	}
	return true
}

// parseSSEFrame splits "event: X\ndata: Y\n\n" back into its parts so both
// transports share one frame producer.
func parseSSEFrame(frame string) (string, string) {
	event, data := "message", frame
	for _, line := range strings.Split(frame, "\n") {
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			event = v
		}
		if v, ok := strings.CutPrefix(line, "data: "); ok {
			data = v
		}
	}
	return event, data
}
