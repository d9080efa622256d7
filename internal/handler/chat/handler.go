package chat

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/chat"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

type Handler struct {
	service *chat.Service
}

func NewHandler(service *chat.Service) *Handler {
	return &Handler{service: service}
}

// Chat streams the assistant reply as server-sent events. Each content
// fragment is relayed as it arrives:
//
//	data: {"content":"..."}
//
// followed by a closing event carrying the conversation id and the [DONE]
// sentinel. Errors raised before the first fragment keep their JSON status
// (429 and 402 pass through from the gateway).
func (h *Handler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	streaming := false
	writeEvent := func(v interface{}) {
		if !streaming {
			streaming = true
			c.Writer.Header().Set("Content-Type", "text/event-stream")
			c.Writer.Header().Set("Cache-Control", "no-cache")
			c.Writer.Header().Set("Connection", "keep-alive")
			c.Writer.Header().Set("X-Accel-Buffering", "no")
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
	}

	result, err := h.service.Stream(c.Request.Context(), &req, func(delta string) {
		writeEvent(gin.H{"content": delta})
	})
	if err != nil {
		if !streaming {
			httputil.RespondWithError(c, err)
			return
		}
		// stream already open; signal the failure in-band
		writeEvent(gin.H{"error": err.Error()})
		return
	}

	writeEvent(gin.H{"conversation_id": result.ConversationID, "done": true})
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}

func (h *Handler) ListConversations(c *gin.Context) {
	conversations, err := h.service.ListConversations(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, conversations)
}

func (h *Handler) GetMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid conversation ID", err))
		return
	}

	messages, err := h.service.Messages(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, messages)
}
