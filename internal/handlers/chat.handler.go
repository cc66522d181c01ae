package handlers

import (
	"context"
	"mime/multipart"
	"strconv"

	"github.com/Jojie16/SafeZone/internal/model"
	xhttp "github.com/Jojie16/SafeZone/pkg/http"
	"github.com/Jojie16/SafeZone/pkg/prom"
	"github.com/fasthttp/router"
)

type ChatService interface {
	Append(ctx context.Context, p model.ChatMessageRequest) (*model.Message, error)
	GetChat(ctx context.Context, incidentID int64) ([]*model.Message, error)
}

// MediaIntake validates and persists an uploaded attachment before the
// message is appended.
type MediaIntake interface {
	Accept(fh *multipart.FileHeader) (string, error)
}

type ChatHandler struct {
	svc   ChatService
	media MediaIntake
}

func RegisterChatRoutes(e *router.Group, h *ChatHandler) {
	e.GET("/alerts/chat", h.GetChat)
	e.POST("/alerts/chat", h.SendMessage)
}

func NewChatHandler(chatService ChatService, media MediaIntake) *ChatHandler {
	return &ChatHandler{
		svc:   chatService,
		media: media,
	}
}

type chatResponse struct {
	Messages []*model.Message `json:"messages"`
}

type sendMessageResponse struct {
	MessageID int64  `json:"message_id"`
	Message   string `json:"message"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *ChatHandler) GetChat(ctx *xhttp.RequestCtx) {
	incidentID, err := strconv.ParseInt(string(ctx.QueryArgs().Peek("incident_id")), 10, 64)
	if err != nil || incidentID <= 0 {
		writeFailure(ctx, xhttp.StatusBadRequest, "Valid incident ID required")
		return
	}

	messages, err := h.svc.GetChat(ctx, incidentID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	writeSuccess(ctx, xhttp.StatusOK, chatResponse{Messages: messages})
}

// SendMessage reads multipart form fields; a media attachment, when
// present, goes through the intake before the message is recorded.
func (h *ChatHandler) SendMessage(ctx *xhttp.RequestCtx) {
	incidentID, err := strconv.ParseInt(string(ctx.FormValue("incident_id")), 10, 64)
	if err != nil || incidentID <= 0 {
		writeFailure(ctx, xhttp.StatusBadRequest, "Valid incident ID required")
		return
	}

	sender := model.Sender(ctx.FormValue("sender"))
	if !sender.Valid() {
		writeFailure(ctx, xhttp.StatusBadRequest, "Valid sender required (user or dispatcher)")
		return
	}

	messageText := string(ctx.FormValue("message_text"))

	mediaPath := ""
	if fh, err := ctx.FormFile("media"); err == nil && fh != nil {
		mediaPath, err = h.media.Accept(fh)
		if err != nil {
			prom.IncCounter(prom.SystemChat, prom.MetricChatMediaRejected)
			writeError(ctx, err)
			return
		}
		prom.IncCounter(prom.SystemChat, prom.MetricChatMediaUploads)
	}

	msg, err := h.svc.Append(ctx, model.ChatMessageRequest{
		IncidentID:  incidentID,
		Sender:      sender,
		MessageText: messageText,
		MediaPath:   mediaPath,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeSuccess(ctx, xhttp.StatusCreated, sendMessageResponse{
		MessageID: msg.ID,
		Message:   "Message sent successfully",
	})
}
