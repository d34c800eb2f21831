package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	"github.com/zhouzirui/mood-journal/backend/internal/model/journal"
	journalService "github.com/zhouzirui/mood-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mood-journal/backend/pkg/utils"
)

// JournalService is the part of the journal service the HTTP layer uses.
type JournalService interface {
	Submit(ctx context.Context, req journalService.SubmitRequest) (journalService.SubmitResult, error)
	MoodHistory(ctx context.Context) ([]journalService.MoodEntry, error)
	Transcript(ctx context.Context, conversationID uint) ([]journal.Message, error)
}

const (
	msgTextRequired          = "Text is required"
	msgInvalidConversationID = "Invalid conversation ID"
	msgInvalidBody           = "invalid request body"
	msgSubmitFailed          = "Failed to process message"
)

// Handler 日记服务的HTTP处理器
type Handler struct {
	journalSvc JournalService
	log        *logger.Logger
	upgrader   websocket.Upgrader
}

// New 创建日记处理器
func New(journalSvc JournalService, log *logger.Logger) *Handler {
	return &Handler{
		journalSvc: journalSvc,
		log:        log.With("handler", "journal"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册日记相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/submit", h.handleSubmit)
	r.Get("/mood_history", h.handleMoodHistory)
	r.Get("/conversations/{conversationID}/messages", h.handleTranscript)
	r.Get("/ws", h.handleWebSocket)
}

// conversationID accepts a JSON number, a numeric string or null. Zero and
// null both mean "start a new conversation".
type conversationID struct {
	value uint
	valid bool
}

func (c *conversationID) UnmarshalJSON(data []byte) error {
	c.valid = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			c.valid = false
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	parsed, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		c.valid = false
		return nil
	}
	c.value = uint(parsed)
	return nil
}

type submitPayload struct {
	Text           string          `json:"text"`
	ConversationID *conversationID `json:"conversation_id"`
}

// toRequest validates the payload the same way for HTTP and WebSocket.
func (p submitPayload) toRequest() (journalService.SubmitRequest, string, bool) {
	if strings.TrimSpace(p.Text) == "" {
		return journalService.SubmitRequest{}, msgTextRequired, false
	}
	req := journalService.SubmitRequest{Text: p.Text}
	if p.ConversationID != nil {
		if !p.ConversationID.valid {
			return journalService.SubmitRequest{}, msgInvalidConversationID, false
		}
		req.ConversationID = p.ConversationID.value
	}
	return req, "", true
}

// submit runs one journal entry and maps service errors onto a status and
// a client-facing message.
func (h *Handler) submit(ctx context.Context, payload submitPayload) (journalService.SubmitResult, int, string) {
	req, msg, ok := payload.toRequest()
	if !ok {
		return journalService.SubmitResult{}, http.StatusBadRequest, msg
	}

	result, err := h.journalSvc.Submit(ctx, req)
	switch {
	case err == nil:
		return result, http.StatusOK, ""
	case errors.Is(err, journalService.ErrTextRequired):
		return result, http.StatusBadRequest, msgTextRequired
	case errors.Is(err, journalService.ErrConversationNotFound):
		return result, http.StatusBadRequest, msgInvalidConversationID
	default:
		h.log.Error("submit failed", "conversation", req.ConversationID, "error", err)
		return result, http.StatusInternalServerError, msgSubmitFailed
	}
}

// handleSubmit 保存用户日记并返回情绪与回复
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitPayload
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, status, msg := h.submit(r.Context(), payload)
	if status != http.StatusOK {
		utils.RespondError(w, status, msg)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// handleMoodHistory 返回最近的情绪记录
func (h *Handler) handleMoodHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.journalSvc.MoodHistory(r.Context())
	if err != nil {
		h.log.Error("mood history failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load mood history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

// handleTranscript 返回会话的全部消息
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "conversationID"), 10, 0)
	if err != nil || id == 0 {
		utils.RespondError(w, http.StatusBadRequest, msgInvalidConversationID)
		return
	}

	messages, err := h.journalSvc.Transcript(r.Context(), uint(id))
	if errors.Is(err, journalService.ErrConversationNotFound) {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		h.log.Error("transcript failed", "conversation", id, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load conversation")
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}
