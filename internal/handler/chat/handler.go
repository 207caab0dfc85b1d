package chat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/everkind/backend/internal/logger"
	"github.com/everkind/backend/internal/model/chat"
	"github.com/everkind/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

const (
	detailNotConfigured  = "AI service not configured. Please contact support."
	detailNotFound       = "Conversation not found"
	detailHistoryFailure = "Error retrieving conversation history"
)

// ChatService 是处理器依赖的会话编排能力
type ChatService interface {
	Configured() bool
	Respond(ctx context.Context, req chat.ChatRequest) chat.ChatResponse
	Lookup(ctx context.Context, id string) ([]chat.PromptMessage, bool, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	svc      ChatService
	validate *validator.Validate
	logger   zerolog.Logger
}

// New 创建聊天处理器
func New(svc ChatService, log zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: newValidator(),
		logger:   logger.Component(log, "chat_handler"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/conversation/{conversationID}", h.handleConversation)
}

// handleChat 处理一次对话请求
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		utils.RespondValidation(w, decodeError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondValidation(w, fieldErrors(err))
		return
	}

	h.logger.Info().Str("preview", logger.Preview(req.Message)).Msg("received chat request")

	if !h.svc.Configured() {
		h.logger.Error().Msg("completion provider credential not configured")
		utils.RespondDetail(w, http.StatusInternalServerError, detailNotConfigured)
		return
	}

	resp := h.svc.Respond(r.Context(), req)
	h.logger.Info().Str("conversation_id", resp.ConversationID).Msg("chat response sent")
	utils.RespondJSON(w, http.StatusOK, resp)
}

// handleConversation 返回已记录会话的消息列表
func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	messages, ok, err := h.svc.Lookup(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("conversation_id", id).Msg("failed to load conversation")
		utils.RespondDetail(w, http.StatusInternalServerError, detailHistoryFailure)
		return
	}
	if !ok {
		utils.RespondDetail(w, http.StatusNotFound, detailNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, chat.ConversationResponse{
		ConversationID: id,
		Messages:       messages,
	})
}
