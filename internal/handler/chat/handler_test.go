package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everkind/backend/internal/model/chat"
)

type fakeChatService struct {
	configured bool
	lastReq    chat.ChatRequest
	calls      int
	records    map[string][]chat.PromptMessage
	lookupErr  error
}

func (f *fakeChatService) Configured() bool { return f.configured }

func (f *fakeChatService) Respond(_ context.Context, req chat.ChatRequest) chat.ChatResponse {
	f.calls++
	f.lastReq = req
	return chat.ChatResponse{Response: "I hear you.", ConversationID: "conv-1", Timestamp: time.Now().UTC()}
}

func (f *fakeChatService) Lookup(_ context.Context, id string) ([]chat.PromptMessage, bool, error) {
	if f.lookupErr != nil {
		return nil, false, f.lookupErr
	}
	messages, ok := f.records[id]
	return messages, ok, nil
}

func newTestRouter(svc ChatService) http.Handler {
	r := chi.NewRouter()
	New(svc, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeFieldErrors(t *testing.T, rec *httptest.ResponseRecorder) []chat.FieldError {
	t.Helper()
	var body struct {
		Detail []chat.FieldError `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Detail)
	return body.Detail
}

func TestChatSuccess(t *testing.T) {
	svc := &fakeChatService{configured: true}
	h := newTestRouter(svc)

	rec := postChat(t, h, `{
		"message": "I'm feeling stressed",
		"conversation_history": [{"role": "user", "content": "Hello"}],
		"user_mood": "stressed"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chat.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "I hear you.", resp.Response)
	assert.Equal(t, "conv-1", resp.ConversationID)

	require.Equal(t, 1, svc.calls)
	assert.Equal(t, "I'm feeling stressed", svc.lastReq.Message)
	require.Len(t, svc.lastReq.ConversationHistory, 1)
	assert.False(t, svc.lastReq.ConversationHistory[0].Timestamp.IsZero(), "missing timestamps default to now")
	require.NotNil(t, svc.lastReq.UserMood)
	assert.Equal(t, "stressed", *svc.lastReq.UserMood)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc := &fakeChatService{configured: true}
	rec := postChat(t, newTestRouter(svc), `{"message": ""}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decodeFieldErrors(t, rec)
	assert.Equal(t, []string{"body", "message"}, errs[0].Loc)
	assert.Zero(t, svc.calls)
}

func TestChatRejectsMissingMessage(t *testing.T) {
	rec := postChat(t, newTestRouter(&fakeChatService{configured: true}), `{"user_mood": "anxious"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "missing", decodeFieldErrors(t, rec)[0].Type)
}

func TestChatMessageLengthBoundary(t *testing.T) {
	svc := &fakeChatService{configured: true}
	h := newTestRouter(svc)

	rec := postChat(t, h, `{"message": "`+strings.Repeat("a", 2001)+`"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decodeFieldErrors(t, rec)
	assert.Equal(t, "string_too_long", errs[0].Type)

	rec = postChat(t, h, `{"message": "`+strings.Repeat("a", 2000)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Length is counted in characters, not bytes.
	rec = postChat(t, h, `{"message": "`+strings.Repeat("ü", 2000)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatRejectsHistoryWithoutRole(t *testing.T) {
	rec := postChat(t, newTestRouter(&fakeChatService{configured: true}),
		`{"message": "hi", "conversation_history": [{"role": "user", "content": "a"}, {"content": "b"}]}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"body", "conversation_history", "1", "role"}, decodeFieldErrors(t, rec)[0].Loc)
}

func TestChatHistoryFieldPresence(t *testing.T) {
	svc := &fakeChatService{configured: true}
	h := newTestRouter(svc)

	rec := postChat(t, h, `{"message": "hi", "conversation_history": [{"role": "", "content": ""}]}`)
	require.Equal(t, http.StatusOK, rec.Code, "empty role and content are accepted")
	require.Len(t, svc.lastReq.ConversationHistory, 1)
	assert.Equal(t, "", svc.lastReq.ConversationHistory[0].Role)

	rec = postChat(t, h, `{"message": "hi", "conversation_history": [{"role": "user"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decodeFieldErrors(t, rec)
	assert.Equal(t, []string{"body", "conversation_history", "0", "content"}, errs[0].Loc)
	assert.Equal(t, "missing", errs[0].Type)

	rec = postChat(t, h, `{"message": "hi", "conversation_history": [{"role": null, "content": "x"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"body", "conversation_history", "0", "role"}, decodeFieldErrors(t, rec)[0].Loc)

	assert.Equal(t, 1, svc.calls)
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	h := newTestRouter(&fakeChatService{configured: true})

	rec := postChat(t, h, `{"message": `)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "json_invalid", decodeFieldErrors(t, rec)[0].Type)

	rec = postChat(t, h, `{"message": 42}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decodeFieldErrors(t, rec)
	assert.Equal(t, "type_error", errs[0].Type)
	assert.Equal(t, []string{"body", "message"}, errs[0].Loc)
}

func TestChatUnconfiguredReturns500(t *testing.T) {
	svc := &fakeChatService{configured: false}
	rec := postChat(t, newTestRouter(svc), `{"message": "hello"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "not configured")
	assert.Zero(t, svc.calls)
}

func TestConversationFound(t *testing.T) {
	svc := &fakeChatService{records: map[string][]chat.PromptMessage{
		"abc": {{Role: chat.RoleSystem, Content: "s"}, {Role: chat.RoleUser, Content: "hello"}},
	}}

	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conversation/abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chat.ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.ConversationID)
	assert.Len(t, resp.Messages, 2)
}

func TestConversationNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeChatService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conversation/never-issued", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Conversation not found"}`, rec.Body.String())
}

func TestConversationStoreError(t *testing.T) {
	rec := httptest.NewRecorder()
	svc := &fakeChatService{lookupErr: errors.New("store down")}
	newTestRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conversation/abc", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Error retrieving conversation history"}`, rec.Body.String())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, []string{"body", "message"}, location("ChatRequest.message"))
	assert.Equal(t, []string{"body", "conversation_history", "3", "role"}, location("ChatRequest.conversation_history[3].role"))
}
