package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("chat_test")

type fakeChatRepo struct {
	conversations []*model.Conversation
	messages      []*model.StoredChatMessage
	previews      map[uuid.UUID]string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{previews: make(map[uuid.UUID]string)}
}

func (f *fakeChatRepo) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	f.conversations = append(f.conversations, conv)
	return nil
}

func (f *fakeChatRepo) TouchConversation(ctx context.Context, id uuid.UUID, preview string) error {
	f.previews[id] = preview
	return nil
}

func (f *fakeChatRepo) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	return f.conversations, nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, msg *model.StoredChatMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeChatRepo) Messages(ctx context.Context, conversationID uuid.UUID) ([]*model.StoredChatMessage, error) {
	return f.messages, nil
}

func newTestService(repo *fakeChatRepo, gatewayURL string) *Service {
	return NewService(repo, config.ChatConfig{
		GatewayURL: gatewayURL,
		Model:      "test-model",
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
	}, testMetrics, logger.NewLogger(nil))
}

func sseChunk(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

func userRequest(text string) *model.ChatRequest {
	return &model.ChatRequest{
		Messages: []model.ChatMessage{{Role: model.ChatRoleUser, Content: text}},
	}
}

func TestStreamReassemblesDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, part := range []string{"Namaste", " ", "🙏", ", how can I help?"} {
			fmt.Fprint(w, sseChunk(part))
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	repo := newFakeChatRepo()
	svc := newTestService(repo, server.URL)

	var deltas []string
	result, err := svc.Stream(context.Background(), userRequest("namaste"), func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)

	assert.Equal(t, "Namaste 🙏, how can I help?", result.Text)
	assert.Equal(t, []string{"Namaste", " ", "🙏", ", how can I help?"}, deltas)

	// new conversation created, both turns stored
	require.Len(t, repo.conversations, 1)
	assert.Equal(t, repo.conversations[0].ID, result.ConversationID)
	require.Len(t, repo.messages, 2)
	assert.Equal(t, model.ChatRoleUser, repo.messages[0].Role)
	assert.Equal(t, "namaste", repo.messages[0].Content)
	assert.Equal(t, model.ChatRoleAssistant, repo.messages[1].Role)
	assert.Equal(t, result.Text, repo.messages[1].Content)
	assert.Equal(t, result.Text, repo.previews[result.ConversationID])
}

func TestStreamPrependsSystemPrompt(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, sseChunk("ok"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	svc := newTestService(newFakeChatRepo(), server.URL)
	_, err := svc.Stream(context.Background(), userRequest("hello"), func(string) {})
	require.NoError(t, err)

	assert.Contains(t, string(gotBody), "AI Vaidya")
	assert.Contains(t, string(gotBody), `"stream":true`)
	assert.Contains(t, string(gotBody), `"model":"test-model"`)
}

func TestStreamRateLimitPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := newTestService(newFakeChatRepo(), server.URL)
	_, err := svc.Stream(context.Background(), userRequest("hi"), func(string) {})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrRateLimited, appErr.Code)
}

func TestStreamQuotaPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	svc := newTestService(newFakeChatRepo(), server.URL)
	_, err := svc.Stream(context.Background(), userRequest("hi"), func(string) {})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrPaymentRequired, appErr.Code)
}

func TestStreamBusyConversation(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		fmt.Fprint(w, sseChunk("late"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	svc := newTestService(newFakeChatRepo(), server.URL)
	convID := uuid.New().String()

	req := userRequest("first")
	req.ConversationID = convID

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Stream(context.Background(), req, func(string) {})
		errCh <- err
	}()
	<-started

	second := userRequest("second")
	second.ConversationID = convID
	_, err := svc.Stream(context.Background(), second, func(string) {})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	close(release)
	require.NoError(t, <-errCh)

	// lock released after the first stream finished
	third := userRequest("third")
	third.ConversationID = convID
	_, err = svc.Stream(context.Background(), third, func(string) {})
	require.NoError(t, err)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 80))

	// 🙏 is 4 bytes starting at offset 8; a byte cut inside it must back off
	s := "Namaste 🙏 ji"
	for max := 8; max < 12; max++ {
		got := truncate(s, max)
		assert.True(t, utf8.ValidString(got), "cut at %d produced invalid UTF-8", max)
		assert.Equal(t, "Namaste ", got)
	}
	assert.Equal(t, "Namaste 🙏", truncate(s, 12))
	assert.Equal(t, s, truncate(s, len(s)))
}
