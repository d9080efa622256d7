package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/circuitbreaker"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/sse"
)

// systemPrompt frames every conversation. The model answers as AI Vaidya,
// the platform's Ayurvedic wellness guide.
const systemPrompt = `You are AI Vaidya, an experienced Ayurvedic wellness guide for the AyushGyan platform. ` +
	`You offer general guidance rooted in Ayurveda: doshas and prakriti, dinacharya and ritucharya, ` +
	`diet, herbs such as ashwagandha, triphala and brahmi, yoga and pranayama. ` +
	`Keep answers warm, practical and concise. You are not a doctor: for symptoms that sound serious, ` +
	`for pregnancy, or for medication questions, advise booking a consultation with an AyushGyan practitioner ` +
	`instead of guessing. Never prescribe dosages for potent herbs.`

const maxHistoryMessages = 20

// StreamResult reports what a completed stream produced.
type StreamResult struct {
	ConversationID uuid.UUID
	Text           string
}

type Service struct {
	repo    repository.ChatRepository
	client  *http.Client
	cfg     config.ChatConfig
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  *logger.Logger

	mu     sync.Mutex
	active map[uuid.UUID]bool
}

func NewService(repo repository.ChatRepository, cfg config.ChatConfig, m *metrics.Metrics, log *logger.Logger) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Service{
		repo:   repo,
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "llm-gateway",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		metrics: m,
		logger:  log,
		active:  make(map[uuid.UUID]bool),
	}
}

// Stream relays a completion for req, invoking onDelta for every content
// fragment in arrival order. The transcript is persisted once the stream
// finishes cleanly.
func (s *Service) Stream(ctx context.Context, req *model.ChatRequest, onDelta func(string)) (*StreamResult, error) {
	conv, err := s.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	if !s.acquire(conv.ID) {
		return nil, apperrors.Conflict("a response is already streaming for this conversation", nil)
	}
	defer s.release(conv.ID)

	start := time.Now()
	text, err := s.relay(ctx, req.Messages, onDelta)
	s.metrics.ChatStreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ChatStreams.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.ChatStreams.WithLabelValues("success").Inc()

	s.persist(ctx, conv, req.Messages, text)
	return &StreamResult{ConversationID: conv.ID, Text: text}, nil
}

func (s *Service) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	return s.repo.ListConversations(ctx)
}

func (s *Service) Messages(ctx context.Context, conversationID uuid.UUID) ([]*model.StoredChatMessage, error) {
	return s.repo.Messages(ctx, conversationID)
}

func (s *Service) resolveConversation(ctx context.Context, req *model.ChatRequest) (*model.Conversation, error) {
	if req.ConversationID != "" {
		id, err := uuid.Parse(req.ConversationID)
		if err != nil {
			return nil, apperrors.BadRequest("invalid conversation id", err)
		}
		return &model.Conversation{ID: id}, nil
	}

	title := truncate(req.Messages[len(req.Messages)-1].Content, 80)
	conv := &model.Conversation{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayRequest struct {
	Model    string           `json:"model"`
	Messages []gatewayMessage `json:"messages"`
	Stream   bool             `json:"stream"`
}

// relay performs the upstream call and pipes the SSE response through the
// incremental parser until [DONE] or EOF.
func (s *Service) relay(ctx context.Context, history []model.ChatMessage, onDelta func(string)) (string, error) {
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	msgs := make([]gatewayMessage, 0, len(history)+1)
	msgs = append(msgs, gatewayMessage{Role: string(model.ChatRoleSystem), Content: systemPrompt})
	for _, m := range history {
		msgs = append(msgs, gatewayMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := json.Marshal(gatewayRequest{Model: s.cfg.Model, Messages: msgs, Stream: true})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	var resp *http.Response
	err = s.breaker.Execute(func() error {
		var cerr error
		resp, cerr = s.client.Do(httpReq)
		return cerr
	})
	if err != nil {
		return "", apperrors.Unavailable("assistant is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", s.gatewayError(resp)
	}

	var full strings.Builder
	parser := sse.NewParser(func(delta string) {
		full.WriteString(delta)
		s.metrics.ChatDeltas.Inc()
		onDelta(delta)
	})

	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			parser.Feed(buf[:n])
		}
		if parser.Done() {
			break
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("stream read failed: %w", rerr)
		}
	}
	parser.Flush()

	return full.String(), nil
}

// gatewayError maps upstream failures the client must distinguish: 429 means
// slow down, 402 means the workspace has no credits left.
func (s *Service) gatewayError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	s.logger.Error(nil, "assistant gateway error", "status", resp.StatusCode, "body", string(body))

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return apperrors.RateLimited("the assistant is busy, please retry in a moment")
	case http.StatusPaymentRequired:
		return apperrors.QuotaExhausted("assistant usage limit reached")
	default:
		return apperrors.Unavailable("assistant request failed", fmt.Errorf("gateway status %d", resp.StatusCode))
	}
}

// persist stores the last user turn and the assistant reply. Storage errors
// are logged only; the client already has the streamed text.
func (s *Service) persist(ctx context.Context, conv *model.Conversation, history []model.ChatMessage, reply string) {
	last := history[len(history)-1]
	if last.Role == model.ChatRoleUser {
		err := s.repo.AppendMessage(ctx, &model.StoredChatMessage{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			Role:           model.ChatRoleUser,
			Content:        last.Content,
			CreatedAt:      time.Now(),
		})
		if err != nil {
			s.logger.Error(err, "failed to store user message", "conversation_id", conv.ID)
		}
	}

	if reply != "" {
		err := s.repo.AppendMessage(ctx, &model.StoredChatMessage{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			Role:           model.ChatRoleAssistant,
			Content:        reply,
			CreatedAt:      time.Now(),
		})
		if err != nil {
			s.logger.Error(err, "failed to store assistant message", "conversation_id", conv.ID)
		}

		if err := s.repo.TouchConversation(ctx, conv.ID, truncate(reply, 120)); err != nil {
			s.logger.Error(err, "failed to update conversation preview", "conversation_id", conv.ID)
		}
	}
}

func (s *Service) acquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[id] {
		return false
	}
	s.active[id] = true
	return true
}

func (s *Service) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}
