package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/config"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

// ErrorAnswer is appended as the assistant turn when the tutor request
// fails, so a submit always produces exactly two transcript entries.
const ErrorAnswer = "Desculpa, ocorreu um erro. Por favor, tenta novamente."

// Tutor answers one math question. Implemented by TutorWebhook.
type Tutor interface {
	Ask(ctx context.Context, message string, grade domain.Grade, userID string) (string, error)
}

// ConversationStore persists and reloads chat turns.
type ConversationStore interface {
	Insert(ctx context.Context, turn *domain.ConversationTurn) error
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]domain.ConversationTurn, error)
}

// ChatService owns the per-user transcript and runs the message pipeline:
// optimistic user append, webhook dispatch, assistant append, best-effort
// persistence. The transcript is only ever mutated through its methods.
type ChatService struct {
	tutor Tutor
	store ConversationStore

	mu       sync.Mutex
	sessions map[int64]*chatSession

	saveWG sync.WaitGroup
}

type chatSession struct {
	mu         sync.Mutex
	info       domain.ChatSession
	transcript []domain.ChatMessage
	sending    bool
}

func NewChatService(tutor Tutor, store ConversationStore) *ChatService {
	return &ChatService{
		tutor:    tutor,
		store:    store,
		sessions: make(map[int64]*chatSession),
	}
}

func (s *ChatService) session(user *domain.User) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[user.ID]
	if !ok {
		sess = &chatSession{info: domain.ChatSession{
			UserID:    user.ID,
			Grade:     user.GradeOrDefault(),
			StartedAt: time.Now(),
		}}
		s.sessions[user.ID] = sess
	} else {
		// Grade may have changed via /ano since the session was created.
		sess.mu.Lock()
		sess.info.Grade = user.GradeOrDefault()
		sess.mu.Unlock()
	}
	return sess
}

// Submit runs one chat turn. The user message is appended before dispatch;
// on failure the canned error answer is appended instead of a real reply
// and the error is returned so the caller can notify the user. A submit
// while a previous one is still sending is rejected without appending
// anything.
func (s *ChatService) Submit(ctx context.Context, user *domain.User, text string, image *domain.ImageAttachment) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == nil {
		return nil, domain.ErrEmptyMessage
	}

	sess := s.session(user)

	sess.mu.Lock()
	if sess.sending {
		sess.mu.Unlock()
		return nil, domain.ErrRequestInFlight
	}
	sess.sending = true
	grade := sess.info.Grade
	sess.transcript = append(sess.transcript, domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderUser,
		Text:      text,
		Image:     image,
		Timestamp: time.Now(),
	})
	sess.mu.Unlock()

	outbound := text
	if image != nil {
		// The image itself is not transported to the webhook; only the
		// filename reaches the tutor as an inline marker.
		outbound = fmt.Sprintf("[Imagem anexada: %s] %s", image.Name, text)
	}

	reqCtx, cancel := context.WithTimeout(ctx, config.WebhookTimeout)
	defer cancel()

	answer, err := s.tutor.Ask(reqCtx, outbound, grade, strconv.FormatInt(user.TelegramID, 10))
	if err != nil {
		slog.Error("tutor request failed", "error", err, "user_id", user.ID, "grade", grade)
		reply := s.appendAssistant(sess, ErrorAnswer)
		return reply, err
	}

	reply := s.appendAssistant(sess, answer)

	s.saveWG.Add(1)
	go func() {
		defer s.saveWG.Done()
		saveCtx, cancel := context.WithTimeout(context.Background(), config.PersistTimeout)
		defer cancel()
		turn := &domain.ConversationTurn{
			UserID:      user.ID,
			UserMessage: text,
			AIResponse:  answer,
			Grade:       grade,
		}
		if err := s.store.Insert(saveCtx, turn); err != nil {
			slog.Error("save conversation", "error", err, "user_id", user.ID)
		}
	}()

	return reply, nil
}

func (s *ChatService) appendAssistant(sess *chatSession, text string) *domain.ChatMessage {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.transcript = append(sess.transcript, domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderAssistant,
		Text:      text,
		Timestamp: time.Now(),
	})
	sess.sending = false
	msg := sess.transcript[len(sess.transcript)-1]
	return &msg
}

// LoadHistory replaces the in-memory transcript with the user's most
// recent persisted turns, each expanded into a user/assistant pair. A
// read failure only logs and leaves the transcript empty.
func (s *ChatService) LoadHistory(ctx context.Context, user *domain.User) []domain.ChatMessage {
	sess := s.session(user)

	turns, err := s.store.ListRecentByUser(ctx, user.ID, config.HistoryLimit)
	if err != nil {
		slog.Error("load conversation history", "error", err, "user_id", user.ID)
		sess.mu.Lock()
		sess.transcript = nil
		sess.mu.Unlock()
		return nil
	}

	msgs := make([]domain.ChatMessage, 0, len(turns)*2)
	for _, t := range turns {
		msgs = append(msgs,
			domain.ChatMessage{
				ID:        uuid.NewString(),
				Sender:    domain.SenderUser,
				Text:      t.UserMessage,
				Timestamp: t.CreatedAt,
			},
			domain.ChatMessage{
				ID:        uuid.NewString(),
				Sender:    domain.SenderAssistant,
				Text:      t.AIResponse,
				Timestamp: t.CreatedAt,
			},
		)
	}

	sess.mu.Lock()
	sess.transcript = msgs
	sess.mu.Unlock()

	return s.Transcript(user)
}

// Transcript returns a snapshot copy of the user's transcript.
func (s *ChatService) Transcript(user *domain.User) []domain.ChatMessage {
	sess := s.session(user)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := make([]domain.ChatMessage, len(sess.transcript))
	copy(out, sess.transcript)
	return out
}

// EndSession drops the user's in-memory session state.
func (s *ChatService) EndSession(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
