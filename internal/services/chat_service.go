package services

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/dashboard/internal/models"
	pkglogger "github.com/BradenHooton/dashboard/pkg/logger"
	"github.com/google/uuid"
)

// OwnSenderName labels messages written by the operator
const OwnSenderName = "You"

// AutoReplies are the canned answers a contact sends back
var AutoReplies = []string{
	"Got it! Thanks for letting me know.",
	"Sounds good to me!",
	"I'll take care of that right away.",
	"Perfect! Let me know if you need anything else.",
	"That works for me. Thanks!",
}

// ChatRepository defines the interface for chat data access
type ChatRepository interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
	GetContact(ctx context.Context, id int) (*models.Contact, error)
	ListMessages(ctx context.Context, contactID int) ([]*models.Message, error)
	AppendMessage(ctx context.Context, msg *models.Message) error
}

// ChatService handles the simulated chat: operator messages are stored
// immediately and answered by the contact after a fixed delay.
type ChatService struct {
	repo       ChatRepository
	logger     *slog.Logger
	replyDelay time.Duration
	now        func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	mu        sync.Mutex
	closed    bool
	nextTimer uint64
	pending   map[uint64]*time.Timer
	nextSub   uint64
	subs      map[int]map[uint64]chan *models.Message
	wg        sync.WaitGroup
}

// subscriberBuffer is how many messages a slow subscriber may lag before messages are dropped for it
const subscriberBuffer = 16

// NewChatService creates a new ChatService
func NewChatService(repo ChatRepository, logger *slog.Logger, replyDelay time.Duration) *ChatService {
	seed := uint64(time.Now().UnixNano())
	return &ChatService{
		repo:       repo,
		logger:     logger,
		replyDelay: replyDelay,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
		pending:    make(map[uint64]*time.Timer),
		subs:       make(map[int]map[uint64]chan *models.Message),
	}
}

// ListContacts returns contacts whose name contains search, ignoring case
func (s *ChatService) ListContacts(ctx context.Context, search string) ([]models.Contact, error) {
	contacts, err := s.repo.ListContacts(ctx)
	if err != nil {
		s.logger.Error("failed to list contacts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	needle := strings.ToLower(search)
	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Conversation returns every message exchanged with a contact
func (s *ChatService) Conversation(ctx context.Context, contactID int) ([]*models.Message, error) {
	if _, err := s.repo.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, contactID)
}

// Send stores the operator's message and schedules the contact's reply
func (s *ChatService) Send(ctx context.Context, contactID int, text string) (*models.Message, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, models.ErrEmptyMessage
	}

	contact, err := s.repo.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:         uuid.NewString(),
		ContactID:  contact.ID,
		SenderID:   0,
		SenderName: OwnSenderName,
		Body:       body,
		SentAt:     s.now(),
		IsOwn:      true,
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		s.logger.Error("failed to store message", slog.Int("contact_id", contact.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("chat message sent",
		slog.Int("contact_id", contact.ID),
		slog.String("preview", pkglogger.Preview(body, 32)),
	)

	s.publish(msg)
	s.scheduleReply(*contact)
	return msg, nil
}

// Subscribe streams every message added to a contact's conversation from now on.
// The channel is closed by the returned cancel func or by Close.
func (s *ChatService) Subscribe(ctx context.Context, contactID int) (<-chan *models.Message, func(), error) {
	if _, err := s.repo.GetContact(ctx, contactID); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *models.Message, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := s.nextSub
	s.nextSub++
	if s.subs[contactID] == nil {
		s.subs[contactID] = make(map[uint64]chan *models.Message)
	}
	s.subs[contactID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[contactID][id]; ok {
				delete(s.subs[contactID], id)
				close(sub)
			}
		})
	}
	return ch, cancel, nil
}

func (s *ChatService) publish(msg *models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[msg.ContactID] {
		select {
		case ch <- msg:
		default:
			s.logger.Warn("chat subscriber lagging, message dropped", slog.Int("contact_id", msg.ContactID))
		}
	}
}

func (s *ChatService) scheduleReply(contact models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	id := s.nextTimer
	s.nextTimer++
	s.wg.Add(1)
	s.pending[id] = time.AfterFunc(s.replyDelay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()

		s.deliverReply(contact)
	})
}

func (s *ChatService) deliverReply(contact models.Contact) {
	s.rngMu.Lock()
	body := AutoReplies[s.rng.IntN(len(AutoReplies))]
	s.rngMu.Unlock()

	reply := &models.Message{
		ID:         uuid.NewString(),
		ContactID:  contact.ID,
		SenderID:   contact.ID,
		SenderName: contact.Name,
		Body:       body,
		SentAt:     s.now(),
	}

	if err := s.repo.AppendMessage(context.Background(), reply); err != nil {
		s.logger.Error("failed to store auto reply", slog.Int("contact_id", contact.ID), slog.Any("error", err))
		return
	}
	s.publish(reply)
	s.logger.Debug("auto reply delivered", slog.Int("contact_id", contact.ID))
}

// PendingReplies returns the number of replies not yet delivered
func (s *ChatService) PendingReplies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels undelivered replies, waits for in-flight ones to finish and
// closes every subscription. It is safe to call more than once.
func (s *ChatService) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.pending {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	for contactID, subs := range s.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(s.subs, contactID)
	}
	s.mu.Unlock()

	s.logger.Info("chat service stopped")
}
