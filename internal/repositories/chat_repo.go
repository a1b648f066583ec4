package repositories

import (
	"context"
	"slices"
	"sync"

	"github.com/BradenHooton/dashboard/internal/models"
)

// DefaultContacts is the address book the chat starts with
func DefaultContacts() []models.Contact {
	return []models.Contact{
		{ID: 1, Name: "Sarah Johnson", Role: "Product Manager", Status: models.PresenceOnline},
		{ID: 2, Name: "Mike Chen", Role: "Lead Developer", Status: models.PresenceOnline},
		{ID: 3, Name: "Emily Davis", Role: "UX Designer", Status: models.PresenceAway},
		{ID: 4, Name: "David Wilson", Role: "Data Analyst", Status: models.PresenceOffline},
		{ID: 5, Name: "Lisa Anderson", Role: "Support Lead", Status: models.PresenceOnline},
	}
}

// ChatRepository keeps contacts and their conversations in memory.
// Conversations last for the lifetime of the process.
type ChatRepository struct {
	mu           sync.RWMutex
	contacts     []models.Contact
	conversation map[int][]*models.Message
}

// NewChatRepository creates a repository with the given contacts and optional opening messages
func NewChatRepository(contacts []models.Contact, initial []*models.Message) *ChatRepository {
	r := &ChatRepository{
		contacts:     slices.Clone(contacts),
		conversation: make(map[int][]*models.Message, len(contacts)),
	}
	for _, m := range initial {
		r.conversation[m.ContactID] = append(r.conversation[m.ContactID], m)
	}
	return r
}

// ListContacts returns a copy of every contact
func (r *ChatRepository) ListContacts(ctx context.Context) ([]models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.contacts), nil
}

func (r *ChatRepository) GetContact(ctx context.Context, id int) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.contacts {
		if r.contacts[i].ID == id {
			c := r.contacts[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

// ListMessages returns the conversation with a contact, oldest first
func (r *ChatRepository) ListMessages(ctx context.Context, contactID int) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.conversation[contactID]
	out := make([]*models.Message, len(msgs))
	for i, m := range msgs {
		cp := *m
		out[i] = &cp
	}
	return out, nil
}

// AppendMessage adds a message to the end of its conversation
func (r *ChatRepository) AppendMessage(ctx context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.ContainsFunc(r.contacts, func(c models.Contact) bool { return c.ID == msg.ContactID }) {
		return models.ErrNotFound
	}

	cp := *msg
	r.conversation[msg.ContactID] = append(r.conversation[msg.ContactID], &cp)
	return nil
}
