package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/BradenHooton/dashboard/internal/models"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait    = 10 * time.Second
	streamPongWait     = 60 * time.Second
	streamPingInterval = 30 * time.Second
	streamReadLimit    = 512
)

// ChatService defines the interface for the simulated chat
type ChatService interface {
	ListContacts(ctx context.Context, search string) ([]models.Contact, error)
	Conversation(ctx context.Context, contactID int) ([]*models.Message, error)
	Send(ctx context.Context, contactID int, text string) (*models.Message, error)
	Subscribe(ctx context.Context, contactID int) (<-chan *models.Message, func(), error)
}

// ChatHandler handles chat HTTP and websocket requests
type ChatHandler struct {
	service  ChatService
	upgrader websocket.Upgrader
}

// NewChatHandler creates a new ChatHandler. Browser websocket clients must
// come from one of allowedOrigins; clients that send no Origin are accepted.
func NewChatHandler(service ChatService, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// ContactResponse represents a chat contact in the HTTP response
type ContactResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// MessageResponse represents a chat message in the HTTP response
type MessageResponse struct {
	ID          string `json:"id"`
	SenderID    int    `json:"sender_id"`
	SenderName  string `json:"sender_name"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	DisplayTime string `json:"display_time"`
	IsOwn       bool   `json:"is_own"`
}

// ListContactsResponse lists chat contacts
type ListContactsResponse struct {
	Contacts []*ContactResponse `json:"contacts"`
}

// ConversationResponse lists the messages exchanged with one contact
type ConversationResponse struct {
	ContactID int                `json:"contact_id"`
	Messages  []*MessageResponse `json:"messages"`
}

func messageToResponse(m *models.Message) *MessageResponse {
	return &MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		Message:     m.Body,
		Timestamp:   m.SentAt.UTC().Format(time.RFC3339),
		DisplayTime: m.SentAt.Format("3:04 PM"),
		IsOwn:       m.IsOwn,
	}
}

// RegisterRoutes registers chat routes with the chi router
func (h *ChatHandler) RegisterRoutes(router chi.Router) {
	router.Route("/chat/contacts", func(r chi.Router) {
		r.Get("/", h.ListContacts)              // GET /chat/contacts
		r.Get("/{id}/messages", h.GetMessages)  // GET /chat/contacts/{id}/messages
		r.Post("/{id}/messages", h.SendMessage) // POST /chat/contacts/{id}/messages
		r.Get("/{id}/stream", h.Stream)         // GET /chat/contacts/{id}/stream (websocket)
	})
}

// ListContacts lists contacts, optionally filtered by name
//
// @Summary List chat contacts
// @Param search query string false "Case-insensitive name match"
// @Produce json
// @Success 200 {object} ListContactsResponse
// @Router /chat/contacts [get]
func (h *ChatHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.ListContacts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := &ListContactsResponse{Contacts: make([]*ContactResponse, len(contacts))}
	for i, c := range contacts {
		response.Contacts[i] = &ContactResponse{
			ID:     c.ID,
			Name:   c.Name,
			Role:   c.Role,
			Status: string(c.Status),
		}
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// GetMessages returns the conversation with a contact
//
// @Summary Get conversation
// @Param id path int true "Contact ID"
// @Produce json
// @Success 200 {object} ConversationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chat/contacts/{id}/messages [get]
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parseContactID(w, r)
	if !ok {
		return
	}

	msgs, err := h.service.Conversation(r.Context(), contactID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := &ConversationResponse{
		ContactID: contactID,
		Messages:  make([]*MessageResponse, len(msgs)),
	}
	for i, m := range msgs {
		response.Messages[i] = messageToResponse(m)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// SendMessage posts a message to a contact. The contact answers asynchronously.
//
// @Summary Send chat message
// @Param id path int true "Contact ID"
// @Accept json
// @Param request body SendMessageRequest true "Message"
// @Produce json
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chat/contacts/{id}/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parseContactID(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		writeValidationError(w, err)
		return
	}

	msg, err := h.service.Send(r.Context(), contactID, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, messageToResponse(msg))
}

// Stream pushes new messages of a conversation over a websocket until the
// client disconnects or the chat service shuts down.
//
// @Summary Stream conversation
// @Param id path int true "Contact ID"
// @Success 101
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /chat/contacts/{id}/stream [get]
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	contactID, ok := parseContactID(w, r)
	if !ok {
		return
	}

	msgs, cancel, err := h.service.Subscribe(r.Context(), contactID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		return
	}
	defer conn.Close()

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	// The stream is write-only; reading drives pong and close handling
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "chat stopped")
				_ = conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(streamWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(messageToResponse(msg)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func parseContactID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		pkghttp.WriteBadRequest(w, "Contact ID must be a positive integer")
		return 0, false
	}
	return id, true
}
