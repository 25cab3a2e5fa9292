package mail

import (
	"context"
	"net/http"
	netmail "net/mail"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/mailbox"
)

// MemoryMailer keeps delivered emails in process and serves them through
// a Mailpit-compatible API, so the mailbox client works against it
// unchanged.
type MemoryMailer struct {
	from mailbox.Address

	mu       sync.RWMutex
	messages []mailbox.Message
}

func NewMemoryMailer(from netmail.Address) *MemoryMailer {
	return &MemoryMailer{from: mailbox.Address{Name: from.Name, Address: from.Address}}
}

func (m *MemoryMailer) Send(ctx context.Context, e Email) error {
	msg := mailbox.Message{
		ID:      uuid.NewString(),
		From:    m.from,
		To:      []mailbox.Address{{Address: e.To}},
		Subject: e.Subject,
		Date:    time.Now().UTC(),
		Text:    e.Text,
		HTML:    e.HTML,
	}

	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	return nil
}

// Messages lists stored messages newest first.
func (m *MemoryMailer) Messages() mailbox.List {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]mailbox.Summary, 0, len(m.messages))
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		out = append(out, mailbox.Summary{
			ID:      msg.ID,
			From:    msg.From,
			To:      msg.To,
			Subject: msg.Subject,
			Created: msg.Date,
		})
	}
	return mailbox.List{Total: len(out), Count: len(out), Messages: out}
}

func (m *MemoryMailer) Message(id string) (mailbox.Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return mailbox.Message{}, false
}

func (m *MemoryMailer) Clear() {
	m.mu.Lock()
	m.messages = nil
	m.mu.Unlock()
}

// RegisterRoutes mounts the inbox API on r.
func (m *MemoryMailer) RegisterRoutes(r gin.IRoutes) {
	r.GET("/api/v1/messages", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.Messages())
	})
	r.DELETE("/api/v1/messages", func(c *gin.Context) {
		m.Clear()
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/message/:id", func(c *gin.Context) {
		msg, ok := m.Message(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusOK, msg)
	})
}
