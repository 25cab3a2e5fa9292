// Package repomanager groups the repositories the services depend on so
// they can be swapped as one unit.
package repomanager

import (
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Notes() notes.Repository
	Tokens() tokens.Repository
}

// InMemoryManager keeps everything in process memory. Data is lost on
// restart.
type InMemoryManager struct {
	users  *users.MemoryRepository
	notes  *notes.MemoryRepository
	tokens *tokens.MemoryRepository
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		users:  users.NewMemoryRepository(),
		notes:  notes.NewMemoryRepository(),
		tokens: tokens.NewMemoryRepository(),
	}
}

func (m *InMemoryManager) Users() users.Repository   { return m.users }
func (m *InMemoryManager) Notes() notes.Repository   { return m.notes }
func (m *InMemoryManager) Tokens() tokens.Repository { return m.tokens }
