package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	notes map[string]models.Note
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		notes: make(map[string]models.Note),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := *note
	n.ID = uuid.NewString()
	n.CreatedAt = r.now()
	n.UpdatedAt = n.CreatedAt
	r.notes[n.ID] = n

	return &n, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Note, 0)
	for _, n := range r.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, userID, id, title, body string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	n.Title = title
	n.Body = body
	n.UpdatedAt = r.now()
	r.notes[id] = n

	return &n, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.notes, id)
	return nil
}
