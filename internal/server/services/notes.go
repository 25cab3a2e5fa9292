package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// NoteService manages notes of a single owner per call.
type NoteService struct {
	repomanager repomanager.RepositoryManager
}

func NewNoteService(m repomanager.RepositoryManager) *NoteService {
	return &NoteService{repomanager: m}
}

// normalize trims title and body and checks their lengths in characters.
func normalize(title, body string) (string, string, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(title); n < 1 || n > models.MaxTitleLength {
		return "", "", invalid(MsgTitleLength)
	}
	if n := utf8.RuneCountInString(body); n < 1 || n > models.MaxBodyLength {
		return "", "", invalid(MsgBodyLength)
	}
	return title, body, nil
}

func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	notes, err := s.repomanager.Notes().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, userID, title, body string) (*models.Note, error) {
	title, body, err := normalize(title, body)
	if err != nil {
		return nil, err
	}
	note, err := s.repomanager.Notes().Create(ctx, &models.Note{UserID: userID, Title: title, Body: body})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, userID, id, title, body string) (*models.Note, error) {
	title, body, err := normalize(title, body)
	if err != nil {
		return nil, err
	}
	note, err := s.repomanager.Notes().Update(ctx, userID, id, title, body)
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Notes().Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}
