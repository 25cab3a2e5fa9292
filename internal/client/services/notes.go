package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type NoteService interface {
	List(ctx context.Context) ([]models.Note, error)
	Create(ctx context.Context, in models.NoteInput) (*models.Note, error)
	Update(ctx context.Context, id string, in models.NoteInput) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	client client.Client
}

func NewNoteService(c client.Client) NoteService {
	return &noteService{client: c}
}

// NormalizeNote trims title and body and checks both against the size limits.
func NormalizeNote(in models.NoteInput) (models.NoteInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)

	if in.Title == "" || in.Body == "" {
		return in, invalid(MsgNoteRequired)
	}
	if utf8.RuneCountInString(in.Title) > models.MaxTitleLength {
		return in, invalid(MsgTitleLength)
	}
	if utf8.RuneCountInString(in.Body) > models.MaxBodyLength {
		return in, invalid(MsgBodyLength)
	}
	return in, nil
}

func (s *noteService) List(ctx context.Context) ([]models.Note, error) {
	notes, err := s.client.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) Create(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	in, err := NormalizeNote(in)
	if err != nil {
		return nil, err
	}
	n, err := s.client.CreateNote(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (s *noteService) Update(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	in, err := NormalizeNote(in)
	if err != nil {
		return nil, err
	}
	n, err := s.client.UpdateNote(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return n, nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}
