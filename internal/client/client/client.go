package client

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Client is the backend contract consumed by the notes client.
type Client interface {
	Init(ctx context.Context) error

	Register(ctx context.Context, email, password, username string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context) error
	RequestMagicLink(ctx context.Context, email string) error
	VerifyMagicLink(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error

	ListNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
}
