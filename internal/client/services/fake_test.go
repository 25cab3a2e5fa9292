package services

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// fakeClient implements client.Client for unit tests. Unset behaviour
// returns zero values.
type fakeClient struct {
	client.Client

	User    *models.User
	Err     error
	Notes   []models.Note
	Created *models.Note

	calls    []string
	lastArgs []string
	lastNote models.NoteInput
}

func (f *fakeClient) record(name string, args ...string) {
	f.calls = append(f.calls, name)
	f.lastArgs = args
}

func (f *fakeClient) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	f.record("Register", email, password, username)
	return f.User, f.Err
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.record("Login", email, password)
	return f.User, f.Err
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("Logout")
	return f.Err
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.record("Me")
	return f.User, f.Err
}

func (f *fakeClient) ChangePassword(ctx context.Context, current, next string) error {
	f.record("ChangePassword", current, next)
	return f.Err
}

func (f *fakeClient) RequestMagicLink(ctx context.Context, email string) error {
	f.record("RequestMagicLink", email)
	return f.Err
}

func (f *fakeClient) ForgotPassword(ctx context.Context, email string) error {
	f.record("ForgotPassword", email)
	return f.Err
}

func (f *fakeClient) ResetPassword(ctx context.Context, token, password string) error {
	f.record("ResetPassword", token, password)
	return f.Err
}

func (f *fakeClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	f.record("ListNotes")
	return f.Notes, f.Err
}

func (f *fakeClient) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	f.record("CreateNote")
	f.lastNote = in
	return f.Created, f.Err
}

func (f *fakeClient) UpdateNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	f.record("UpdateNote", id)
	f.lastNote = in
	return f.Created, f.Err
}

func (f *fakeClient) DeleteNote(ctx context.Context, id string) error {
	f.record("DeleteNote", id)
	return f.Err
}
