package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// fakeAPI is an in-memory client.Client. Err fields, when set, fail the
// matching call; calls records every method invoked.
type fakeAPI struct {
	me    *models.User
	notes []models.Note
	seq   int

	initErr, loginErr, logoutErr, verifyErr, magicErr error
	resetErrs                                         []error
	createErr, updateErr, deleteErr, listErr          error
	emptyReply                                        bool

	calls       []string
	resetTokens []string
	resetPwds   []string
}

func apiErr(status int, msg string, sentinel error) *client.APIError {
	return &client.APIError{Status: status, Message: msg, Err: sentinel}
}

var errNoSession = apiErr(http.StatusUnauthorized, "Authentication required", client.ErrUnauthorized)

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Init(ctx context.Context) error {
	f.record("init")
	return f.initErr
}

func (f *fakeAPI) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	f.record("register")
	f.me = &models.User{ID: "u1", Username: username, Email: email}
	return f.me, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.record("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.me = &models.User{ID: "u1", Username: "ann", Email: email}
	return f.me, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.record("logout")
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.me = nil
	return nil
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.record("me")
	if f.me == nil {
		return nil, errNoSession
	}
	return f.me, nil
}

func (f *fakeAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	f.record("password")
	return nil
}

func (f *fakeAPI) VerifyEmail(ctx context.Context, token string) error {
	f.record("verify:" + token)
	if f.verifyErr != nil {
		return f.verifyErr
	}
	if f.me != nil {
		f.me.EmailVerified = true
	}
	return nil
}

func (f *fakeAPI) ResendVerification(ctx context.Context) error {
	f.record("resend")
	return nil
}

func (f *fakeAPI) RequestMagicLink(ctx context.Context, email string) error {
	f.record("magic-request")
	return nil
}

func (f *fakeAPI) VerifyMagicLink(ctx context.Context, token string) (*models.User, error) {
	f.record("magic:" + token)
	if f.magicErr != nil {
		return nil, f.magicErr
	}
	f.me = &models.User{ID: "u1", Username: "magic", Email: "ann@test.com", EmailVerified: true}
	return f.me, nil
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) error {
	f.record("forgot")
	return nil
}

func (f *fakeAPI) ResetPassword(ctx context.Context, token, password string) error {
	f.record("reset")
	f.resetTokens = append(f.resetTokens, token)
	f.resetPwds = append(f.resetPwds, password)
	if len(f.resetErrs) > 0 {
		err := f.resetErrs[0]
		f.resetErrs = f.resetErrs[1:]
		if err != nil {
			return err
		}
	}
	f.me = &models.User{ID: "u1", Username: "ann", Email: "ann@test.com"}
	return nil
}

func (f *fakeAPI) ListNotes(ctx context.Context) ([]models.Note, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Note(nil), f.notes...), nil
}

func (f *fakeAPI) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	f.record("create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.emptyReply {
		return nil, nil
	}
	f.seq++
	n := models.Note{ID: fmt.Sprintf("n%d", f.seq), Title: in.Title, Body: in.Body}
	f.notes = append([]models.Note{n}, f.notes...)
	return &n, nil
}

func (f *fakeAPI) UpdateNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	f.record("update:" + id)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, n := range f.notes {
		if n.ID == id {
			f.notes[i].Title, f.notes[i].Body = in.Title, in.Body
			out := f.notes[i]
			return &out, nil
		}
	}
	return nil, apiErr(http.StatusNotFound, "Note not found", client.ErrRequestFailed)
}

func (f *fakeAPI) DeleteNote(ctx context.Context, id string) error {
	f.record("delete:" + id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, n := range f.notes {
		if n.ID == id {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return apiErr(http.StatusNotFound, "Note not found", client.ErrRequestFailed)
}
