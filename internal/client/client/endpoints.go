package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type userEnvelope struct {
	User *models.User `json:"user"`
}

type noteEnvelope struct {
	Note *models.Note `json:"note"`
}

type notesEnvelope struct {
	Notes []models.Note `json:"notes"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	var resp userEnvelope
	body := map[string]string{"email": email, "password": password, "username": username}
	if err := c.request(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp userEnvelope
	body := map[string]string{"email": email, "password": password}
	if err := c.request(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.request(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me reports the user bound to the current session cookie.
func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var resp userEnvelope
	if err := c.request(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"current_password": currentPassword, "new_password": newPassword}
	return c.request(ctx, http.MethodPost, "/api/auth/password", body, nil)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) error {
	return c.request(ctx, http.MethodPost, "/api/auth/verify-email", map[string]string{"token": token}, nil)
}

func (c *HTTPClient) ResendVerification(ctx context.Context) error {
	return c.request(ctx, http.MethodPost, "/api/auth/resend-verification", nil, nil)
}

func (c *HTTPClient) RequestMagicLink(ctx context.Context, email string) error {
	return c.request(ctx, http.MethodPost, "/api/auth/magic-link", map[string]string{"email": email}, nil)
}

// VerifyMagicLink redeems a magic-link token; on success the backend sets a
// fresh session cookie and returns the signed-in user.
func (c *HTTPClient) VerifyMagicLink(ctx context.Context, token string) (*models.User, error) {
	var resp userEnvelope
	path := "/api/auth/magic-link/verify?" + url.Values{"token": {token}}.Encode()
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.request(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return c.request(ctx, http.MethodPost, "/api/auth/reset-password", body, nil)
}

func (c *HTTPClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	var resp notesEnvelope
	if err := c.request(ctx, http.MethodGet, "/api/notes", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Notes == nil {
		return []models.Note{}, nil
	}
	return resp.Notes, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	var resp noteEnvelope
	if err := c.request(ctx, http.MethodPost, "/api/notes", in, &resp); err != nil {
		return nil, err
	}
	if resp.Note == nil {
		return nil, fmt.Errorf("create note: %w", ErrEmptyResponse)
	}
	return resp.Note, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	path, err := notePath(id)
	if err != nil {
		return nil, err
	}
	var resp noteEnvelope
	if err := c.request(ctx, http.MethodPut, path, in, &resp); err != nil {
		return nil, err
	}
	if resp.Note == nil {
		return nil, fmt.Errorf("update note %s: %w", id, ErrEmptyResponse)
	}
	return resp.Note, nil
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id string) error {
	path, err := notePath(id)
	if err != nil {
		return err
	}
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// notePath only accepts UUIDs, so a note id can never rewrite the URL.
func notePath(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidNoteID, id)
	}
	return "/api/notes/" + parsed.String(), nil
}
