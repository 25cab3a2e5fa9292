package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler, opts Options) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	if opts.CSRFRetryDelay == 0 {
		opts.CSRFRetryDelay = time.Millisecond
	}
	c, err := NewHTTPClient(srv.URL, opts)
	require.NoError(t, err)
	return c, srv
}

func TestHTTPClient_AttachesCSRFOnMutatingVerbsOnly(t *testing.T) {
	var gotPost, gotGet string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/csrf", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"token": "tok-1"})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		gotPost = r.Header.Get("X-CSRF-Token")
		writeJSON(w, 200, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		gotGet = r.Header.Get("X-CSRF-Token")
		writeJSON(w, 200, map[string]any{"user": map[string]any{"id": "u1", "email": "a@test.com"}})
	})

	c, _ := newTestClient(t, mux, Options{})
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	assert.Equal(t, "tok-1", c.CSRFToken())

	require.NoError(t, c.Logout(ctx))
	u, err := c.Me(ctx)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", gotPost)
	assert.Empty(t, gotGet)
	assert.Equal(t, "a@test.com", u.Email)
}

func TestHTTPClient_InitRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/csrf", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, 500, map[string]string{"error": "boom"})
			return
		}
		writeJSON(w, 200, map[string]string{"token": "tok-2"})
	})

	c, _ := newTestClient(t, mux, Options{})
	require.NoError(t, c.Init(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "tok-2", c.CSRFToken())
}

func TestHTTPClient_InitGivesUpAfterSecondFailure(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/csrf", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 503, map[string]string{"error": "down"})
	})

	c, _ := newTestClient(t, mux, Options{})
	err := c.Init(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServer))
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, c.CSRFToken())
}

func TestHTTPClient_CSRFRejectionRetriesExactlyOnce(t *testing.T) {
	var tokenCalls, noteCalls atomic.Int32
	var bodies []string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/csrf", func(w http.ResponseWriter, r *http.Request) {
		n := tokenCalls.Add(1)
		writeJSON(w, 200, map[string]string{"token": []string{"", "stale", "fresh"}[n]})
	})
	mux.HandleFunc("POST /api/notes", func(w http.ResponseWriter, r *http.Request) {
		noteCalls.Add(1)
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if r.Header.Get("X-CSRF-Token") != "fresh" {
			writeJSON(w, 403, map[string]string{"error": "Invalid CSRF token"})
			return
		}
		writeJSON(w, 201, map[string]any{"note": map[string]any{"id": uuid.NewString(), "title": "T", "body": "B"}})
	})

	c, _ := newTestClient(t, mux, Options{})
	ctx := context.Background()
	require.NoError(t, c.Init(ctx))

	note, err := c.CreateNote(ctx, models.NoteInput{Title: "T", Body: "B"})
	require.NoError(t, err)
	assert.Equal(t, "T", note.Title)
	assert.Equal(t, int32(2), noteCalls.Load())
	assert.Equal(t, int32(2), tokenCalls.Load())
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1], "replay must send identical payload")
}

func TestHTTPClient_SecondCSRFRejectionSurfaces(t *testing.T) {
	var noteCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/csrf", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"token": "always-stale"})
	})
	mux.HandleFunc("POST /api/notes", func(w http.ResponseWriter, r *http.Request) {
		noteCalls.Add(1)
		writeJSON(w, 403, map[string]string{"error": "invalid CSRF token"})
	})

	c, _ := newTestClient(t, mux, Options{})
	ctx := context.Background()
	require.NoError(t, c.Init(ctx))

	_, err := c.CreateNote(ctx, models.NoteInput{Title: "T", Body: "B"})
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "invalid CSRF token", err.Error())
	assert.Equal(t, int32(2), noteCalls.Load())
}

func TestHTTPClient_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantMsg  string
		sentinel error
		calls    int32
	}{
		{name: "401 default", status: 401, wantMsg: "Session expired. Please log in again.", sentinel: ErrUnauthorized, calls: 1},
		{name: "401 backend message", status: 401, body: map[string]string{"error": "Authentication required"}, wantMsg: "Authentication required", sentinel: ErrUnauthorized, calls: 1},
		{name: "403 non-csrf", status: 403, body: map[string]string{"error": "not yours"}, wantMsg: "not yours", sentinel: ErrForbidden, calls: 1},
		{name: "403 default", status: 403, wantMsg: "Access denied.", sentinel: ErrForbidden, calls: 1},
		{name: "500 default", status: 500, wantMsg: "Server error. Please try again later.", sentinel: ErrServer, calls: 1},
		{name: "502 backend message", status: 502, body: map[string]string{"error": "upstream"}, wantMsg: "upstream", sentinel: ErrServer, calls: 1},
		{name: "400 backend message", status: 400, body: map[string]string{"error": "Title is required"}, wantMsg: "Title is required", sentinel: ErrRequestFailed, calls: 1},
		{name: "404 fallback", status: 404, wantMsg: "Request failed", sentinel: ErrRequestFailed, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			c, _ := newTestClient(t, h, Options{})

			err := c.ForgotPassword(context.Background(), "a@test.com")
			require.Error(t, err)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Equal(t, tt.calls, calls.Load())
		})
	}
}

func TestHTTPClient_TimeoutIsStatusZero(t *testing.T) {
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c, _ := newTestClient(t, h, Options{Timeout: 50 * time.Millisecond})
	defer close(release)

	_, err := c.ListNotes(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "Request timed out. Please check your connection.", err.Error())
}

func TestHTTPClient_OfflineIsDistinctFromConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, Options{})
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.True(t, errors.Is(err, ErrOffline))
	assert.False(t, errors.Is(err, ErrConnection))
	assert.Equal(t, "No internet connection. Please check your network.", err.Error())
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection reset by peer")
}

func TestHTTPClient_GenericConnectionError(t *testing.T) {
	c, err := NewHTTPClient("http://backend.invalid", Options{Transport: failingTransport{}})
	require.NoError(t, err)

	err = c.Logout(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.True(t, errors.Is(err, ErrConnection))
	assert.Equal(t, "Connection error. Please try again.", err.Error())
}

func TestHTTPClient_VerifyMagicLinkSendsTokenInQuery(t *testing.T) {
	var gotToken string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/magic-link/verify", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		writeJSON(w, 200, map[string]any{"user": map[string]any{"id": "u1", "username": "magic"}})
	})
	c, _ := newTestClient(t, mux, Options{})

	u, err := c.VerifyMagicLink(context.Background(), "ab12&x=1")
	require.NoError(t, err)
	assert.Equal(t, "ab12&x=1", gotToken)
	assert.Equal(t, "magic", u.Username)
}

func TestHTTPClient_RejectsNonUUIDNoteIDs(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}), Options{})

	err := c.DeleteNote(context.Background(), "../auth/logout")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNoteID))

	_, err = c.UpdateNote(context.Background(), "nope", models.NoteInput{Title: "t", Body: "b"})
	assert.True(t, errors.Is(err, ErrInvalidNoteID))
	assert.Equal(t, int32(0), calls.Load())
}

func TestHTTPClient_ListNotesEmpty(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"notes": nil})
	}), Options{})

	notes, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestHTTPClient_NoteReplyWithoutNoteIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/notes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, map[string]any{})
	})
	mux.HandleFunc("PUT /api/notes/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
	c, _ := newTestClient(t, mux, Options{})
	ctx := context.Background()

	n, err := c.CreateNote(ctx, models.NoteInput{Title: "t", Body: "b"})
	assert.Nil(t, n)
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	n, err = c.UpdateNote(ctx, uuid.NewString(), models.NoteInput{Title: "t", Body: "b"})
	assert.Nil(t, n)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}
