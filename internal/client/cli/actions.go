package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/router"
	"github.com/dmitrijs2005/gophnotes/internal/client/tokenflow"
	"github.com/dmitrijs2005/gophnotes/internal/client/view"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Action is a user interaction: a click on a control or a form submission.
type Action int

const (
	ActionLogout Action = iota + 1
	ActionResendVerification
	ActionEditNote
	ActionDeleteNote
	ActionCancelEdit
	ActionMagicLink

	ActionRegister
	ActionLogin
	ActionForgotPassword
	ActionResetPassword
	ActionSaveNote
)

var actionNames = map[Action]string{
	ActionLogout:             "logout",
	ActionResendVerification: "resend-verification",
	ActionEditNote:           "edit-note",
	ActionDeleteNote:         "delete-note",
	ActionCancelEdit:         "cancel-edit",
	ActionMagicLink:          "magic-link",
	ActionRegister:           "register",
	ActionLogin:              "login",
	ActionForgotPassword:     "forgot-password",
	ActionResetPassword:      "reset-password",
	ActionSaveNote:           "save-note",
}

// String returns the data-action name used in the markup.
func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction maps a data-action name to its Action.
func ParseAction(name string) (Action, bool) {
	for a, s := range actionNames {
		if s == name {
			return a, true
		}
	}
	return 0, false
}

// Submit reports whether the action is a form submission.
func (a Action) Submit() bool {
	return a >= ActionRegister && a <= ActionSaveNote
}

var ErrUnknownAction = errors.New("unknown action")

// Input carries what the control or form provided. Password is wiped once
// the action has run.
type Input struct {
	Username string
	Email    string
	Password []byte
	Token    string
	NoteID   string
	Title    string
	Body     string
}

type handler func(a *App, ctx context.Context, in Input)

var handlers = map[Action]handler{
	ActionLogout:             (*App).logout,
	ActionResendVerification: (*App).resendVerification,
	ActionEditNote:           (*App).editNote,
	ActionDeleteNote:         (*App).deleteNote,
	ActionCancelEdit:         (*App).cancelEdit,
	ActionMagicLink:          (*App).magicLink,
	ActionRegister:           (*App).register,
	ActionLogin:              (*App).login,
	ActionForgotPassword:     (*App).forgotPassword,
	ActionResetPassword:      (*App).resetPassword,
	ActionSaveNote:           (*App).saveNote,
}

// Dispatch runs action. Failures of the action itself are shown as toasts;
// only an unknown action is reported as an error.
func (a *App) Dispatch(ctx context.Context, action Action, in Input) error {
	h, ok := handlers[action]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownAction, action)
	}
	defer common.WipeByteArray(in.Password)

	a.logger.Debug(ctx, "dispatch", "action", action, "submit", action.Submit())
	h(a, ctx, in)
	return nil
}

func checkEmailLink(typ, email string) string {
	return router.Link(router.CheckEmail, map[string]string{"type": typ, "email": email})
}

// logout clears local state even when the backend call fails.
func (a *App) logout(ctx context.Context, _ Input) {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Debug(ctx, "logout failed", "error", err)
	}
	a.state = a.state.SignedOut()
	a.Navigate(ctx, "#home")
}

func (a *App) resendVerification(ctx context.Context, _ Input) {
	if err := a.auth.ResendVerification(ctx); err != nil {
		a.toastErr(ctx, err, "Unable to resend verification.")
	} else {
		a.toast("Verification email sent.")
	}
	a.redraw(ctx)
}

// editNote is a no-op for ids that are not in the cache.
func (a *App) editNote(ctx context.Context, in Input) {
	s, ok := a.state.StartEditing(in.NoteID)
	if !ok {
		return
	}
	a.state = s
	a.redraw(ctx)
}

func (a *App) cancelEdit(ctx context.Context, _ Input) {
	a.state = a.state.StopEditing()
	a.redraw(ctx)
}

func (a *App) deleteNote(ctx context.Context, in Input) {
	if in.NoteID == "" {
		return
	}
	if err := a.notes.Delete(ctx, in.NoteID); err != nil {
		a.toastErr(ctx, err, "Unable to delete note.")
	} else {
		a.state = a.state.RemoveNote(in.NoteID)
		a.toast("Note deleted.")
	}
	a.redraw(ctx)
}

func (a *App) saveNote(ctx context.Context, in Input) {
	input := models.NoteInput{Title: in.Title, Body: in.Body}

	var (
		n   *models.Note
		err error
		msg string
	)
	if a.state.Editing() {
		n, err = a.notes.Update(ctx, a.state.EditingID, input)
		msg = "Note updated."
	} else {
		n, err = a.notes.Create(ctx, input)
		msg = "Note added."
	}
	if err == nil && n == nil {
		err = client.ErrEmptyResponse
	}
	if err != nil {
		a.toastErr(ctx, err, "Unable to save note.")
		a.redraw(ctx)
		return
	}

	if a.state.Editing() {
		a.state = a.state.ReplaceNote(*n)
	} else {
		a.state = a.state.PrependNote(*n)
	}
	a.state = a.state.StopEditing()
	a.toast(msg)
	a.redraw(ctx)
}

func (a *App) magicLink(ctx context.Context, in Input) {
	if err := a.auth.RequestMagicLink(ctx, in.Email); err != nil {
		a.toastErr(ctx, err, "Unable to send magic link.")
		a.redraw(ctx)
		return
	}
	a.Navigate(ctx, checkEmailLink(view.CheckMagicLink, in.Email))
}

func (a *App) register(ctx context.Context, in Input) {
	u, err := a.auth.Register(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		a.toastErr(ctx, err, "Unable to register.")
		a.redraw(ctx)
		return
	}
	a.state = a.state.WithUser(u)
	a.Navigate(ctx, checkEmailLink(view.CheckVerification, in.Email))
}

func (a *App) login(ctx context.Context, in Input) {
	u, err := a.auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		a.toastErr(ctx, err, "Unable to sign in.")
		a.redraw(ctx)
		return
	}
	a.state = a.state.WithUser(u)
	a.Navigate(ctx, "#app")
}

func (a *App) forgotPassword(ctx context.Context, in Input) {
	if err := a.auth.ForgotPassword(ctx, in.Email); err != nil {
		a.toastErr(ctx, err, "Unable to send reset email.")
		a.redraw(ctx)
		return
	}
	a.Navigate(ctx, checkEmailLink(view.CheckReset, in.Email))
}

// resetPassword redeems the reset token carried by the open reset form, or
// in.Token when given. A failed attempt leaves the form open with a fresh
// flow so the user can try again by hand.
func (a *App) resetPassword(ctx context.Context, in Input) {
	token := in.Token
	if token == "" && a.flow != nil && a.flow.Kind() == tokenflow.ResetPassword {
		token = a.flow.Token()
	}
	if token == "" {
		a.toast("Open the reset link from your email first.")
		a.redraw(ctx)
		return
	}

	flow := a.flow
	if flow == nil || flow.Token() != token || flow.State() != tokenflow.Pending {
		flow = tokenflow.New(tokenflow.ResetPassword, token)
	}

	err := flow.Redeem(ctx, nil, func(ctx context.Context, token string) error {
		return a.auth.ResetPassword(ctx, token, in.Password)
	})
	if err != nil {
		a.flow = tokenflow.New(tokenflow.ResetPassword, token)
		a.toastErr(ctx, err, tokenflow.ResetPassword.FallbackMessage())
		a.redraw(ctx)
		return
	}

	a.checkAuth(ctx)
	a.Navigate(ctx, "#app")
}
