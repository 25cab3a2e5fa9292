// Package view describes what each client route shows and renders it either
// as HTML markup or as plain text for the terminal.
//
// Builders in this file turn session data into a Page; renderers never see
// anything else. All user-controlled strings reach HTML only through
// html/template contextual escaping.
package view

import (
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/router"
	"github.com/dmitrijs2005/gophnotes/internal/client/session"
)

type Kind string

const (
	KindHome           Kind = "home"
	KindLogin          Kind = "login"
	KindRegister       Kind = "register"
	KindCheckEmail     Kind = "check-email"
	KindLoading        Kind = "loading"
	KindMessage        Kind = "message"
	KindForgotPassword Kind = "forgot-password"
	KindResetPassword  Kind = "reset-password"
	KindNotes          Kind = "notes"
	KindNotFound       Kind = "not-found"
)

type Link struct {
	Href  string
	Label string
}

// Form carries prefilled form values.
type Form struct {
	Email   string
	Token   string
	Title   string
	Body    string
	Editing bool
}

type Page struct {
	Kind       Kind
	Heading    string
	Message    string
	Pill       string
	Greeting   string
	ShowResend bool
	Links      []Link
	Form       Form
	Notes      []models.Note
}

// NotesCount renders "0 notes", "1 note", "N notes".
func (p Page) NotesCount() string {
	return CountNotes(len(p.Notes))
}

func CountNotes(n int) string {
	if n == 1 {
		return "1 note"
	}
	return fmt.Sprintf("%d notes", n)
}

// Nav is the navigation bar state.
type Nav struct {
	Authenticated bool
}

// Screen is everything drawn at once: navigation, the page and any pending
// notifications.
type Screen struct {
	Nav    Nav
	Page   Page
	Toasts []string
}

var backToSignIn = Link{Href: router.Link(router.Login, nil), Label: "Back to sign in"}

func HomePage() Page {
	return Page{
		Kind:    KindHome,
		Heading: "Capture the ideas that matter.",
		Message: "A lightweight notes app with email-first authentication, built to be forked and customized.",
	}
}

func LoginPage(email string) Page {
	return Page{
		Kind:    KindLogin,
		Heading: "Welcome back",
		Message: "Sign in with your password or request a magic link.",
		Form:    Form{Email: email},
	}
}

func RegisterPage() Page {
	return Page{
		Kind:    KindRegister,
		Heading: "Create your account",
		Message: "Start with a verified email and a secure password.",
	}
}

// CheckEmail types used in #check-email?type=...
const (
	CheckVerification = "verification"
	CheckMagicLink    = "magic-link"
	CheckReset        = "reset"
)

// CheckEmailPage tells the user which email to look for. Unknown types get a
// generic message.
func CheckEmailPage(params map[string]string) Page {
	typ := params["type"]
	if typ == "" {
		typ = CheckVerification
	}

	p := Page{Kind: KindCheckEmail, Pill: params["email"]}
	switch typ {
	case CheckVerification:
		p.Heading = "Verify your email"
		p.Message = "We sent you a verification link. Open it to activate your account."
		p.ShowResend = true
	case CheckMagicLink:
		p.Heading = "Check your inbox"
		p.Message = "Open the magic link to sign in without a password."
	case CheckReset:
		p.Heading = "Reset link sent"
		p.Message = "Use the reset link to choose a new password."
	default:
		p.Heading = "Check your email"
		p.Message = "Check your inbox for the next step."
	}
	return p
}

func LoadingPage(text string) Page {
	return Page{Kind: KindLoading, Message: text}
}

func EmailVerifiedPage() Page {
	return Page{
		Kind:    KindMessage,
		Heading: "Email verified",
		Message: "Your email is confirmed. You can keep going now.",
		Links:   []Link{{Href: router.Link(router.App, nil), Label: "Open notes"}},
	}
}

// FailurePage is the terminal view of a failed token redemption.
func FailurePage(heading, message string) Page {
	return Page{
		Kind:    KindMessage,
		Heading: heading,
		Message: message,
		Links:   []Link{backToSignIn},
	}
}

func ForgotPasswordPage() Page {
	return Page{
		Kind:    KindForgotPassword,
		Heading: "Reset your password",
		Message: "We will email you a link to reset your password.",
	}
}

func ResetPasswordPage(token string) Page {
	return Page{
		Kind:    KindResetPassword,
		Heading: "Create a new password",
		Message: "Choose a strong password to secure your account.",
		Form:    Form{Token: token},
	}
}

func NotFoundPage() Page {
	return Page{
		Kind:    KindNotFound,
		Heading: "Page not found",
		Message: "That route doesn't exist. Try the home page.",
		Links:   []Link{{Href: router.Link(router.Home, nil), Label: "Back home"}},
	}
}

// NotesPage shows the cached notes and the note form. When a note is being
// edited its values prefill the form.
func NotesPage(s session.State) Page {
	p := Page{
		Kind:     KindNotes,
		Heading:  "Your notes",
		Greeting: "there",
		Notes:    s.Notes,
	}
	if s.User != nil {
		if s.User.Username != "" {
			p.Greeting = s.User.Username
		}
		p.Pill = s.User.Email
	}
	if n, ok := s.FindNote(s.EditingID); ok && s.Editing() {
		p.Form = Form{Editing: true, Title: n.Title, Body: n.Body}
	}
	return p
}
