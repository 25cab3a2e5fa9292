package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer draws a full screen and transient notifications.
type Renderer interface {
	Render(w io.Writer, s Screen) error
	Toast(w io.Writer, message string) error
}

// HTMLRenderer produces the same DOM the browser client builds.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

func (r *HTMLRenderer) Render(w io.Writer, s Screen) error {
	return r.tmpl.ExecuteTemplate(w, "layout", s)
}

// Toast writes a notification fragment for the toast container.
func (r *HTMLRenderer) Toast(w io.Writer, message string) error {
	_, err := io.WriteString(w, `<div class="toast toast--visible">`+EscapeHTML(message)+"</div>\n")
	return err
}

// TextRenderer draws pages for a terminal.
type TextRenderer struct{}

func (TextRenderer) Render(w io.Writer, s Screen) error {
	var b strings.Builder
	p := s.Page

	if s.Nav.Authenticated {
		b.WriteString("[ Notes | Sign out ]\n")
	} else {
		b.WriteString("[ Sign in | Create account ]\n")
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")

	if p.Heading != "" {
		b.WriteString("# " + p.Heading + "\n")
	}
	if p.Message != "" {
		b.WriteString(p.Message + "\n")
	}
	if p.Pill != "" {
		b.WriteString("(" + p.Pill + ")\n")
	}

	switch p.Kind {
	case KindNotes:
		b.WriteString("Hello " + p.Greeting + "\n")
		if p.Form.Editing {
			b.WriteString("Editing: " + p.Form.Title + "\n")
		}
		b.WriteString("Recent notes: " + p.NotesCount() + "\n")
		if len(p.Notes) == 0 {
			b.WriteString("  No notes yet. Write your first one.\n")
		}
		for _, n := range p.Notes {
			fmt.Fprintf(&b, "  [%s] %s\n", n.ID, n.Title)
			for _, line := range strings.Split(n.Body, "\n") {
				b.WriteString("      " + line + "\n")
			}
		}
	case KindCheckEmail:
		if p.ShowResend {
			b.WriteString("Type 'resend' to send the verification email again.\n")
		}
	case KindResetPassword:
		b.WriteString("Type 'reset' to choose a new password.\n")
	}

	for _, l := range p.Links {
		fmt.Fprintf(&b, "-> %s (%s)\n", l.Label, l.Href)
	}
	for _, t := range s.Toasts {
		b.WriteString("! " + t + "\n")
	}

	_, err := io.WriteString(w, StripControl(b.String()))
	return err
}

func (TextRenderer) Toast(w io.Writer, message string) error {
	_, err := fmt.Fprintf(w, "! %s\n", StripControl(message))
	return err
}
