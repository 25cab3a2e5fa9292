package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// shell is the command surface the REPL drives. The real App satisfies it;
// tests can provide a lightweight stub.
type shell interface {
	status() string
	editing() (title, body string, ok bool)
	interactiveInput() bool
	Navigate(ctx context.Context, hash string)
	Dispatch(ctx context.Context, action Action, in Input) error
	followInbox(ctx context.Context, email, route string) error
	changePassword(ctx context.Context, current, next []byte) error
}

const helpText = `Commands:
  go <#route?k=v>        open a page
  register               create an account
  login [email]          sign in with a password
  magic <email>          email me a magic link
  forgot <email>         send a password reset link
  reset [password]       set a new password on the reset page
  inbox <email> <route>  open the latest emailed link (verify-email, magic-link, reset-password)
  resend                 resend the verification email
  add                    write a new note
  edit <id>              edit a note
  save                   save the note being edited
  clear                  stop editing
  delete <id>            delete a note
  passwd                 change your password
  logout                 sign out
  exit | quit            leave the program`

// runREPL reads one command per line from reader and dispatches it on a.
// The loop ends on EOF or "exit"/"quit". Failures are reported on w and never
// end the loop.
func runREPL(ctx context.Context, a shell, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "notes %s> ", a.status())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(w, "Bye!")
			return
		}
		if err := runCommand(ctx, a, cmd, args, reader, w); err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func runCommand(ctx context.Context, a shell, cmd string, args []string, reader *bufio.Reader, w io.Writer) error {
	switch cmd {
	case "help":
		fmt.Fprintln(w, helpText)
		return nil

	case "go":
		if len(args) == 0 {
			return usage("go <#route>")
		}
		a.Navigate(ctx, args[0])
		return nil

	case "register":
		username, err := GetSimpleText(reader, "Name", w)
		if err != nil {
			return err
		}
		email, err := GetSimpleText(reader, "Email", w)
		if err != nil {
			return err
		}
		password, err := GetPassword(reader, "Password", w, a.interactiveInput())
		if err != nil {
			return err
		}
		return a.Dispatch(ctx, ActionRegister, Input{Username: username, Email: email, Password: password})

	case "login":
		email := arg(args, 0)
		if email == "" {
			var err error
			if email, err = GetSimpleText(reader, "Email", w); err != nil {
				return err
			}
		}
		password, err := GetPassword(reader, "Password", w, a.interactiveInput())
		if err != nil {
			return err
		}
		return a.Dispatch(ctx, ActionLogin, Input{Email: email, Password: password})

	case "magic":
		return a.Dispatch(ctx, ActionMagicLink, Input{Email: arg(args, 0)})

	case "forgot":
		return a.Dispatch(ctx, ActionForgotPassword, Input{Email: arg(args, 0)})

	case "reset":
		var password []byte
		if p := arg(args, 0); p != "" {
			password = []byte(p)
		} else {
			var err error
			if password, err = GetPassword(reader, "New password", w, a.interactiveInput()); err != nil {
				return err
			}
		}
		return a.Dispatch(ctx, ActionResetPassword, Input{Password: password})

	case "inbox":
		if len(args) < 2 {
			return usage("inbox <email> <route>")
		}
		return a.followInbox(ctx, args[0], args[1])

	case "resend":
		return a.Dispatch(ctx, ActionResendVerification, Input{})

	case "add":
		if _, _, editing := a.editing(); editing {
			if err := a.Dispatch(ctx, ActionCancelEdit, Input{}); err != nil {
				return err
			}
		}
		title, err := GetSimpleText(reader, "Title", w)
		if err != nil {
			return err
		}
		body, err := GetMultiline(reader, "Body", w)
		if err != nil {
			return err
		}
		return a.Dispatch(ctx, ActionSaveNote, Input{Title: title, Body: body})

	case "edit":
		if len(args) == 0 {
			return usage("edit <id>")
		}
		return a.Dispatch(ctx, ActionEditNote, Input{NoteID: args[0]})

	case "save":
		curTitle, curBody, editing := a.editing()
		if !editing {
			return fmt.Errorf("nothing is being edited, use 'add' or 'edit <id>'")
		}
		title, err := GetSimpleText(reader, fmt.Sprintf("Title [%s]", curTitle), w)
		if err != nil {
			return err
		}
		if title == "" {
			title = curTitle
		}
		body, err := GetMultiline(reader, "Body (empty keeps the current body)", w)
		if err != nil {
			return err
		}
		if body == "" {
			body = curBody
		}
		return a.Dispatch(ctx, ActionSaveNote, Input{Title: title, Body: body})

	case "clear":
		return a.Dispatch(ctx, ActionCancelEdit, Input{})

	case "delete":
		if len(args) == 0 {
			return usage("delete <id>")
		}
		return a.Dispatch(ctx, ActionDeleteNote, Input{NoteID: args[0]})

	case "passwd":
		current, err := GetPassword(reader, "Current password", w, a.interactiveInput())
		if err != nil {
			return err
		}
		next, err := GetPassword(reader, "New password", w, a.interactiveInput())
		if err != nil {
			return err
		}
		return a.changePassword(ctx, current, next)

	case "logout":
		return a.Dispatch(ctx, ActionLogout, Input{})
	}

	return fmt.Errorf("unknown command %q, type 'help'", cmd)
}

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}
