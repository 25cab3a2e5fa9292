package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type dispatched struct {
	action   Action
	in       Input
	password string
}

type fakeShell struct {
	editTitle, editBody string
	isEditing           bool

	hashes     []string
	dispatches []dispatched
	inbox      [][2]string
	passwords  [][2]string
	inboxErr   error
}

func (f *fakeShell) status() string { return "(#home)" }

func (f *fakeShell) editing() (string, string, bool) {
	return f.editTitle, f.editBody, f.isEditing
}

func (f *fakeShell) interactiveInput() bool { return false }

func (f *fakeShell) Navigate(ctx context.Context, hash string) {
	f.hashes = append(f.hashes, hash)
}

func (f *fakeShell) Dispatch(ctx context.Context, action Action, in Input) error {
	f.dispatches = append(f.dispatches, dispatched{action: action, in: in, password: string(in.Password)})
	if action == ActionCancelEdit {
		f.isEditing = false
	}
	return nil
}

func (f *fakeShell) followInbox(ctx context.Context, email, route string) error {
	f.inbox = append(f.inbox, [2]string{email, route})
	return f.inboxErr
}

func (f *fakeShell) changePassword(ctx context.Context, current, next []byte) error {
	f.passwords = append(f.passwords, [2]string{string(current), string(next)})
	return nil
}

func runLines(t *testing.T, sh *fakeShell, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(context.Background(), sh, reader, &out)
	return out.String()
}

func TestRunREPL_HelpUnknownAndExit(t *testing.T) {
	sh := &fakeShell{}
	out := runLines(t, sh, "help", "", "frobnicate", "exit", "help")

	if !strings.Contains(out, "Commands:") {
		t.Fatalf("help text missing: %q", out)
	}
	if !strings.Contains(out, `Error: unknown command "frobnicate", type 'help'`) {
		t.Fatalf("unknown command not reported: %q", out)
	}
	if !strings.HasSuffix(out, "Bye!\n") {
		t.Fatalf("exit must end the loop with Bye!, got %q", out)
	}
	if strings.Count(out, "Commands:") != 1 {
		t.Fatalf("commands after exit must not run: %q", out)
	}
	if !strings.Contains(out, "notes (#home)> ") {
		t.Fatalf("prompt missing: %q", out)
	}
}

func TestRunREPL_QuitAndEOF(t *testing.T) {
	out := runLines(t, &fakeShell{}, "quit")
	if !strings.Contains(out, "Bye!") {
		t.Fatalf("quit: got %q", out)
	}

	var buf bytes.Buffer
	runREPL(context.Background(), &fakeShell{}, bufio.NewReader(strings.NewReader("")), &buf)
	if strings.Contains(buf.String(), "Bye!") {
		t.Fatalf("EOF should end silently, got %q", buf.String())
	}
}

func TestRunREPL_UsageErrors(t *testing.T) {
	sh := &fakeShell{}
	out := runLines(t, sh, "go", "edit", "delete", "inbox a@test.com", "save", "exit")

	for _, want := range []string{
		"Error: usage: go <#route>",
		"Error: usage: edit <id>",
		"Error: usage: delete <id>",
		"Error: usage: inbox <email> <route>",
		"Error: nothing is being edited, use 'add' or 'edit <id>'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if len(sh.dispatches) != 0 || len(sh.hashes) != 0 || len(sh.inbox) != 0 {
		t.Fatalf("usage errors must not reach the app: %+v %v %v", sh.dispatches, sh.hashes, sh.inbox)
	}
}

func TestRunREPL_NavigationAndInbox(t *testing.T) {
	sh := &fakeShell{inboxErr: errors.New("no mailbox configured")}
	out := runLines(t, sh, "go #verify-email?token=abc", "inbox ann@test.com verify-email", "exit")

	if len(sh.hashes) != 1 || sh.hashes[0] != "#verify-email?token=abc" {
		t.Fatalf("navigations: %v", sh.hashes)
	}
	if len(sh.inbox) != 1 || sh.inbox[0] != [2]string{"ann@test.com", "verify-email"} {
		t.Fatalf("inbox calls: %v", sh.inbox)
	}
	if !strings.Contains(out, "Error: no mailbox configured") {
		t.Fatalf("inbox error not shown: %q", out)
	}
}

func TestRunREPL_LoginReadsPasswordFromInput(t *testing.T) {
	sh := &fakeShell{}
	runLines(t, sh, "login ann@test.com", "s3cret-pass", "login", "bob@test.com", "other-pass", "exit")

	if len(sh.dispatches) != 2 {
		t.Fatalf("dispatches: %+v", sh.dispatches)
	}
	first, second := sh.dispatches[0], sh.dispatches[1]
	if first.action != ActionLogin || first.in.Email != "ann@test.com" || first.password != "s3cret-pass" {
		t.Fatalf("first login: %+v", first)
	}
	if second.in.Email != "bob@test.com" || second.password != "other-pass" {
		t.Fatalf("second login: %+v", second)
	}
}

func TestRunREPL_RegisterAndPasswd(t *testing.T) {
	sh := &fakeShell{}
	runLines(t, sh, "register", "Ann", "ann@test.com", "password123", "passwd", "old-pass", "new-pass-1", "exit")

	if len(sh.dispatches) != 1 {
		t.Fatalf("dispatches: %+v", sh.dispatches)
	}
	d := sh.dispatches[0]
	if d.action != ActionRegister || d.in.Username != "Ann" || d.in.Email != "ann@test.com" || d.password != "password123" {
		t.Fatalf("register: %+v", d)
	}
	if len(sh.passwords) != 1 || sh.passwords[0] != [2]string{"old-pass", "new-pass-1"} {
		t.Fatalf("passwd: %v", sh.passwords)
	}
}

func TestRunREPL_AddDispatchesSaveNote(t *testing.T) {
	sh := &fakeShell{isEditing: true, editTitle: "Old", editBody: "Old body"}
	runLines(t, sh, "add", "Groceries", "milk", "eggs", "", "exit")

	if len(sh.dispatches) != 2 {
		t.Fatalf("dispatches: %+v", sh.dispatches)
	}
	if sh.dispatches[0].action != ActionCancelEdit {
		t.Fatalf("add while editing must cancel the edit first, got %v", sh.dispatches[0].action)
	}
	save := sh.dispatches[1]
	if save.action != ActionSaveNote || save.in.Title != "Groceries" || save.in.Body != "milk\neggs" {
		t.Fatalf("save: %+v", save)
	}
}

func TestRunREPL_SaveKeepsCurrentValues(t *testing.T) {
	sh := &fakeShell{isEditing: true, editTitle: "Old", editBody: "Old body"}
	runLines(t, sh, "save", "", "", "exit")

	if len(sh.dispatches) != 1 {
		t.Fatalf("dispatches: %+v", sh.dispatches)
	}
	if in := sh.dispatches[0].in; in.Title != "Old" || in.Body != "Old body" {
		t.Fatalf("save should keep current values, got %+v", in)
	}
}

func TestRunREPL_SimpleActions(t *testing.T) {
	sh := &fakeShell{}
	runLines(t, sh, "magic ann@test.com", "forgot ann@test.com", "reset newpass99", "resend", "edit n1", "clear", "delete n1", "logout", "exit")

	want := []Action{
		ActionMagicLink, ActionForgotPassword, ActionResetPassword, ActionResendVerification,
		ActionEditNote, ActionCancelEdit, ActionDeleteNote, ActionLogout,
	}
	if len(sh.dispatches) != len(want) {
		t.Fatalf("dispatches: %+v", sh.dispatches)
	}
	for i, a := range want {
		if sh.dispatches[i].action != a {
			t.Errorf("dispatch %d: got %v, want %v", i, sh.dispatches[i].action, a)
		}
	}
	if sh.dispatches[0].in.Email != "ann@test.com" || sh.dispatches[2].password != "newpass99" || sh.dispatches[6].in.NoteID != "n1" {
		t.Fatalf("inputs: %+v", sh.dispatches)
	}
}

func TestActionNames(t *testing.T) {
	for a := ActionLogout; a <= ActionSaveNote; a++ {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if _, ok := ParseAction("launch-missiles"); ok {
		t.Fatal("unknown action name parsed")
	}
	if !ActionLogin.Submit() || ActionLogout.Submit() {
		t.Fatal("Submit classification wrong")
	}
}
