// Package cli provides the interactive notes client.
//
// An App owns the session state, the current location and the renderer. The
// terminal REPL translates typed commands into the same navigation and
// actions the browser client performs: "go <hash>" follows a link, and
// commands such as "login" or "save" dispatch typed actions through a fixed
// table. After every navigation or action the current screen is rendered,
// either as text or as the HTML the browser would show.
//
// Emailed links (verification, magic link, password reset) can be followed
// with "inbox", which reads the latest matching message from a Mailpit
// compatible mailbox and navigates to the link inside it.
package cli
