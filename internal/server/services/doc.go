// Package services contains the server-side business logic: accounts and
// email-token flows (UserService), cookie sessions (SessionService),
// emailed single-use tokens (TokenService) and notes (NoteService).
//
// Services depend on repositories through repomanager.RepositoryManager and
// report failures as sentinel errors from internal/common, wrapped with
// context. ValidationError carries a message meant for the end user.
package services
