// Package models defines the server-side records kept by the repositories.
package models
