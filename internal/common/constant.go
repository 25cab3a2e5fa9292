// Package common contains shared constants and sentinel errors used across
// gophnotes components.
package common

// CSRFHeaderName carries the anti-forgery token on mutating requests.
const CSRFHeaderName = "X-CSRF-Token"

// SessionCookieName names the cookie that holds the authenticated session.
const SessionCookieName = "session_token"

// CSRFCookieName names the cookie the CSRF token is bound to.
const CSRFCookieName = "csrf_token"

// TokenSize is the number of random bytes behind every emailed token.
// Hex encoding doubles it, so links carry 64 characters.
const TokenSize = 32
