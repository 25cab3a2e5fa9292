// Package config loads runtime configuration for the notes client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: a .env file in the working directory, then GOPHNOTES_*
//     variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the notes backend
//	-t int      request timeout (seconds)
//	-m string   base URL of the Mailpit API ("" disables the inbox command)
//	-w int      how long "inbox" waits for an email (seconds)
//	-o string   output format: text or html
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "30s",
//	  "mailbox_url": "http://127.0.0.1:8025",
//	  "mailbox_wait": "30s",
//	  "output": "text",
//	  "log_level": "info"
//	}
package config
