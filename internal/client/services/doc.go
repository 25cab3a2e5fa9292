// Package services contains application services for the notes client.
//
// Services sit between the terminal front end and the API client: they
// normalise and validate user input before a request is issued, and
// wipe password buffers once the request has been sent.
package services
