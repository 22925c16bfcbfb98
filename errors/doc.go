// Package errors provides the error taxonomy shared by the summarizer
// pipeline, the relay and the terminal client.
//
// Every failure is classified at the boundary nearest its origin into an
// *AppError carrying a code, a user-facing message and an HTTP status.
// The relay serializes only the message as {"error": "..."}.
package errors
