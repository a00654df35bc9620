// Package api is the client for the remote study service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering deck
//     CRUD, document chat, the calendar assistant and multi-document upload
//     with follow-up questions.
//  2. An HTTP/JSON implementation (see HTTPClient) that maps transport and
//     status failures onto the sentinel errors below.
//
// # Error Handling
//
// Callers match failures with errors.Is:
//
//   - ErrNetwork: the request never got a response (connection refused,
//     timeout, cancelled context).
//   - ErrServer: the service answered with a failure. errors.As with
//     *ServerError exposes the status code and message.
//   - ErrNotFound: the addressed deck does not exist.
//   - ErrValidation: required input was missing; no request was sent.
//
// Nothing is retried. Mutating calls (create, update, delete) do not notify
// other contexts by themselves; callers publish an invalidation signal after
// a success.
package api
