// Package http is the REST transport of the document verifier.
//
// Routes are wired with chi. Every request gets a trace id and an access
// log line; authenticated routes resolve the caller through the auth
// service, which reloads the account so the role is always current. Auth
// and upload routes are rate limited. Service errors are translated to
// statuses and stable error codes in errors_mapper.go.
package http
