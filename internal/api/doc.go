// Package api provides the HTTP REST API for AuthFlow.
//
// It exposes registration, login, and role-gated protected endpoints. Every
// response uses a single envelope: a success flag, a human-readable
// message, and an optional data payload, plus a machine-readable code on
// failure.
//
// Request gates compose in a fixed order: the authentication middleware
// verifies the bearer token and attaches the resolved identity to the
// request context; the authorization middleware reads that identity and
// checks its role. Running the role gate without the authentication gate is
// a wiring bug and fails loudly with a 500.
//
// The server follows the usual lifecycle pattern:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
