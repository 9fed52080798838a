// Package session holds the authentication values of the running application.
//
// A Store tracks three values:
//   - the auth plugin id, naming the authentication method that produced the session (persisted)
//   - the access token, a bearer credential (memory only, never persisted)
//   - the CSRF token (persisted only when autologin is enabled)
//
// Open loads the persisted values once; afterwards getters read memory only and
// setters write through to the storage.Provider before updating memory:
//
//	p, kind, err := storage.Select(caps, newLocal, newNative)
//	store, err := session.Open(ctx, p, autologin)
//	err = store.SetTokens(ctx, session.Tokens{AccessToken: "...", CSRFToken: "..."})
//
// The empty string stands for "no value": setting "" removes the persisted entry.
//
// Storage errors are returned to the caller of the method that triggered them,
// unretried and unlogged. A failed write leaves the in-memory value unchanged.
package session
