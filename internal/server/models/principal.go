package models

// Principal is the authenticated identity on behalf of which an engine
// operation is requested. It is resolved by the caller (the chat/command
// layer) before invocation; the engine never consults ambient session state.
// The role here is informational only: admin-gated operations re-read the
// account's current role from storage.
type Principal struct {
	AccountID string
	Username  string
	Role      Role
}
