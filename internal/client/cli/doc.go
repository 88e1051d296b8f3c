// Package cli provides the interactive bank terminal client.
//
// It wires configuration, the session store, the HTTP gateway, the session
// manager and the banking services, and runs a REPL on top of them. Every
// command is guarded by an access gate: account commands need a signed-in
// session, user management needs the ADMIN role.
//
// The App is the session's Notifier and Navigator, so notices (login,
// logout, expiry warnings) and redirects show up in the terminal even when
// they originate from the background expiry watch.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
