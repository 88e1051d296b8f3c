// Package credentials persists the session's credential material and the
// cached user snapshot between client runs.
//
// Two implementations of Repository are provided:
//
//   - SQLiteRepository: a durable key/value table in a local SQLite file
//     (pure-Go modernc.org/sqlite driver), schema managed by embedded goose
//     migrations. Open creates the file and applies migrations.
//   - MemoryRepository: an in-process map, used in tests and when the
//     configured store path is ":memory:".
//
// Load returns ("", false, nil) for an absent key. Clear removes every
// session key in a single transaction so the credential and the snapshot
// never outlive each other.
package credentials
