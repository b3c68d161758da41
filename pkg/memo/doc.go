// Package memo stores dated memos.
//
// A Memo pairs a moment in time with free text. Dates are kept in UTC; the
// viewer's UTC offset, reported by the event form in minutes, is only used to
// interpret what they typed and to display dates back to them.
//
// Three Store backends are provided:
//
//   - MemoryStore keeps memos in a map. Used by tests and the default
//     configuration.
//   - SQLStore works over database/sql with the PostgreSQL (pgx) or SQLite
//     (modernc) drivers. Its schema is managed by Migrate.
//   - RedisStore keeps every memo as a JSON value in one Redis hash.
//
// Open picks a backend from configuration.
package memo
