// Package sqlite provides the SQLite-backed GraphStore implementation.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It persists:
//
//   - documents: metadata of chunked documents
//   - chunks: the hierarchical chunk tree, with parent_id forming the
//     CHILD_OF edge and document_id forming HAS_CHUNK
//   - entities: the canonical entity set, upserted on normalized_name
//     so repeated pipeline runs are idempotent
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and applied at store construction.
//
// # Data Location
//
// By default, the database is stored at ~/.kgpipe/data/kgpipe.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
