package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/kgpipe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// Store is a SQLite-backed GraphStore. It persists the chunk tree and
// canonical entity set for the downstream graph loader; entity writes
// upsert on normalized_name so repeated runs are idempotent.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.kgpipe/data/kgpipe.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kgpipe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "kgpipe.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		version, err := migrationVersion(name)
		if err != nil {
			return err
		}
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration transaction: %w", err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// migrationVersion parses the numeric prefix of a migration filename,
// e.g. "0001_init.sql" -> 1.
func migrationVersion(name string) (int, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("migration %s has no version prefix", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %s has invalid version prefix: %w", name, err)
	}
	return version, nil
}

// SaveDocument stores or updates a document's metadata.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, summary)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			updated_at = CURRENT_TIMESTAMP
	`, doc.ID, doc.Title, doc.Summary)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// SaveChunks stores a document's chunk tree in one transaction.
// Position follows slice order, which the chunker guarantees to be
// parents-before-children.
func (s *Store) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, level, heading, text, token_count, char_start, char_end, parent_id, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			level = excluded.level,
			heading = excluded.heading,
			text = excluded.text,
			token_count = excluded.token_count,
			char_start = excluded.char_start,
			char_end = excluded.char_end,
			parent_id = excluded.parent_id,
			position = excluded.position
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for position, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, int(chunk.Level),
			chunk.Heading, chunk.Text, chunk.TokenCount, chunk.CharStart, chunk.CharEnd,
			chunk.ParentID, position); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves a document's chunks in position order.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, level, heading, text, token_count, char_start, char_end, parent_id
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			chunk    domain.Chunk
			level    int
			parentID sql.NullString
		)
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &level, &chunk.Heading,
			&chunk.Text, &chunk.TokenCount, &chunk.CharStart, &chunk.CharEnd, &parentID); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Level = domain.ChunkLevel(level)
		if parentID.Valid {
			chunk.ParentID = &parentID.String
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// UpsertEntities merges canonical entities on normalized_name. The ID
// of an existing row is preserved so graph references stay valid
// across repeated runs.
func (s *Store) UpsertEntities(ctx context.Context, entities []domain.CanonicalEntity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (id, normalized_name, display_name, labels, confidence, properties, mention_count, flagged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(normalized_name) DO UPDATE SET
			display_name = excluded.display_name,
			labels = excluded.labels,
			confidence = MAX(confidence, excluded.confidence),
			properties = excluded.properties,
			mention_count = mention_count + excluded.mention_count,
			flagged = excluded.flagged,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		labelsJSON, err := json.Marshal(e.Labels())
		if err != nil {
			return fmt.Errorf("marshalling labels: %w", err)
		}
		propertiesJSON, err := json.Marshal(e.Properties)
		if err != nil {
			return fmt.Errorf("marshalling properties: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, e.ID, e.NormalizedName, e.DisplayName,
			string(labelsJSON), e.Confidence, string(propertiesJSON),
			e.MentionCount, boolToInt(e.Flagged)); err != nil {
			return fmt.Errorf("upserting entity %s: %w", e.NormalizedName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetEntityByName retrieves a canonical entity by normalized name.
func (s *Store) GetEntityByName(ctx context.Context, normalizedName string) (*domain.CanonicalEntity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, normalized_name, display_name, labels, confidence, properties, mention_count, flagged
		FROM entities WHERE normalized_name = ?
	`, normalizedName)

	entity, err := scanEntity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return entity, err
}

// ListEntities returns all canonical entities ordered by normalized
// name.
func (s *Store) ListEntities(ctx context.Context) ([]domain.CanonicalEntity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, normalized_name, display_name, labels, confidence, properties, mention_count, flagged
		FROM entities ORDER BY normalized_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.CanonicalEntity //nolint:prealloc // size unknown from query
	for rows.Next() {
		entity, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return entities, nil
}

// scanEntity reads one entity row via the given scan function.
func scanEntity(scan func(dest ...any) error) (*domain.CanonicalEntity, error) {
	var (
		entity         domain.CanonicalEntity
		labelsJSON     string
		propertiesJSON string
		flagged        int
	)
	if err := scan(&entity.ID, &entity.NormalizedName, &entity.DisplayName,
		&labelsJSON, &entity.Confidence, &propertiesJSON, &entity.MentionCount, &flagged); err != nil {
		return nil, err
	}

	var labels []string
	if err := json.Unmarshal([]byte(labelsJSON), &labels); err != nil {
		return nil, fmt.Errorf("unmarshalling labels: %w", err)
	}
	entity.SetLabels(labels...)

	if err := json.Unmarshal([]byte(propertiesJSON), &entity.Properties); err != nil {
		return nil, fmt.Errorf("unmarshalling properties: %w", err)
	}
	entity.Flagged = flagged != 0

	return &entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
