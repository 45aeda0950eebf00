package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/id"
	"github.com/watchlogapp/watchlog/internal/normalize"
	"github.com/watchlogapp/watchlog/internal/store"
)

// titleColumns is the ordered list of columns selected in title queries,
// aliased to t. Must match the scan order in scanTitle.
const titleColumns = `t.id, t.title, t.title_norm, t.type, t.seen,
	t.external_id, t.year, t.runtime_minutes, t.notes, t.created_at, t.updated_at`

// scanTitle scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Title. Genres are left nil; callers attach them separately.
func scanTitle(scanner interface{ Scan(dest ...any) error }) (*domain.Title, error) {
	var t domain.Title

	var (
		mediaType  string
		seen       int
		externalID sql.NullInt64
		year       sql.NullInt64
		runtime    sql.NullInt64
		notes      sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Title,
		&t.TitleNorm,
		&mediaType,
		&seen,
		&externalID,
		&year,
		&runtime,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = domain.MediaType(mediaType)
	t.Seen = seen != 0
	if externalID.Valid {
		v := externalID.Int64
		t.ExternalID = &v
	}
	if year.Valid {
		v := int(year.Int64)
		t.Year = &v
	}
	if runtime.Valid {
		v := int(runtime.Int64)
		t.RuntimeMinutes = &v
	}
	if notes.Valid {
		t.Notes = notes.String
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FindByNormalizedTitle returns the title whose normalized key matches the
// given free text. Returns store.ErrNotFound on miss.
func (s *Store) FindByNormalizedTitle(ctx context.Context, text string) (*domain.Title, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+titleColumns+` FROM titles t WHERE t.title_norm = ?`, normalize.Key(text))
	return s.oneTitle(ctx, row)
}

// FindByID retrieves a title by its id. Returns store.ErrNotFound on miss.
func (s *Store) FindByID(ctx context.Context, titleID string) (*domain.Title, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+titleColumns+` FROM titles t WHERE t.id = ?`, titleID)
	return s.oneTitle(ctx, row)
}

// FindByExternalID retrieves the title imported under the given provider id
// and media type. Returns store.ErrNotFound on miss.
func (s *Store) FindByExternalID(ctx context.Context, externalID int64, mediaType domain.MediaType) (*domain.Title, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+titleColumns+` FROM titles t WHERE t.external_id = ? AND t.type = ?`,
		externalID, string(mediaType))
	return s.oneTitle(ctx, row)
}

// oneTitle scans a single row and attaches its genres.
func (s *Store) oneTitle(ctx context.Context, row *sql.Row) (*domain.Title, error) {
	t, err := scanTitle(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachGenres(ctx, []*domain.Title{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// SearchByWords returns titles whose normalized title contains every word of
// the normalized query as a substring, most recently updated first.
func (s *Store) SearchByWords(ctx context.Context, text string, limit int) ([]*domain.Title, error) {
	words := normalize.Words(text)
	if len(words) == 0 {
		return []*domain.Title{}, nil
	}

	conds := make([]string, len(words))
	args := make([]any, 0, len(words)+1)
	for i, w := range words {
		conds[i] = "t.title_norm LIKE ?"
		args = append(args, "%"+w+"%")
	}
	args = append(args, limit)

	query := `SELECT ` + titleColumns + ` FROM titles t WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY t.updated_at DESC LIMIT ?`

	return s.queryTitles(ctx, query, args...)
}

// InsertLocal creates a title with no provider linkage.
// Returns store.ErrDuplicateTitle if the normalized key already exists;
// the uniqueness constraint decides, not a pre-check.
func (s *Store) InsertLocal(ctx context.Context, title string, mediaType domain.MediaType, notes string) (*domain.Title, error) {
	title = strings.TrimSpace(title)
	titleID, err := id.Generate("ttl")
	if err != nil {
		return nil, fmt.Errorf("generate title id: %w", err)
	}
	now := formatTime(time.Now())

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO titles (id, title, title_norm, type, seen, external_id, year, runtime_minutes, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, NULL, NULL, NULL, ?, ?, ?)`,
		titleID,
		title,
		normalize.Key(title),
		string(mediaType),
		nullString(notes),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err, "title_norm") {
			return nil, store.ErrDuplicateTitle.WithCause(err)
		}
		return nil, fmt.Errorf("insert title: %w", err)
	}

	return s.FindByID(ctx, titleID)
}

// InsertFromMetadata idempotently creates a title from canonical provider
// fields, attaching its genre set in the same transaction. An existing
// (type, external id) or normalized-key match short-circuits with the
// existing title and inserted=false.
func (s *Store) InsertFromMetadata(ctx context.Context, in store.MetadataInsert) (*domain.Title, bool, error) {
	title := strings.TrimSpace(in.Title)
	titleNorm := normalize.Key(title)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM titles WHERE external_id = ? AND type = ?`,
		in.ExternalID, string(in.Type)).Scan(&existingID)
	if err == nil {
		t, err := s.FindByID(ctx, existingID)
		return t, false, err
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("check external id: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT id FROM titles WHERE title_norm = ?`, titleNorm).Scan(&existingID)
	if err == nil {
		t, err := s.FindByID(ctx, existingID)
		return t, false, err
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("check title norm: %w", err)
	}

	titleID, err := id.Generate("ttl")
	if err != nil {
		return nil, false, fmt.Errorf("generate title id: %w", err)
	}
	now := formatTime(time.Now())

	_, err = tx.ExecContext(ctx, `
		INSERT INTO titles (id, title, title_norm, type, seen, external_id, year, runtime_minutes, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, NULL, ?, ?)`,
		titleID,
		title,
		titleNorm,
		string(in.Type),
		in.ExternalID,
		nullInt(in.Year),
		nullInt(in.RuntimeMinutes),
		now,
		now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert title: %w", err)
	}

	if err := setTitleGenres(ctx, tx, titleID, in.Genres); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}

	t, err := s.FindByID(ctx, titleID)
	return t, true, err
}

// SetSeen updates the seen flag and refreshes updated_at.
// Returns store.ErrNotFound if the id does not exist.
func (s *Store) SetSeen(ctx context.Context, titleID string, seen bool) (*domain.Title, error) {
	seenVal := 0
	if seen {
		seenVal = 1
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE titles SET seen = ?, updated_at = ? WHERE id = ?`,
		seenVal, formatTime(time.Now()), titleID)
	if err != nil {
		return nil, fmt.Errorf("update seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	return s.FindByID(ctx, titleID)
}

// DeleteTitle removes a title; foreign keys cascade the association cleanup.
// Deleting an absent id is a no-op.
func (s *Store) DeleteTitle(ctx context.Context, titleID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM titles WHERE id = ?`, titleID); err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	return nil
}

// ListTitles returns titles matching the filter, most recently updated first.
func (s *Store) ListTitles(ctx context.Context, filter store.ListFilter, limit int) ([]*domain.Title, error) {
	query, args := titleFilterQuery(filter, `ORDER BY t.updated_at DESC LIMIT ?`)
	args = append(args, limit)
	return s.queryTitles(ctx, query, args...)
}

// RandomTitle uniformly selects one title matching the same predicate as
// ListTitles. Returns store.ErrNotFound when nothing matches.
func (s *Store) RandomTitle(ctx context.Context, filter store.ListFilter) (*domain.Title, error) {
	query, args := titleFilterQuery(filter, `ORDER BY RANDOM() LIMIT 1`)

	row := s.db.QueryRowContext(ctx, query, args...)
	t, err := scanTitle(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachGenres(ctx, []*domain.Title{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// queryTitles runs a multi-row title query and attaches genres batched.
func (s *Store) queryTitles(ctx context.Context, query string, args ...any) ([]*domain.Title, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []*domain.Title
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if titles == nil {
		titles = []*domain.Title{}
	}

	if err := s.attachGenres(ctx, titles); err != nil {
		return nil, err
	}

	return titles, nil
}
