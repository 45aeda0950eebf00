package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/id"
	"github.com/watchlogapp/watchlog/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, color, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
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

// ListTags returns all tags sorted by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrDuplicateTag on a case-insensitive name collision.
func (s *Store) CreateTag(ctx context.Context, name, color string) (*domain.Tag, error) {
	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Tag{
		ID:        tagID,
		Name:      strings.TrimSpace(name),
		Color:     strings.TrimSpace(color),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.Color,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "tags.name") {
			return nil, store.ErrDuplicateTag.WithMessage(fmt.Sprintf("tag %q already exists", t.Name))
		}
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	return t, nil
}

// UpdateTag renames and/or recolors a tag. Returns store.ErrNotFound for an
// unknown id and store.ErrDuplicateTag on collision with a different tag.
func (s *Store) UpdateTag(ctx context.Context, tagID, name, color string) error {
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)

	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, color, formatTime(time.Now()), tagID)
	if err != nil {
		if isUniqueViolation(err, "tags.name") {
			return store.ErrDuplicateTag.WithMessage(fmt.Sprintf("tag %q already exists", name))
		}
		return fmt.Errorf("update tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteTag removes a tag; foreign keys cascade its title associations.
// Deleting an absent id is a no-op.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// SetTitleTags replaces the full tag set of a title in one transaction.
// Returns store.ErrNotFound for an unknown title.
func (s *Store) SetTitleTags(ctx context.Context, titleID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM titles WHERE id = ?`, titleID).Scan(&exists)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM title_tags WHERE title_id = ?`, titleID); err != nil {
		return fmt.Errorf("delete title_tags: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO title_tags (title_id, tag_id) VALUES (?, ?)`,
			titleID, tagID)
		if err != nil {
			return fmt.Errorf("insert title_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetTagsForTitle returns the tags on a title sorted by name.
func (s *Store) GetTagsForTitle(ctx context.Context, titleID string) ([]domain.TagRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, t.color
		FROM tags t
		JOIN title_tags tt ON tt.tag_id = t.id
		WHERE tt.title_id = ?
		ORDER BY t.name ASC`, titleID)
	if err != nil {
		return nil, fmt.Errorf("query title tags: %w", err)
	}
	defer rows.Close()

	var refs []domain.TagRef
	for rows.Next() {
		var r domain.TagRef
		if err := rows.Scan(&r.Name, &r.Color); err != nil {
			return nil, fmt.Errorf("scan title tag: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if refs == nil {
		refs = []domain.TagRef{}
	}

	return refs, nil
}

// GetTagsForTitles is the batched form of GetTagsForTitle.
func (s *Store) GetTagsForTitles(ctx context.Context, titleIDs []string) (map[string][]domain.TagRef, error) {
	out := make(map[string][]domain.TagRef)
	if len(titleIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(titleIDs))
	args := make([]any, len(titleIDs))
	for i, tid := range titleIDs {
		placeholders[i] = "?"
		args[i] = tid
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tt.title_id, t.name, t.color
		FROM title_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.title_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY t.name ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query title tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID string
			r       domain.TagRef
		)
		if err := rows.Scan(&titleID, &r.Name, &r.Color); err != nil {
			return nil, fmt.Errorf("scan title tag: %w", err)
		}
		out[titleID] = append(out[titleID], r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
