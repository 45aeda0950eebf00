package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/id"
)

// ListGenres returns genres with their title counts, sorted by name.
// Orphaned genres (no remaining associations) are not reported.
func (s *Store) ListGenres(ctx context.Context) ([]domain.GenreCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.name, COUNT(*) AS title_count
		FROM genres g
		JOIN title_genres tg ON tg.genre_id = g.id
		GROUP BY g.id
		ORDER BY g.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	var genres []domain.GenreCount
	for rows.Next() {
		var g domain.GenreCount
		if err := rows.Scan(&g.Name, &g.TitleCount); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if genres == nil {
		genres = []domain.GenreCount{}
	}

	return genres, nil
}

// getOrCreateGenreID resolves a genre name to its id, creating the row on
// first use. Genre names are case-sensitive as stored.
func getOrCreateGenreID(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	name = strings.TrimSpace(name)

	var genreID string
	err := tx.QueryRowContext(ctx, `SELECT id FROM genres WHERE name = ?`, name).Scan(&genreID)
	if err == nil {
		return genreID, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("lookup genre %q: %w", name, err)
	}

	genreID, err = id.Generate("gen")
	if err != nil {
		return "", fmt.Errorf("generate genre id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO genres (id, name) VALUES (?, ?)`, genreID, name); err != nil {
		return "", fmt.Errorf("insert genre %q: %w", name, err)
	}
	return genreID, nil
}

// setTitleGenres replaces a title's genre set wholesale within tx.
func setTitleGenres(ctx context.Context, tx *sql.Tx, titleID string, genreNames []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM title_genres WHERE title_id = ?`, titleID); err != nil {
		return fmt.Errorf("delete title_genres: %w", err)
	}

	for _, name := range genreNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		genreID, err := getOrCreateGenreID(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO title_genres (title_id, genre_id) VALUES (?, ?)`,
			titleID, genreID)
		if err != nil {
			return fmt.Errorf("insert title_genre: %w", err)
		}
	}

	return nil
}

// attachGenres populates the Genres field of each title in one batched query.
func (s *Store) attachGenres(ctx context.Context, titles []*domain.Title) error {
	if len(titles) == 0 {
		return nil
	}

	placeholders := make([]string, len(titles))
	args := make([]any, len(titles))
	for i, t := range titles {
		placeholders[i] = "?"
		args[i] = t.ID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tg.title_id, g.name
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY g.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("query title genres: %w", err)
	}
	defer rows.Close()

	byTitle := make(map[string][]string)
	for rows.Next() {
		var titleID, name string
		if err := rows.Scan(&titleID, &name); err != nil {
			return fmt.Errorf("scan title genre: %w", err)
		}
		byTitle[titleID] = append(byTitle[titleID], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, t := range titles {
		t.Genres = byTitle[t.ID]
		if t.Genres == nil {
			t.Genres = []string{}
		}
	}

	return nil
}
