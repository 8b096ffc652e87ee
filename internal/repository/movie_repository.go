// This file defines repository methods for movies.  A movie row is one
// bookable (title, language, format) combination; the same title may appear
// several times and the rows are never merged.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"movie-booking-catalog/internal/model"
)

// MovieRepo manages persistence for movie records.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = `id, title, language, format, rating, duration_minutes, genre, release_date, description, is_active, created_at`

func scanMovie(row interface {
	Scan(dest ...interface{}) error
}, m *model.Movie) error {
	var desc sql.NullString
	if err := row.Scan(&m.ID, &m.Title, &m.Language, &m.Format, &m.Rating, &m.DurationMinutes,
		&m.Genre, &m.ReleaseDate, &desc, &m.IsActive, &m.CreatedAt); err != nil {
		return err
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	return nil
}

// Create inserts a new movie record and populates defaults from the stored
// row.  DurationMinutes must be positive (chk_movies_duration).
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const qInsert = `INSERT INTO movies (title, language, format, rating, duration_minutes, genre, release_date, description)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		m.Title, m.Language, m.Format, m.Rating, m.DurationMinutes, m.Genre,
		m.ReleaseDate.Format("2006-01-02"), m.Description)
	if err != nil {
		return translateError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const qSelect = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	return scanMovie(r.db.QueryRowContext(ctx, qSelect, m.ID), m)
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound if there
// is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	var m model.Movie
	if err := scanMovie(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// SearchByTitle returns active movies whose title contains the given text,
// ordered by title then language.  Backed by idx_movies_title for the
// prefix case.
func (r *MovieRepo) SearchByTitle(ctx context.Context, title string) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + `
	           FROM movies
	           WHERE is_active = TRUE AND title LIKE ?
	           ORDER BY title, language`
	return r.list(ctx, q, "%"+title+"%")
}

// ListByLanguage returns active movies in the given language ordered by
// title.  Backed by idx_movies_language.
func (r *MovieRepo) ListByLanguage(ctx context.Context, language string) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + `
	           FROM movies
	           WHERE is_active = TRUE AND language = ?
	           ORDER BY title`
	return r.list(ctx, q, language)
}

// ListWithUpcomingShows returns active movies that have at least one active
// show scheduled now or later.  A movie with only past or deactivated shows
// is omitted.  DISTINCT collapses the join so each movie row appears once.
func (r *MovieRepo) ListWithUpcomingShows(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT DISTINCT m.id, m.title, m.language, m.format, m.rating, m.duration_minutes,
	                  m.genre, m.release_date, m.description, m.is_active, m.created_at
	           FROM movies m
	           JOIN shows s ON s.movie_id = m.id
	           WHERE m.is_active = TRUE
	             AND s.is_active = TRUE
	             AND (s.show_date > CURDATE()
	                  OR (s.show_date = CURDATE() AND s.start_time >= CURTIME()))
	           ORDER BY m.title, m.language`
	return r.list(ctx, q)
}

func (r *MovieRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActive flips the movie's soft-delete flag.  Deactivating a movie
// removes all of its shows from availability results without touching any
// booking history.
func (r *MovieRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE movies SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a movie and cascades to all of its shows and, transitively,
// their bookings and booking seats.  Returns ErrMovieNotFound when the movie
// does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
