package model

import "time"

// Movie represents one bookable movie record.  A single title may have
// multiple rows – one per (language, format) combination – each with its own
// identity; they are deliberately not deduplicated, so "Dasara" in Telugu 2D
// and "Dasara" in Hindi 2D are independent rows that can be scheduled and
// deactivated separately.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title.
//  Language        – audio language of this record.
//  Format          – free-text projection format ("2D", "3D", "IMAX", ...).
//  Rating          – certification rating ("U", "UA", "A", ...).
//  DurationMinutes – runtime in minutes; used to derive show end times.
//  Genre           – free-text genre.
//  ReleaseDate     – theatrical release date.
//  Description     – optional synopsis.
//  IsActive        – soft-delete flag; inactive movies never appear in
//                    availability results.
//  CreatedAt       – creation timestamp.
type Movie struct {
	ID              uint64    // movies.id
	Title           string    // movies.title
	Language        string    // movies.language
	Format          string    // movies.format
	Rating          string    // movies.rating
	DurationMinutes uint32    // movies.duration_minutes
	Genre           string    // movies.genre
	ReleaseDate     time.Time // movies.release_date
	Description     *string   // movies.description (nullable)
	IsActive        bool      // movies.is_active
	CreatedAt       time.Time // movies.created_at
}
