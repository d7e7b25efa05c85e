package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songwall/internal/models"
	"github.com/desertthunder/songwall/internal/shared"
)

const songColumns = `id, sequence, clip_id, title, image_url, audio_url, tags, play_count, upvote_count, created_at, updated_at, deleted_at`

// SongRepository implements models.Repository[*models.PersistedSong].
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.PersistedSong] with a generated ID and sequence.
func (r *SongRepository) Create(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	s := song.Song()

	query := `
		INSERT INTO songs (id, sequence, clip_id, title, image_url, audio_url, tags, play_count, upvote_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		s.ID,
		s.Title,
		s.ImageURL,
		s.AudioURL,
		s.Metadata.Tags,
		s.PlayCount,
		s.UpvoteCount,
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	song.SetID(id)
	song.SetSequence(sequence)
	return nil
}

// Get retrieves a song by row ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetByClipID retrieves a song by its upstream clip ID
func (r *SongRepository) GetByClipID(clipID string) (*models.PersistedSong, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE clip_id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, clipID))
}

// Update rewrites the song's feed fields; the clip ID and sequence are fixed at creation.
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	s := song.Song()

	query := `
		UPDATE songs
		SET title = ?, image_url = ?, audio_url = ?, tags = ?, play_count = ?, upvote_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		s.Title,
		s.ImageURL,
		s.AudioURL,
		s.Metadata.Tags,
		s.PlayCount,
		s.UpvoteCount,
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	if err := expectRow(result, song.ID()); err != nil {
		return err
	}

	song.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a song by row ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE songs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return expectRow(result, id)
}

// List retrieves songs in feed order.
//
// Supported criteria: "tag" (substring match on the raw tag string) and "limit" (int, > 0).
func (r *SongRepository) List(criteria map[string]any) ([]*models.PersistedSong, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE deleted_at IS NULL`
	args := []any{}

	if tag, ok := criteria["tag"].(string); ok && tag != "" {
		query += " AND tags LIKE ?"
		args = append(args, "%"+tag+"%")
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []*models.PersistedSong{}
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// Songs lists every cached song as plain [models.Song] values.
func (r *SongRepository) Songs() ([]models.Song, error) {
	persisted, err := r.List(nil)
	if err != nil {
		return nil, err
	}
	songs := make([]models.Song, len(persisted))
	for i, p := range persisted {
		songs[i] = p.Song()
	}
	return songs, nil
}

// Count returns the number of cached songs.
func (r *SongRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM songs WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SongRepository) scan(row scanner) (*models.PersistedSong, error) {
	var (
		id        string
		sequence  int
		s         models.Song
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &s.ID, &s.Title, &s.ImageURL, &s.AudioURL, &s.Metadata.Tags,
		&s.PlayCount, &s.UpvoteCount, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.NewPersistedSong(sequence, s)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s not found or already deleted", shared.ErrSongNotFound, id)
	}
	return nil
}

var _ models.Repository[*models.PersistedSong] = (*SongRepository)(nil)
