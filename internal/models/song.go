package models

import (
	"fmt"
	"time"
)

// Metadata holds the free-form fields attached to a [Song]. Tags is a comma-separated list.
type Metadata struct {
	Tags string `json:"tags"`
}

// Song is a single generated track as served by the upstream feed.
type Song struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ImageURL    string   `json:"image_url"`
	AudioURL    string   `json:"audio_url"`
	Metadata    Metadata `json:"metadata"`
	PlayCount   int      `json:"play_count"`
	UpvoteCount int      `json:"upvote_count"`
}

// DetailPath is the path of the song's detail view.
func (s Song) DetailPath() string {
	return "/detail/" + s.ID
}

// FeedEntry is the envelope each song arrives in.
type FeedEntry struct {
	Clip Song `json:"clip"`
}

// Clips unwraps feed entries. A nil slice stays nil so "no feed" and "empty feed" remain distinguishable.
func Clips(entries []FeedEntry) []Song {
	if entries == nil {
		return nil
	}
	songs := make([]Song, len(entries))
	for i, e := range entries {
		songs[i] = e.Clip
	}
	return songs
}

// TagCount is one entry of the tag-frequency summary.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PersistedSong is a [Song] cached in the local database.
type PersistedSong struct {
	id        string
	sequence  int
	song      Song
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedSong wraps song for storage. The ID is assigned by the repository on create.
func NewPersistedSong(sequence int, song Song) *PersistedSong {
	now := time.Now()
	return &PersistedSong{
		sequence:  sequence,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *PersistedSong) ID() string            { return p.id }
func (p *PersistedSong) Sequence() int         { return p.sequence }
func (p *PersistedSong) ClipID() string        { return p.song.ID }
func (p *PersistedSong) Song() Song            { return p.song }
func (p *PersistedSong) CreatedAt() time.Time  { return p.createdAt }
func (p *PersistedSong) UpdatedAt() time.Time  { return p.updatedAt }
func (p *PersistedSong) DeletedAt() *time.Time { return p.deletedAt }

func (p *PersistedSong) SetID(id string)           { p.id = id }
func (p *PersistedSong) SetSequence(seq int)       { p.sequence = seq }
func (p *PersistedSong) SetSong(song Song)         { p.song = song }
func (p *PersistedSong) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *PersistedSong) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *PersistedSong) SetDeletedAt(t *time.Time) { p.deletedAt = t }

// Validate requires a clip ID and an audio URL; everything else may be blank.
func (p *PersistedSong) Validate() error {
	if p.song.ID == "" {
		return fmt.Errorf("clip id is required")
	}
	if p.song.AudioURL == "" {
		return fmt.Errorf("audio url is required")
	}
	return nil
}

var _ Model = (*PersistedSong)(nil)
