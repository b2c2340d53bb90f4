package catalog

import "context"

// Recording is a single recorded track as reported by the catalog provider.
// Instances are externally sourced snapshots; nothing in the pipeline mutates
// them after construction.
type Recording struct {
	ID          string
	Title       string
	Artists     []string
	ISRC        string
	DurationMS  int
	ReleaseDate string
	Album       string
	TrackNumber int
	DiscNumber  int
	Popularity  int
}

// DurationSeconds returns the track length in whole seconds.
func (r Recording) DurationSeconds() int {
	return r.DurationMS / 1000
}

// PrimaryArtist returns the first credited artist, or "" when none are known.
func (r Recording) PrimaryArtist() string {
	if len(r.Artists) == 0 {
		return ""
	}
	return r.Artists[0]
}

// Artist describes the catalog provider's view of an artist.
type Artist struct {
	ID         string
	Name       string
	Followers  int
	Genres     []string
	Popularity int
}

// Source is the catalog provider contract consumed by the orchestration
// layer. Implementations fetch from a remote service and may be slow; both
// operations honor context cancellation.
type Source interface {
	FetchArtist(ctx context.Context, artistID string) (Artist, error)
	FetchCatalog(ctx context.Context, artistID string) ([]Recording, error)
}
