package spotify

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"reprise/internal/catalog"
	"reprise/internal/logging"
	"reprise/internal/matching"
	"reprise/internal/services"
)

const (
	defaultMarket   = "US"
	defaultPageSize = 50
	// detailBatchSize is the API ceiling for a multi-track details request.
	detailBatchSize = 50
)

// Client fetches artist catalogs from the Spotify Web API using the
// client-credentials flow. Transport-level 429 handling comes from the
// library's retry option.
type Client struct {
	api      *spotifyapi.Client
	market   string
	pageSize int
	logger   *slog.Logger
}

var _ catalog.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithMarket overrides the market sent on every catalog request.
func WithMarket(market string) Option {
	return func(c *Client) {
		if market = strings.TrimSpace(market); market != "" {
			c.market = strings.ToUpper(market)
		}
	}
}

// WithPageSize overrides the catalog page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 && size <= defaultPageSize {
			c.pageSize = size
		}
	}
}

// WithLogger attaches a logger for progress reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "spotify")
		}
	}
}

// WithAPIClient injects a prebuilt API client, bypassing the credential
// flow. Tests use this to point the client at a local server.
func WithAPIClient(api *spotifyapi.Client) Option {
	return func(c *Client) {
		if api != nil {
			c.api = api
		}
	}
}

// New creates a catalog client. Credentials are required unless an API
// client is injected.
func New(clientID, clientSecret string, opts ...Option) (*Client, error) {
	client := &Client{
		market:   defaultMarket,
		pageSize: defaultPageSize,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.api == nil {
		clientID = strings.TrimSpace(clientID)
		clientSecret = strings.TrimSpace(clientSecret)
		if clientID == "" || clientSecret == "" {
			return nil, errors.New("spotify credentials required")
		}
		creds := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		client.api = spotifyapi.New(creds.Client(context.Background()), spotifyapi.WithRetry(true))
	}
	return client, nil
}

// FetchArtist returns profile data for one artist.
func (c *Client) FetchArtist(ctx context.Context, artistID string) (catalog.Artist, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return catalog.Artist{}, services.Wrap(services.ErrValidation, "spotify", "fetch artist", "artist id required", nil)
	}
	full, err := c.api.GetArtist(ctx, spotifyapi.ID(artistID))
	if err != nil {
		return catalog.Artist{}, services.Wrap(services.ErrExternalService, "spotify", "fetch artist", artistID, err)
	}
	return catalog.Artist{
		ID:         string(full.ID),
		Name:       full.Name,
		Followers:  int(full.Followers.Count),
		Genres:     full.Genres,
		Popularity: int(full.Popularity),
	}, nil
}

// FetchCatalog walks the artist's albums, singles, and compilations and
// returns one recording per distinct song. Distinctness is judged on the
// normalized title plus primary artist, keeping the first release the walk
// encounters, so a song is matched once even when it recurs across
// reissues. Albums that fail to enumerate degrade the catalog instead of
// failing it.
func (c *Client) FetchCatalog(ctx context.Context, artistID string) ([]catalog.Recording, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, services.Wrap(services.ErrValidation, "spotify", "fetch catalog", "artist id required", nil)
	}
	albums, err := c.artistAlbums(ctx, artistID)
	if err != nil {
		return nil, err
	}
	c.logger.Info("albums fetched",
		logging.String(logging.FieldArtist, artistID),
		logging.Int("albums", len(albums)))

	entries := c.collectTracks(ctx, albums)
	c.logger.Info("unique tracks collected",
		logging.String(logging.FieldArtist, artistID),
		logging.Int("tracks", len(entries)))

	details := c.trackDetails(ctx, entries)
	recordings := make([]catalog.Recording, 0, len(entries))
	for _, entry := range entries {
		full, ok := details[entry.id]
		if !ok {
			continue
		}
		recordings = append(recordings, catalog.Recording{
			ID:          string(full.ID),
			Title:       full.Name,
			Artists:     artistNames(full.Artists),
			ISRC:        full.ExternalIDs["isrc"],
			DurationMS:  int(full.Duration),
			ReleaseDate: entry.releaseDate,
			Album:       entry.album,
			TrackNumber: entry.trackNumber,
			DiscNumber:  entry.discNumber,
			Popularity:  int(full.Popularity),
		})
	}
	c.logger.Info("catalog assembled",
		logging.String(logging.FieldArtist, artistID),
		logging.Int("recordings", len(recordings)))
	return recordings, nil
}

func (c *Client) artistAlbums(ctx context.Context, artistID string) ([]spotifyapi.SimpleAlbum, error) {
	groups := []spotifyapi.AlbumType{
		spotifyapi.AlbumTypeAlbum,
		spotifyapi.AlbumTypeSingle,
		spotifyapi.AlbumTypeCompilation,
	}
	page, err := c.api.GetArtistAlbums(ctx, spotifyapi.ID(artistID), groups,
		spotifyapi.Market(c.market), spotifyapi.Limit(c.pageSize))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "spotify", "list albums", artistID, err)
	}
	albums := append([]spotifyapi.SimpleAlbum(nil), page.Albums...)
	for {
		if err := c.api.NextPage(ctx, page); err != nil {
			if errors.Is(err, spotifyapi.ErrNoMorePages) {
				break
			}
			return nil, services.Wrap(services.ErrExternalService, "spotify", "list albums", artistID, err)
		}
		albums = append(albums, page.Albums...)
	}
	return albums, nil
}

// trackEntry pins a track ID to the album context it was first seen in.
type trackEntry struct {
	id          spotifyapi.ID
	album       string
	releaseDate string
	trackNumber int
	discNumber  int
}

func (c *Client) collectTracks(ctx context.Context, albums []spotifyapi.SimpleAlbum) []trackEntry {
	seen := make(map[string]struct{})
	var entries []trackEntry
	for _, album := range albums {
		page, err := c.api.GetAlbumTracks(ctx, album.ID,
			spotifyapi.Market(c.market), spotifyapi.Limit(c.pageSize))
		if err != nil {
			logging.WarnWithContext(c.logger, "album skipped", "catalog_fetch",
				logging.String("album", album.Name),
				logging.Error(err))
			continue
		}
		for {
			for _, track := range page.Tracks {
				key := dedupeKey(track.Name, track.Artists)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				entries = append(entries, trackEntry{
					id:          track.ID,
					album:       album.Name,
					releaseDate: album.ReleaseDate,
					trackNumber: int(track.TrackNumber),
					discNumber:  int(track.DiscNumber),
				})
			}
			if err := c.api.NextPage(ctx, page); err != nil {
				if !errors.Is(err, spotifyapi.ErrNoMorePages) {
					logging.WarnWithContext(c.logger, "album pagination stopped", "catalog_fetch",
						logging.String("album", album.Name),
						logging.Error(err))
				}
				break
			}
		}
		c.logger.Debug("album walked",
			logging.String("album", album.Name),
			logging.Int("unique_so_far", len(entries)))
	}
	return entries
}

// trackDetails resolves full-track payloads, which carry the standard
// recording identifiers the matcher needs. A failed batch drops its tracks
// from the run rather than aborting it.
func (c *Client) trackDetails(ctx context.Context, entries []trackEntry) map[spotifyapi.ID]*spotifyapi.FullTrack {
	details := make(map[spotifyapi.ID]*spotifyapi.FullTrack, len(entries))
	for start := 0; start < len(entries); start += detailBatchSize {
		end := min(start+detailBatchSize, len(entries))
		batch := make([]spotifyapi.ID, 0, end-start)
		for _, entry := range entries[start:end] {
			batch = append(batch, entry.id)
		}
		tracks, err := c.api.GetTracks(ctx, batch, spotifyapi.Market(c.market))
		if err != nil {
			logging.WarnWithContext(c.logger, "track details batch dropped", "catalog_fetch",
				logging.Int("batch_start", start),
				logging.Int("batch_size", len(batch)),
				logging.Error(err))
			continue
		}
		for _, track := range tracks {
			if track != nil {
				details[track.ID] = track
			}
		}
	}
	return details
}

func dedupeKey(title string, artists []spotifyapi.SimpleArtist) string {
	primary := ""
	if len(artists) > 0 {
		primary = strings.ToLower(strings.TrimSpace(artists[0].Name))
	}
	return matching.NormalizeTitle(title) + "|" + primary
}

func artistNames(artists []spotifyapi.SimpleArtist) []string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return names
}
