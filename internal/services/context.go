package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	artistKey    contextKey = "artist"
	recordingKey contextKey = "recording"
	sourceKey    contextKey = "source"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithArtist annotates context with the artist under analysis.
func WithArtist(ctx context.Context, artist string) context.Context {
	if artist == "" {
		return ctx
	}
	return context.WithValue(ctx, artistKey, artist)
}

// ArtistFromContext returns the artist name if present.
func ArtistFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(artistKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRecording annotates context with the recording title being matched.
func WithRecording(ctx context.Context, title string) context.Context {
	if title == "" {
		return ctx
	}
	return context.WithValue(ctx, recordingKey, title)
}

// RecordingFromContext returns the recording title if present.
func RecordingFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(recordingKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSource annotates context with the rights-database source in use.
func WithSource(ctx context.Context, source string) context.Context {
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromContext returns the rights-database source if present.
func SourceFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sourceKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
