package spotify

import (
	"regexp"
	"strings"

	"reprise/internal/services"
)

var (
	artistURLPattern = regexp.MustCompile(`spotify\.com/artist/([a-zA-Z0-9]+)`)
	artistURIPattern = regexp.MustCompile(`spotify:artist:([a-zA-Z0-9]+)`)
	bareIDPattern    = regexp.MustCompile(`^[a-zA-Z0-9]{22}$`)
)

// ExtractArtistID resolves a share link, a spotify:artist URI, or a bare
// 22-character ID to the artist ID. Anything else is a validation error.
func ExtractArtistID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if match := artistURLPattern.FindStringSubmatch(ref); match != nil {
		return match[1], nil
	}
	if match := artistURIPattern.FindStringSubmatch(ref); match != nil {
		return match[1], nil
	}
	if bareIDPattern.MatchString(ref) {
		return ref, nil
	}
	return "", services.Wrap(services.ErrValidation, "spotify", "extract artist id", "unrecognized artist reference "+ref, nil)
}
