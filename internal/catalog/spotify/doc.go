// Package spotify implements the catalog source over the Spotify Web API.
// It authenticates with the client-credentials flow, walks an artist's
// releases with market-scoped pagination, and collapses reissues to one
// recording per distinct song before resolving full details in batches.
package spotify
