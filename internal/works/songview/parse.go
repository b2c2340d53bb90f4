package songview

import (
	"strings"

	"reprise/internal/works"
)

// Parser adapts the flat Songview result shape: scalar fields plus plain
// string lists for writers and publishers.
type Parser struct{}

var _ works.Parser = Parser{}

func (Parser) Source() string { return works.SourceSongview }

func (Parser) Parse(payload map[string]any) (works.Work, bool) {
	if len(payload) == 0 {
		return works.Work{}, false
	}
	source := strings.ToLower(works.FirstString(payload, "source"))
	switch source {
	case works.SourceASCAP, works.SourceBMI:
	default:
		source = works.SourceSongview
	}
	return works.Work{
		ID:         works.FirstString(payload, "work_id", "workId", "id"),
		Title:      works.FirstString(payload, "title"),
		Source:     source,
		ISWC:       works.FirstString(payload, "iswc"),
		Writers:    stringList(payload, "writers"),
		Publishers: stringList(payload, "publishers"),
		Raw:        payload,
	}, true
}

func resultList(payload any) []map[string]any {
	switch v := payload.(type) {
	case []any:
		return onlyMaps(v)
	case map[string]any:
		for _, key := range []string{"works", "results", "data"} {
			if inner, ok := v[key].([]any); ok {
				return onlyMaps(inner)
			}
		}
	}
	return nil
}

func onlyMaps(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringList(payload map[string]any, key string) []string {
	list, ok := payload[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
