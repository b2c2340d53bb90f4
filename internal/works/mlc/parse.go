package mlc

import (
	"strings"

	"reprise/internal/works"
)

// Parser adapts raw MLC search payloads into works.
type Parser struct{}

var _ works.Parser = Parser{}

func (Parser) Source() string { return works.SourceMLC }

// Parse maps one raw work. The API has shipped several payload generations:
// IDs arrive under property_id, id, or work_id and occasionally as numbers;
// writers and publishers arrive as plain strings, as {name} objects, or as
// split {writerFirstName, writerLastName} objects.
func (Parser) Parse(payload map[string]any) (works.Work, bool) {
	if len(payload) == 0 {
		return works.Work{}, false
	}
	return works.Work{
		ID:         works.FirstString(payload, "property_id", "propertyId", "id", "work_id", "workId"),
		Title:      works.FirstString(payload, "title", "workTitle", "primaryTitle"),
		Source:     works.SourceMLC,
		ISWC:       works.FirstString(payload, "iswc"),
		Writers:    nameList(payload, "writers", "authors"),
		Publishers: nameList(payload, "publishers"),
		Raw:        payload,
	}, true
}

// candidateList extracts the work list from a search payload. Envelopes
// vary: a bare array, the known wrapper keys, or an unrecognized wrapper
// whose first non-empty list value is taken as the works.
func candidateList(payload any) (list []map[string]any, announcedTotal int) {
	switch v := payload.(type) {
	case []any:
		return onlyMaps(v), -1
	case map[string]any:
		for _, key := range []string{"content", "works", "data", "results"} {
			if inner, ok := v[key].([]any); ok {
				return onlyMaps(inner), totalOf(v)
			}
		}
		for _, value := range v {
			if inner, ok := value.([]any); ok && len(inner) > 0 {
				return onlyMaps(inner), totalOf(v)
			}
		}
	}
	return nil, -1
}

func totalOf(payload map[string]any) int {
	for _, key := range []string{"totalElements", "total"} {
		if n, ok := payload[key].(float64); ok {
			return int(n)
		}
	}
	return -1
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

func nameList(payload map[string]any, keys ...string) []string {
	for _, key := range keys {
		list, ok := payload[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		names := make([]string, 0, len(list))
		for _, item := range list {
			if name := personName(item); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return nil
}

func personName(item any) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if name := works.FirstString(v, "name", "writerName", "publisherName"); name != "" {
			return name
		}
		first := works.FirstString(v, "writerFirstName", "firstName")
		last := works.FirstString(v, "writerLastName", "lastName")
		return strings.TrimSpace(first + " " + last)
	}
	return ""
}
