package search

import "strings"

// Memory is the fallback searcher: a case-insensitive substring scan over
// a live snapshot of the store. It needs no indexing step, so it can never
// lag the feed, and it keeps the search surface total when Meilisearch is
// not configured.
type Memory struct {
	snapshot func() []Record
}

// NewMemory creates a scan searcher over the given snapshot source.
func NewMemory(snapshot func() []Record) *Memory {
	return &Memory{snapshot: snapshot}
}

// Healthy always reports true; the scan has no external dependency.
func (m *Memory) Healthy() bool { return true }

// Search matches records whose identifier or any retained comment contains
// the query text, case-insensitively.
func (m *Memory) Search(q Query) ([]Result, int, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	var results []Result
	total := 0
	for _, rec := range m.snapshot() {
		snippet, ok := match(rec, needle)
		if !ok {
			continue
		}
		total++
		if len(results) < limit {
			results = append(results, Result{
				ID:       rec.ID,
				URL:      rec.URL,
				Activity: rec.Activity,
				Snippet:  snippet,
			})
		}
	}
	return results, total, nil
}

func match(rec Record, needle string) (snippet string, ok bool) {
	if needle == "" {
		return "", false
	}
	for _, comment := range rec.Comments {
		if strings.Contains(strings.ToLower(comment), needle) {
			return comment, true
		}
	}
	if strings.Contains(strings.ToLower(rec.ID), needle) {
		return "", true
	}
	return "", false
}
