package search

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxItems = "lightbox_items"

// Meili indexes and searches feed items via Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili creates a Meilisearch client and configures the items index.
// The client stays usable while Meilisearch is down; a background health
// loop flips it back once the server recovers.
func NewMeili(url, apiKey string) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxItems,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxItems, err)
	}

	index := m.client.Index(idxItems)
	searchable := []string{"comments", "id"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs for %s: %v", idxItems, err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// IndexItem upserts one item record.
func (m *Meili) IndexItem(rec Record) error {
	return m.IndexItems([]Record{rec})
}

// IndexItems upserts a batch of item records.
func (m *Meili) IndexItems(recs []Record) error {
	if !m.healthy.Load() {
		return fmt.Errorf("meilisearch unhealthy")
	}
	if _, err := m.client.Index(idxItems).AddDocuments(recs, nil); err != nil {
		m.healthy.Store(false)
		return fmt.Errorf("meilisearch index items: %w", err)
	}
	return nil
}

// Search queries the items index.
func (m *Meili) Search(q Query) ([]Result, int, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	limit := int64(q.Limit)
	if limit <= 0 {
		limit = 10
	}

	resp, err := m.client.Index(idxItems).Search(q.Text, &meili.SearchRequest{
		Limit:                 limit,
		AttributesToHighlight: []string{"comments"},
		HighlightPreTag:       "<mark>",
		HighlightPostTag:      "</mark>",
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	results := make([]Result, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		results = append(results, hitToResult(hit))
	}
	return results, int(resp.EstimatedTotalHits), nil
}

func hitToResult(hit meili.Hit) Result {
	r := Result{
		ID:  decodeString(hit, "id"),
		URL: decodeString(hit, "url"),
	}
	if raw, ok := hit["activity"]; ok {
		_ = json.Unmarshal(raw, &r.Activity)
	}
	r.Snippet = firstNonBlank(decodeHighlightedComment(hit), lastComment(hit))
	return r
}

// decodeHighlightedComment returns the comment Meilisearch highlighted,
// i.e. the one that actually matched the query.
func decodeHighlightedComment(hit meili.Hit) string {
	raw, ok := hit["_formatted"]
	if !ok {
		return ""
	}
	var formatted struct {
		Comments []string `json:"comments"`
	}
	if err := json.Unmarshal(raw, &formatted); err != nil {
		return ""
	}
	for _, comment := range formatted.Comments {
		if strings.Contains(comment, "<mark>") {
			return strings.TrimSpace(comment)
		}
	}
	return ""
}

func lastComment(hit meili.Hit) string {
	raw, ok := hit["comments"]
	if !ok {
		return ""
	}
	var comments []string
	if err := json.Unmarshal(raw, &comments); err != nil {
		return ""
	}
	if len(comments) == 0 {
		return ""
	}
	return comments[len(comments)-1]
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func decodeString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
