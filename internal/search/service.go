package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to an
// in-memory scan.
type Service struct {
	meili  *Meili
	memory *Memory
}

// NewService creates a search service. meili may be nil if Meilisearch is
// not configured.
func NewService(meili *Meili, memory *Memory) *Service {
	return &Service{meili: meili, memory: memory}
}

// Search tries Meilisearch if healthy, otherwise scans the live snapshot.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to scan: %v", err)
	}

	results, total, err := s.memory.Search(q)
	if err != nil {
		log.Printf("search: scan error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexItem indexes an item (fire-and-forget to Meilisearch). The scan
// fallback reads live state and needs no indexing.
func (s *Service) IndexItem(rec Record) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexItem(rec); err != nil {
			log.Printf("search: index item %s: %v", rec.ID, err)
		}
	}()
}

// ReindexAll pushes the full item set to Meilisearch. Called during
// bootstrap so the index covers seeded items.
func (s *Service) ReindexAll(recs []Record) {
	if s.meili == nil || !s.meili.Healthy() || len(recs) == 0 {
		return
	}
	if err := s.meili.IndexItems(recs); err != nil {
		log.Printf("search: reindex items: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
