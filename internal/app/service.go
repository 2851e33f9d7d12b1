package app

import (
	"errors"
	"net/http"

	"lightbox/api/internal/config"
	"lightbox/api/internal/feed"
	"lightbox/api/internal/search"
)

type ReactInput struct {
	Kind   string `json:"kind"`
	ItemID string `json:"itemId"`
}

type CommentInput struct {
	Text   string `json:"text"`
	ItemID string `json:"itemId"`
}

// ItemPayload is the response envelope for the two mutating operations:
// the updated item projection plus current feed totals.
type ItemPayload struct {
	Item   feed.Projection `json:"item"`
	Totals feed.Totals     `json:"totals"`
}

// Service orchestrates feed operations. The engine's coercion policy lives
// in the store; the service adds the one client-visible failure mapping
// and keeps the search index fed.
type Service struct {
	cfg    config.Config
	store  *feed.Store
	search *search.Service
}

// New wires the service over the store. meili may be nil; the fallback
// searcher scans the store snapshot either way.
func New(cfg config.Config, store *feed.Store, meili *search.Meili) *Service {
	s := &Service{
		cfg:   cfg,
		store: store,
	}
	s.search = search.NewService(meili, search.NewMemory(s.searchRecords))
	return s
}

// Bootstrap seeds the store to the configured population and pushes the
// seed items into the search index. Must run before requests are served so
// identifier-less operations always have a default item to land on.
func (s *Service) Bootstrap() {
	s.store.EnsurePopulation(s.cfg.SeedCount)
	s.search.ReindexAll(s.searchRecords())
}

// React applies a reaction. Unknown kinds coerce to like and unknown item
// identifiers create the item, so this operation cannot fail.
func (s *Service) React(in ReactInput) ItemPayload {
	item, totals := s.store.React(in.ItemID, in.Kind)
	s.search.IndexItem(toRecord(item))
	return ItemPayload{Item: item, Totals: totals}
}

// Comment appends a comment. The only failure is empty text after
// normalization, surfaced as a 422 DomainError.
func (s *Service) Comment(in CommentInput) (ItemPayload, error) {
	item, totals, err := s.store.AddComment(in.ItemID, in.Text)
	if errors.Is(err, feed.ErrEmptyComment) {
		return ItemPayload{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Comment text is empty")
	}
	if err != nil {
		return ItemPayload{}, err
	}
	s.search.IndexItem(toRecord(item))
	return ItemPayload{Item: item, Totals: totals}, nil
}

// ListFeed returns the ranked window at [cursor, cursor+limit), growing
// the store first so the window can always be filled. Non-positive limits
// coerce to the configured page size.
func (s *Service) ListFeed(cursor, limit int) feed.Page {
	if limit <= 0 {
		limit = s.cfg.PageSize
	}
	if cursor < 0 {
		cursor = 0
	}
	return s.store.Feed(cursor, limit)
}

// Search queries the item index (or the fallback scan).
func (s *Service) Search(q string, limit int) search.Response {
	return s.search.Search(search.Query{Text: q, Limit: limit})
}

// searchRecords is the live snapshot source handed to the in-memory
// searcher, so the fallback can never lag the feed.
func (s *Service) searchRecords() []search.Record {
	items := s.store.Snapshot()
	recs := make([]search.Record, 0, len(items))
	for _, item := range items {
		recs = append(recs, toRecord(item))
	}
	return recs
}

func toRecord(item feed.Projection) search.Record {
	comments := make([]string, 0, len(item.Comments))
	for _, c := range item.Comments {
		comments = append(comments, c.Text)
	}
	return search.Record{
		ID:       item.ID,
		URL:      item.URL,
		Activity: item.Activity,
		Comments: comments,
	}
}
