package feed

import (
	"sync"
	"time"

	"lightbox/api/internal/util"
)

// Options tunes the store. Zero values fall back to the defaults below.
type Options struct {
	SeedCount     int
	CommentCap    int
	CommentMaxLen int
	CommentTail   int
	GrowthMargin  int
	DefaultURL    string
}

const (
	defaultSeedCount     = 9
	defaultCommentCap    = 20
	defaultCommentMaxLen = 280
	defaultCommentTail   = 6
	defaultGrowthMargin  = 2
	defaultPhotoURL      = "/static/img/placeholder.jpg"
)

func (o Options) withDefaults() Options {
	if o.SeedCount <= 0 {
		o.SeedCount = defaultSeedCount
	}
	if o.CommentCap <= 0 {
		o.CommentCap = defaultCommentCap
	}
	if o.CommentMaxLen <= 0 {
		o.CommentMaxLen = defaultCommentMaxLen
	}
	if o.CommentTail <= 0 {
		o.CommentTail = defaultCommentTail
	}
	if o.GrowthMargin <= 0 {
		o.GrowthMargin = defaultGrowthMargin
	}
	if o.DefaultURL == "" {
		o.DefaultURL = defaultPhotoURL
	}
	return o
}

// Store owns every feed item for the process lifetime. Items are created
// lazily (by population demand or by reference to an unknown identifier)
// and never deleted. A single mutex serializes all mutation and ranking;
// the working set is small and every operation is cheap and synchronous.
type Store struct {
	mu   sync.Mutex
	opts Options

	items []*Item          // creation order, not display order
	byID  map[string]*Item // identifiers resolve to the same item forever
	seq   int64
}

func NewStore(opts Options) *Store {
	return &Store{
		opts: opts.withDefaults(),
		byID: make(map[string]*Item),
	}
}

// EnsurePopulation guarantees at least min items exist, appending generated
// items with the default source URL. Idempotent: a smaller-or-equal min is
// a no-op. Pagination reads call this before ranking so growth stays an
// explicit, visible step rather than a hidden read side effect.
func (s *Store) EnsurePopulation(min int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensurePopulationLocked(min)
}

func (s *Store) ensurePopulationLocked(min int) {
	for len(s.items) < min {
		it := &Item{
			ID:  util.NewID("photo"),
			URL: s.opts.DefaultURL,
		}
		s.touchLocked(it)
		s.items = append(s.items, it)
		s.byID[it.ID] = it
	}
}

// ResolveOrCreate returns the projection of the item for id. An unknown id
// creates a fresh item under that id, inserted at the front of creation
// order. An empty id resolves to the default item (the first created one).
// This operation cannot fail; absence is coerced, never rejected.
func (s *Store) ResolveOrCreate(id string) Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectLocked(s.resolveLocked(id))
}

func (s *Store) resolveLocked(id string) *Item {
	if id == "" {
		// Bootstrap seeds the store before any request is served, so the
		// guard only matters for a store used bare.
		s.ensurePopulationLocked(1)
		return s.items[0]
	}
	if it, ok := s.byID[id]; ok {
		return it
	}
	it := &Item{
		ID:  id,
		URL: s.opts.DefaultURL,
	}
	s.touchLocked(it)
	s.items = append([]*Item{it}, s.items...)
	s.byID[id] = it
	return it
}

// React applies a like or dislike to the item for itemID. Any kind other
// than "dislike" counts as a like; reaction type is a two-valued choice
// with a fixed fallback, not a validated enumeration.
func (s *Store) React(itemID, kind string) (Projection, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.resolveLocked(itemID)
	if kind == "dislike" {
		it.Dislikes++
	} else {
		it.Likes++
	}
	s.touchLocked(it)
	return s.projectLocked(it), s.totalsLocked()
}

// AddComment normalizes text and appends it to the item's ledger, evicting
// the oldest comments once the ledger exceeds its cap. Returns
// ErrEmptyComment when nothing is left after normalization; this is the
// only operation on the store that can fail.
func (s *Store) AddComment(itemID, text string) (Projection, Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := s.resolveLocked(itemID)
	if err := s.appendCommentLocked(it, text); err != nil {
		return Projection{}, Totals{}, err
	}
	s.touchLocked(it)
	return s.projectLocked(it), s.totalsLocked(), nil
}

// Feed grows the store to cover the requested window plus the growth
// margin, then returns the ranked page at [cursor, cursor+limit).
func (s *Store) Feed(cursor, limit int) Page {
	if cursor < 0 {
		cursor = 0
	}
	if limit < 0 {
		limit = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensurePopulationLocked(cursor + limit + s.opts.GrowthMargin)
	ranked := rankItems(s.items)
	lo, hi := pageBounds(len(ranked), cursor, limit)

	page := Page{
		Totals:     s.totalsLocked(),
		Items:      make([]Projection, 0, hi-lo),
		NextCursor: cursor + limit,
	}
	for _, it := range ranked[lo:hi] {
		page.Items = append(page.Items, s.projectLocked(it))
	}
	return page
}

// Totals sums like, dislike and comment counts across the full population.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

// Snapshot projects every item in creation order. Used by the search
// fallback and for index bootstrap.
func (s *Store) Snapshot() []Projection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Projection, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, s.projectLocked(it))
	}
	return out
}

// Len reports the current population.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) touchLocked(it *Item) {
	s.seq++
	it.UpdatedSeq = s.seq
	it.UpdatedAt = time.Now()
}

func (s *Store) totalsLocked() Totals {
	var t Totals
	for _, it := range s.items {
		t.Likes += it.Likes
		t.Dislikes += it.Dislikes
		t.Comments += len(it.Comments)
	}
	return t
}

func (s *Store) projectLocked(it *Item) Projection {
	return projectItem(it, s.opts.CommentTail)
}
