package feed

import "time"

// Comment is a single piece of feedback attached to an item. Comments are
// immutable once created and only ever removed by ledger eviction.
type Comment struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is one entry in the feed. All mutable state lives here; access is
// serialized by the owning Store.
type Item struct {
	ID       string
	URL      string
	Likes    int
	Dislikes int
	Comments []Comment

	// UpdatedSeq is a store-local monotonic sequence stamped on every
	// mutation. Ranking ties break on it instead of wall-clock time.
	UpdatedSeq int64
	UpdatedAt  time.Time
}

// Activity is the derived popularity score. It is never stored, so it can
// never go stale against the counts it is computed from.
func (it *Item) Activity() int {
	return it.Likes + it.Dislikes + len(it.Comments)
}

// Projection is the externally visible shape of an item. It is the single
// authority for what crosses the API boundary.
type Projection struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Activity int `json:"activity"`

	// UpdatedSeq is the store's monotonic update sequence, not an epoch
	// timestamp. Higher means more recently touched.
	UpdatedSeq int64     `json:"updatedSeq"`
	Comments   []Comment `json:"comments"`
}

// Totals aggregates counts across a collection of items.
type Totals struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Comments int `json:"comments"`
}

// Page is one window of the ranked feed. NextCursor is always
// cursor+limit, even past the end of the data; callers detect the end of
// the feed by receiving fewer than limit items.
type Page struct {
	Totals     Totals       `json:"totals"`
	Items      []Projection `json:"items"`
	NextCursor int          `json:"nextCursor"`
}
