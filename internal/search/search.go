package search

// Record is the data indexed for one feed item: its identifier, source
// URL, current activity, and the text of its retained comments.
type Record struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Activity int      `json:"activity"`
	Comments []string `json:"comments"`
}

// Result is a single search hit returned to the caller.
type Result struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Activity int    `json:"activity"`
	Snippet  string `json:"snippet"`
}

// Query describes a search request.
type Query struct {
	Text  string
	Limit int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a search over indexed items.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}
