package feed

// projectItem builds the external view of an item: counts, the derived
// activity score, the monotonic update stamp, and the most-recent-tail of
// the comment ledger. Nothing else crosses the boundary.
func projectItem(it *Item, tail int) Projection {
	return Projection{
		ID:         it.ID,
		URL:        it.URL,
		Likes:      it.Likes,
		Dislikes:   it.Dislikes,
		Activity:   it.Activity(),
		UpdatedSeq: it.UpdatedSeq,
		Comments:   commentTail(it.Comments, tail),
	}
}
