package feed

import "sort"

// rankItems orders items by activity descending, then by most recent
// update. The sort is stable so items equal on both keys keep their
// relative creation order within a single ranking call.
func rankItems(items []*Item) []*Item {
	ranked := make([]*Item, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Activity() != ranked[j].Activity() {
			return ranked[i].Activity() > ranked[j].Activity()
		}
		return ranked[i].UpdatedSeq > ranked[j].UpdatedSeq
	})
	return ranked
}

// pageBounds clamps the window [cursor, cursor+limit) to total. A cursor
// at or past the end yields an empty window, never an error.
func pageBounds(total, cursor, limit int) (lo, hi int) {
	lo = cursor
	if lo > total {
		lo = total
	}
	hi = cursor + limit
	if hi > total {
		hi = total
	}
	return lo, hi
}
