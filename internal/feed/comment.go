package feed

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyComment is returned when comment text normalizes to nothing.
var ErrEmptyComment = errors.New("comment text is empty")

func (s *Store) appendCommentLocked(it *Item, raw string) error {
	text := normalizeComment(raw, s.opts.CommentMaxLen)
	if text == "" {
		return ErrEmptyComment
	}

	it.Comments = append(it.Comments, Comment{
		ID:        uuid.NewString(),
		ItemID:    it.ID,
		Text:      text,
		CreatedAt: time.Now(),
	})
	// Cap is enforced after insert: the ledger may hold cap+1 entries for
	// the duration of this call but never persists beyond cap.
	for len(it.Comments) > s.opts.CommentCap {
		it.Comments = it.Comments[1:]
	}
	return nil
}

// normalizeComment applies NFC, collapses runs of whitespace to single
// spaces, trims the ends, and truncates to maxLen runes.
func normalizeComment(raw string, maxLen int) string {
	text := strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
	if runes := []rune(text); maxLen > 0 && len(runes) > maxLen {
		text = string(runes[:maxLen])
	}
	return text
}

// commentTail returns the most recent n comments, most-recent-first,
// without mutating the ledger.
func commentTail(comments []Comment, n int) []Comment {
	if n > len(comments) {
		n = len(comments)
	}
	out := make([]Comment, 0, n)
	for i := len(comments) - 1; i >= len(comments)-n; i-- {
		out = append(out, comments[i])
	}
	return out
}
