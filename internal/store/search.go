package store

import (
	"slices"
	"unicode"
)

const snippetContext = 16

// SearchMessages performs a case-insensitive substring search on message text.
// An empty contactID searches every thread. Results follow thread then append order.
func (s *Conversations) SearchMessages(query, contactID string, limit int) []SearchResult {
	if limit <= 0 {
		limit = 50
	}
	needle := lowerRunes(query)
	if len(needle) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	if contactID != "" {
		ids = []string{contactID}
	} else {
		for id := range s.threads {
			ids = append(ids, id)
		}
		slices.Sort(ids)
	}

	var results []SearchResult
	for _, id := range ids {
		conv, ok := s.threads[id]
		if !ok {
			continue
		}
		for _, m := range conv.Messages {
			snippet, ok := match(m.Text, needle)
			if !ok {
				continue
			}
			results = append(results, SearchResult{ContactID: id, Message: m, Snippet: snippet})
			if len(results) == limit {
				return results
			}
		}
	}
	return results
}

// match finds needle in text and returns a snippet with the hit wrapped in << >>.
func match(text string, needle []rune) (string, bool) {
	orig := []rune(text)
	hay := lowerRunes(text)
	at := -1
	for i := 0; i+len(needle) <= len(hay); i++ {
		if equalRunes(hay[i:i+len(needle)], needle) {
			at = i
			break
		}
	}
	if at < 0 {
		return "", false
	}

	start := max(0, at-snippetContext)
	end := min(len(orig), at+len(needle)+snippetContext)
	snippet := ""
	if start > 0 {
		snippet = "..."
	}
	snippet += string(orig[start:at]) + "<<" + string(orig[at:at+len(needle)]) + ">>" + string(orig[at+len(needle):end])
	if end < len(orig) {
		snippet += "..."
	}
	return snippet, true
}

func lowerRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
