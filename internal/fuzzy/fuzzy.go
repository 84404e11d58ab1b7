// Package fuzzy scores candidate titles against a typed query. The suggestion
// overlay refilters on every keystroke, so scoring is cheap (greedy
// subsequence scan) and recent queries are cached.
package fuzzy

import (
	"strings"
	"sync"
	"unicode"
)

// Matcher scores strings against queries. It is safe for concurrent use.
type Matcher struct {
	mu    sync.Mutex
	cache *cache
}

// NewMatcher creates a matcher with a result cache of the given size.
// A size of zero disables caching.
func NewMatcher(cacheSize int) *Matcher {
	m := &Matcher{}
	if cacheSize > 0 {
		m.cache = newCache(cacheSize)
	}
	return m
}

// Score returns a relevance score for text against query, higher is better.
// Zero means the query is not a subsequence of the text. Matching is
// case-insensitive; an empty query scores zero.
func (m *Matcher) Score(query, text string) int {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || text == "" {
		return 0
	}

	key := query + "\x00" + text
	if m.cache != nil {
		m.mu.Lock()
		score, ok := m.cache.get(key)
		m.mu.Unlock()
		if ok {
			return score
		}
	}

	score := score([]rune(query), []rune(text))

	if m.cache != nil {
		m.mu.Lock()
		m.cache.put(key, score)
		m.mu.Unlock()
	}
	return score
}

// score runs a greedy left-to-right subsequence match and weights the result
// by match quality: consecutive runs, word-boundary hits, and prefix matches
// score higher; gaps and late first matches score lower.
func score(query, text []rune) int {
	lower := make([]rune, len(text))
	for i, r := range text {
		lower[i] = unicode.ToLower(r)
	}

	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0
	}

	s := 100

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			s += 20
		}
	}
	for _, idx := range matches {
		if wordBoundary(text, idx) {
			s += 15
		}
	}
	if matches[0] == 0 {
		s += 25
	}
	if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
		s -= gap * 2
	}
	s -= matches[0]
	if len(text) < 20 {
		s += 20 - len(text)
	}
	if hasPrefix(lower, query) {
		s += 50
	}

	if s < 1 {
		s = 1
	}
	return s
}

func hasPrefix(text, query []rune) bool {
	if len(text) < len(query) {
		return false
	}
	for i, q := range query {
		if text[i] != q {
			return false
		}
	}
	return true
}

// wordBoundary reports whether idx starts a word: start of text, after a
// space or punctuation rune, or at a camelCase transition.
func wordBoundary(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(text) {
		return false
	}
	prev, curr := text[idx-1], text[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}
