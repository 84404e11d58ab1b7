package fuzzy

import "container/list"

// cache is a small LRU keyed by query+text. Not goroutine-safe; the Matcher
// serializes access.
type cache struct {
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	key   string
	score int
}

func newCache(maxSize int) *cache {
	return &cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *cache) get(key string) (int, bool) {
	elem, ok := c.items[key]
	if !ok {
		return 0, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).score, true
}

func (c *cache) put(key string, score int) {
	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).score = score
		return
	}
	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, score: score})
}
