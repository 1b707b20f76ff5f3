package feed

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// historyCache is a TTL cache for bar series keyed by "SYMBOL/days".
type historyCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func newHistoryCache(maxCost int64, ttl time.Duration) (*historyCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &historyCache{c: c, ttl: ttl}, nil
}

func (h *historyCache) get(key string) ([]Bar, bool) {
	v, ok := h.c.Get(key)
	if !ok {
		return nil, false
	}
	bars, ok := v.([]Bar)
	return bars, ok
}

func (h *historyCache) set(key string, bars []Bar) {
	h.c.SetWithTTL(key, bars, int64(len(bars)+1), h.ttl)
	// writes are buffered; a scan re-reads the key right away
	h.c.Wait()
}
