package providers

import (
	"agd/internal/structures"
	"encoding/binary"
	"sync"

	"github.com/coocood/freecache"
)

// CacheProviderInterface stores rendered lookup responses. Entries are scoped
// to a snapshot revision, so installing a new snapshot makes older entries
// unreachable without an explicit purge.
type CacheProviderInterface interface {
	Get(revision, kind string, id uint32) ([]byte, bool)
	Set(revision, kind string, id uint32, body []byte)
}

type CacheProvider struct {
	cache *freecache.Cache
	ttl   int
	keys  sync.Pool
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}
	}

	// an entry only has to outlive the revision it was rendered for
	sizeBytes := conf.Cache.Size * 1024 * 1024
	ttl := max(int(conf.Sync.Interval.Seconds()), 1) + 1

	logger.Infof(TypeApp, "Cache initialized: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache: freecache.NewCache(sizeBytes),
		ttl:   ttl,
		keys: sync.Pool{New: func() any {
			b := make([]byte, 0, 64)
			return &b
		}},
	}
}

// appendKey lays out revision 0x00 kind 0x00 id(big endian). Revisions and
// kinds never contain a NUL byte, so distinct triples never collide.
func appendKey(dst []byte, revision, kind string, id uint32) []byte {
	dst = append(dst, revision...)
	dst = append(dst, 0)
	dst = append(dst, kind...)
	dst = append(dst, 0)
	return binary.BigEndian.AppendUint32(dst, id)
}

func (c *CacheProvider) withKey(revision, kind string, id uint32, fn func(key []byte)) {
	buf := c.keys.Get().(*[]byte)
	*buf = appendKey((*buf)[:0], revision, kind, id)
	// freecache copies the key, the buffer can go back right away
	fn(*buf)
	c.keys.Put(buf)
}

func (c *CacheProvider) Get(revision, kind string, id uint32) (val []byte, ok bool) {
	c.withKey(revision, kind, id, func(key []byte) {
		v, err := c.cache.Get(key)
		val, ok = v, err == nil
	})
	return val, ok
}

func (c *CacheProvider) Set(revision, kind string, id uint32, body []byte) {
	c.withKey(revision, kind, id, func(key []byte) {
		_ = c.cache.Set(key, body, c.ttl)
	})
}

type noopCache struct{}

func (n *noopCache) Get(_, _ string, _ uint32) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_, _ string, _ uint32, _ []byte)      {}
