package geo

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

//CachedResolver memoizes another Resolver. Misses are cached as well so a
//slow or absent answer is only paid for once per expiration window.
type CachedResolver struct {
	next  Resolver
	ips   *cache.Cache
	hints *cache.Cache
}

type cachedPoint struct {
	point Point
	ok    bool
}

//NewCachedResolver wraps next. An expiration of zero keeps entries forever.
func NewCachedResolver(next Resolver, expiration time.Duration) *CachedResolver {
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	cleanup := expiration * 2
	if expiration == cache.NoExpiration {
		cleanup = 0
	}
	return &CachedResolver{
		next:  next,
		ips:   cache.New(expiration, cleanup),
		hints: cache.New(expiration, cleanup),
	}
}

//GeolocateIP resolves an IP through the cache
func (c *CachedResolver) GeolocateIP(ip string) (Point, bool) {
	return lookup(c.ips, ip, c.next.GeolocateIP)
}

//GeolocateHint resolves a hint through the cache
func (c *CachedResolver) GeolocateHint(hint string) (Point, bool) {
	return lookup(c.hints, hint, c.next.GeolocateHint)
}

//ItemCount returns the number of memoized IP and hint answers
func (c *CachedResolver) ItemCount() int {
	return c.ips.ItemCount() + c.hints.ItemCount()
}

func lookup(store *cache.Cache, key string, resolve func(string) (Point, bool)) (Point, bool) {
	if hit, found := store.Get(key); found {
		entry := hit.(cachedPoint)
		return entry.point, entry.ok
	}
	point, ok := resolve(key)
	store.Set(key, cachedPoint{point: point, ok: ok}, cache.DefaultExpiration)
	return point, ok
}
