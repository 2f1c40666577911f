package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Song listings change only on admin writes or reconcile passes.
	SongListCacheTTL  = 10 * time.Minute
	VideoListCacheTTL = 10 * time.Minute
)

// CacheService provides a Redis cache-aside layer for the read-heavy
// listing endpoints.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetSongs retrieves a cached song listing for the given filter key.
// Returns nil if not cached or cache is disabled.
func (c *CacheService) GetSongs(ctx context.Context, filterKey string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, songsKey(filterKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetSongs stores a song listing under the given filter key.
func (c *CacheService) SetSongs(ctx context.Context, filterKey string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, songsKey(filterKey), b, SongListCacheTTL).Err()
}

// GetVideos retrieves the cached video listing.
func (c *CacheService) GetVideos(ctx context.Context, filterKey string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, videosKey(filterKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetVideos stores the video listing.
func (c *CacheService) SetVideos(ctx context.Context, filterKey string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, videosKey(filterKey), b, VideoListCacheTTL).Err()
}

// InvalidateListings drops every cached listing. Called after any write to
// the song or video stores (batch replace, field correction, soft delete,
// manual append, sync). Coarse on purpose: listings are cheap to rebuild
// and write frequency is low.
func (c *CacheService) InvalidateListings(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, "pjc:list:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func songsKey(filterKey string) string {
	return fmt.Sprintf("pjc:list:songs:%s", filterKey)
}

func videosKey(filterKey string) string {
	return fmt.Sprintf("pjc:list:videos:%s", filterKey)
}
