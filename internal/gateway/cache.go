package gateway

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CacheEntry 缓存条目
type CacheEntry struct {
	Data        []byte
	ContentType string
	ExpiresAt   time.Time
	ETag        string
}

// MemoryCache 内存缓存
type MemoryCache struct {
	entries map[string]*CacheEntry
	mutex   sync.RWMutex

	DefaultTTL time.Duration
	MaxEntries int
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryCache{
		entries:    make(map[string]*CacheEntry),
		DefaultTTL: time.Minute,
		MaxEntries: maxEntries,
	}
}

// Get 获取未过期的缓存条目
func (mc *MemoryCache) Get(key string, now time.Time) *CacheEntry {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()

	entry, ok := mc.entries[key]
	if !ok || now.After(entry.ExpiresAt) {
		return nil
	}
	return entry
}

// Set 设置缓存条目，超过上限时先清理过期条目，再淘汰最早过期的条目
func (mc *MemoryCache) Set(key string, entry *CacheEntry, now time.Time) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if len(mc.entries) >= mc.MaxEntries {
		mc.evictExpired(now)
		if len(mc.entries) >= mc.MaxEntries {
			mc.evictOldest()
		}
	}
	mc.entries[key] = entry
}

// Len 条目数
func (mc *MemoryCache) Len() int {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return len(mc.entries)
}

func (mc *MemoryCache) evictExpired(now time.Time) {
	for key, entry := range mc.entries {
		if now.After(entry.ExpiresAt) {
			delete(mc.entries, key)
		}
	}
}

func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range mc.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.ExpiresAt
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
	}
}

// CacheMiddleware 对只读接口做短时缓存
type CacheMiddleware struct {
	cache *MemoryCache
	now   func() time.Time

	// 路径前缀 -> 缓存时间
	CacheTTL map[string]time.Duration
}

// NewCacheMiddleware 创建缓存中间件
func NewCacheMiddleware() *CacheMiddleware {
	return &CacheMiddleware{
		cache: NewMemoryCache(1000),
		now:   time.Now,
		CacheTTL: map[string]time.Duration{
			"/catalog/":          10 * time.Minute, // 数值表加载后不变
			"/stats/leaderboard": 30 * time.Second,
		},
	}
}

// Middleware 缓存中间件
func (cm *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ttl, ok := cm.ttlFor(r.URL.Path)
		if r.Method != http.MethodGet || !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}

		if entry := cm.cache.Get(key, cm.now()); entry != nil {
			if r.Header.Get("If-None-Match") == entry.ETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			if entry.ContentType != "" {
				w.Header().Set("Content-Type", entry.ContentType)
			}
			w.Header().Set("ETag", entry.ETag)
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(entry.Data)
			return
		}

		recorder := &cacheResponseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && len(recorder.body) > 0 {
			cm.cache.Set(key, &CacheEntry{
				Data:        recorder.body,
				ContentType: recorder.Header().Get("Content-Type"),
				ExpiresAt:   cm.now().Add(ttl),
				ETag:        etag(recorder.body),
			}, cm.now())
		}
	})
}

func (cm *CacheMiddleware) ttlFor(path string) (time.Duration, bool) {
	for prefix, ttl := range cm.CacheTTL {
		if strings.HasPrefix(path, prefix) {
			return ttl, true
		}
	}
	return 0, false
}

func etag(data []byte) string {
	return fmt.Sprintf(`"%x"`, md5.Sum(data))
}

// cacheResponseRecorder 记录响应体用于缓存
type cacheResponseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       []byte
}

// WriteHeader 记录状态码
func (crr *cacheResponseRecorder) WriteHeader(code int) {
	crr.statusCode = code
	crr.ResponseWriter.WriteHeader(code)
}

// Write 记录响应体
func (crr *cacheResponseRecorder) Write(data []byte) (int, error) {
	crr.body = append(crr.body, data...)
	return crr.ResponseWriter.Write(data)
}
