package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/engintanrikulu/developer-metrics-dashboard/internal/infrastructure/nower"
	"github.com/engintanrikulu/developer-metrics-dashboard/internal/metrics"
)

// entry хранит значение вместе с моментом истечения.
type entry struct {
	value     any
	expiresAt time.Time
}

// Cache — потокобезопасный кэш в памяти с TTL на каждую запись.
// Просроченные записи удаляются лениво при чтении, фоновой очистки нет.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	clock      nower.Nower
}

// New создаёт кэш с TTL по умолчанию.
func New(defaultTTL time.Duration, clock nower.Nower) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		clock:      clock,
	}
}

// Get возвращает значение по ключу. Просроченная запись считается
// отсутствующей и удаляется.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.IncCacheMiss(KindOf(key))
		return nil, false
	}

	if c.clock.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Перепроверка под write-блокировкой: запись могли уже перезаписать.
		if cur, still := c.entries[key]; still && c.clock.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		metrics.IncCacheMiss(KindOf(key))
		return nil, false
	}

	metrics.IncCacheHit(KindOf(key))
	return e.value, true
}

// Set сохраняет значение с TTL по умолчанию.
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL сохраняет значение с явным TTL.
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.clock.Now().Add(ttl)}
}

// Clear удаляет все записи и возвращает их количество.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	return n
}

// ClearTeam удаляет записи команды: ключи вида "{team}_..." и "..._{team}_...".
// Возвращает количество удалённых записей.
func (c *Cache) ClearTeam(team string) int {
	prefix := team + "_"
	infix := "_" + team + "_"

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) || strings.Contains(k, infix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// ClearRepository удаляет записи, в ключе которых встречается имя репозитория.
func (c *Cache) ClearRepository(repo string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.entries {
		if strings.Contains(k, repo) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Size возвращает количество записей, включая ещё не вычищенные просроченные.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys возвращает все ключи кэша.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// DefaultTTL возвращает TTL по умолчанию.
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// KindOf классифицирует ключ кэша по виду хранимых данных.
// Используется в статистике кэша и в метриках hit/miss.
func KindOf(key string) string {
	switch {
	case strings.HasPrefix(key, "repo_metrics_"):
		return "repo_metrics"
	case strings.HasPrefix(key, "prs_"):
		return "prs"
	case strings.HasPrefix(key, "detailed_prs_"):
		return "detailed_prs"
	case strings.HasPrefix(key, "all_reviews_"):
		return "reviews"
	case strings.HasPrefix(key, "all_commits_"):
		return "commits"
	case key == "rate_limit":
		return "rate_limit"
	case strings.HasSuffix(key, "_last30PR") || strings.Contains(key, "_month_"):
		return "team_metrics"
	default:
		return "other"
	}
}
