package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"dukkan-backend/internal/models"

	"github.com/go-redis/redis/v8"
)

const cacheTTL = 30 * time.Minute

// CachedProfile: önbellekte tutulan kullanıcı görünümü. Parola özeti
// hiçbir zaman önbelleğe yazılmaz.
type CachedProfile struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Cache: kullanıcı profilleri için cache-aside katmanı. Redis
// erişilemezse okuma/yazma sessizce atlanır, kaynak veritabanıdır.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func cacheKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func (c *Cache) Get(ctx context.Context, userID uint) (*CachedProfile, bool) {
	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, cacheKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("kullanıcı önbelleği okunamadı (id=%d): %v", userID, err)
		return nil, false
	}

	var profile CachedProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		// Bozuk kayıt temizlenir, sonraki okuma veritabanından dolar
		c.rdb.Del(ctx, cacheKey(userID))
		return nil, false
	}
	return &profile, true
}

func (c *Cache) Set(ctx context.Context, u *models.User) {
	if c.rdb == nil {
		return
	}

	data, err := json.Marshal(CachedProfile{ID: u.ID, Name: u.Name, Email: u.Email})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(u.ID), data, cacheTTL).Err(); err != nil {
		log.Printf("kullanıcı önbelleğine yazılamadı (id=%d): %v", u.ID, err)
	}
}

// Invalidate: profil güncellemelerinden sonra çağrılır.
func (c *Cache) Invalidate(ctx context.Context, userID uint) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.Printf("kullanıcı önbelleği silinemedi (id=%d): %v", userID, err)
	}
}
