package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"hwbot/internal/common/cache"
)

const cursorKeyPrefix = "homework:cursor:"

// CursorStore keeps the from_date cursor between poll cycles.
type CursorStore interface {
	Load(ctx context.Context) (cursor int64, found bool, err error)
	Save(ctx context.Context, cursor int64) error
}

// MemoryCursorStore holds the cursor for the life of the process.
type MemoryCursorStore struct {
	mu     sync.Mutex
	cursor int64
	set    bool
}

func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{}
}

func (s *MemoryCursorStore) Load(_ context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.set, nil
}

func (s *MemoryCursorStore) Save(_ context.Context, cursor int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	s.set = true
	return nil
}

// RedisCursorStore persists the cursor in the shared cache so it survives restarts.
type RedisCursorStore struct {
	cache cache.Cache
	key   string
}

func NewRedisCursorStore(cacheClient cache.Cache, chatID string) *RedisCursorStore {
	return &RedisCursorStore{cache: cacheClient, key: cursorKey(chatID)}
}

func (s *RedisCursorStore) Load(ctx context.Context) (int64, bool, error) {
	raw, err := s.cache.Get(ctx, s.key)
	if err != nil {
		return 0, false, fmt.Errorf("load cursor failed: %w", err)
	}
	if raw == "" {
		return 0, false, nil
	}
	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("stored cursor %q is not an integer: %w", raw, err)
	}
	return cursor, true, nil
}

func (s *RedisCursorStore) Save(ctx context.Context, cursor int64) error {
	if err := s.cache.Set(ctx, s.key, strconv.FormatInt(cursor, 10), 0); err != nil {
		return fmt.Errorf("save cursor failed: %w", err)
	}
	return nil
}

func cursorKey(chatID string) string {
	return cursorKeyPrefix + chatID
}
