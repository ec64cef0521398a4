// Package session persists bureau session keys between runs. A key is valid
// only on the calendar day it was issued.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/ubkifeat/internal/cache"
)

const namespace = "session"

// ErrNoKey is returned when no key was issued today for an environment
var ErrNoKey = errors.New("no session key for today")

// Env selects the bureau environment a key belongs to
type Env string

const (
	EnvTest Env = "test"
	EnvReal Env = "real"
)

// Envs lists every known environment
var Envs = []Env{EnvTest, EnvReal}

// ParseEnv validates an environment name
func ParseEnv(s string) (Env, error) {
	switch env := Env(strings.ToLower(strings.TrimSpace(s))); env {
	case EnvTest, EnvReal:
		return env, nil
	default:
		return "", fmt.Errorf("unknown environment %q (use test or real)", s)
	}
}

// Key is a stored session key
type Key struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	IssuedOn  string `json:"issued_on" yaml:"issued_on"` // YYYY-MM-DD, local time
}

// Store reads and writes session keys through a cache
type Store struct {
	cache cache.Cache
	now   func() time.Time
}

// NewStore creates a store over c
func NewStore(c cache.Cache) *Store {
	return &Store{cache: c, now: time.Now}
}

// Get returns today's key for env
func (s *Store) Get(env Env) (Key, error) {
	data, ok := s.cache.Get(cache.CacheKey(namespace, string(env)))
	if !ok {
		return Key{}, ErrNoKey
	}

	var key Key
	if err := json.Unmarshal(data, &key); err != nil {
		return Key{}, fmt.Errorf("decode session key: %w", err)
	}
	if key.IssuedOn != s.today() {
		return Key{}, ErrNoKey
	}
	return key, nil
}

// Put stores sessionID as today's key for env. It expires at the next local
// midnight.
func (s *Store) Put(env Env, sessionID string) (Key, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Key{}, errors.New("session id is empty")
	}

	key := Key{SessionID: sessionID, IssuedOn: s.today()}
	data, err := json.Marshal(key)
	if err != nil {
		return Key{}, fmt.Errorf("encode session key: %w", err)
	}

	if err := s.cache.Set(cache.CacheKey(namespace, string(env)), data, s.untilMidnight()); err != nil {
		return Key{}, fmt.Errorf("store session key: %w", err)
	}
	return key, nil
}

// Clear removes the keys of the given environments, or of all when none given
func (s *Store) Clear(envs ...Env) error {
	if len(envs) == 0 {
		envs = Envs
	}
	for _, env := range envs {
		if err := s.cache.Delete(cache.CacheKey(namespace, string(env))); err != nil {
			return fmt.Errorf("clear %s session key: %w", env, err)
		}
	}
	return nil
}

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}

func (s *Store) untilMidnight() time.Duration {
	now := s.now()
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
}
