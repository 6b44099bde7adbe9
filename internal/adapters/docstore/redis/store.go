// Package redis stores each document in a Redis hash with "body" and "version" fields.
// Writes run a Lua script so the version check and the update are atomic.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	bodyField    = "body"
	versionField = "version"
)

// compareAndSetScript returns the new version, or -1 when the expected version
// (empty string for "must not exist") does not match.
var compareAndSetScript = redis.NewScript(`
local key = KEYS[1]
local expected = ARGV[1]

local current = redis.call('HGET', key, 'version')
if expected == '' then
	if current then
		return -1
	end
elseif (not current) or current ~= expected then
	return -1
end

local version = redis.call('HINCRBY', key, 'version', 1)
redis.call('HSET', key, 'body', ARGV[2])
return version
`)

// Store is a Redis backed document store.
type Store struct {
	client    redis.UniversalClient
	keyPrefix string
}

// New wraps a connected client. Keys are stored as keyPrefix + document key.
func New(client redis.UniversalClient, keyPrefix string) *Store {
	return &Store{client: client, keyPrefix: keyPrefix}
}

var _ portsrepo.VersionedDocumentStore = (*Store)(nil)

func (s *Store) Name() string { return "redis" }

func (s *Store) EnforcesVersions() bool { return true }

func (s *Store) key(key domain.DocumentKey) string {
	return s.keyPrefix + string(key)
}

func (s *Store) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	values, err := s.client.HMGet(ctx, s.key(key), bodyField, versionField).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: hmget %s: %v", apperrors.ErrBackend, key, err)
	}
	body, okBody := values[0].(string)
	version, okVersion := values[1].(string)
	if !okBody || !okVersion {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, key)
	}
	return &portsrepo.Document{Key: key, Body: []byte(body), Version: portsrepo.Version(version)}, nil
}

func (s *Store) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	result, err := compareAndSetScript.Run(ctx, s.client, []string{s.key(key)}, string(expected), body).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return portsrepo.NoVersion, fmt.Errorf("%w: cas %s: empty script reply", apperrors.ErrBackend, key)
		}
		return portsrepo.NoVersion, fmt.Errorf("%w: cas %s: %v", apperrors.ErrBackend, key, err)
	}
	if result < 0 {
		return portsrepo.NoVersion, fmt.Errorf("%w: document %s changed since version %q", apperrors.ErrVersionConflict, key, expected)
	}
	return portsrepo.Version(strconv.FormatInt(result, 10)), nil
}
