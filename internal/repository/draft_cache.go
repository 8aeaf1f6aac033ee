package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"assessment_builder/internal/document"

	"github.com/go-redis/redis/v8"
)

const draftCachePrefix = "assessment:draft:"

// RedisDraftCache keeps the working copy of open drafts between saves so an
// authoring session survives a restart of the service.
type RedisDraftCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDraftCache(client *redis.Client, ttl time.Duration) *RedisDraftCache {
	return &RedisDraftCache{Client: client, TTL: ttl}
}

func (c *RedisDraftCache) Get(ctx context.Context, id string) (document.Assessment, bool, error) {
	raw, err := c.Client.Get(ctx, draftCachePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return document.Assessment{}, false, nil
	}
	if err != nil {
		return document.Assessment{}, false, err
	}
	doc, err := document.Decode(raw)
	if err != nil {
		return document.Assessment{}, false, err
	}
	return doc, true, nil
}

func (c *RedisDraftCache) Set(ctx context.Context, doc document.Assessment) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, draftCachePrefix+doc.ID, raw, c.TTL).Err()
}

func (c *RedisDraftCache) Delete(ctx context.Context, id string) error {
	return c.Client.Del(ctx, draftCachePrefix+id).Err()
}
