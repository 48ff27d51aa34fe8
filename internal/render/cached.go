package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/models"
)

const keyPrefix = "footer:static:"

type staticCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

type staticRenderer interface {
	Static(ctx context.Context, c models.Content) (template.HTML, error)
}

// Cached stores rendered static fragments keyed by a digest of the content.
type Cached struct {
	next  staticRenderer
	cache staticCache
	log   zerolog.Logger
}

func NewCached(next staticRenderer, cache staticCache, logger zerolog.Logger) *Cached {
	return &Cached{
		next:  next,
		cache: cache,
		log:   logger.With().Str("component", "CachedRenderer").Logger(),
	}
}

func (c *Cached) Static(ctx context.Context, content models.Content) (template.HTML, error) {
	key, err := Digest(content)
	if err != nil {
		return "", err
	}

	if html, err := c.cache.Get(ctx, key); err == nil {
		//nolint:gosec // cached output of html/template
		return template.HTML(html), nil
	}

	html, err := c.next.Static(ctx, content)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, string(html)); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("failed to cache static footer")
	}
	return html, nil
}

// Digest is the cache key for content.
func Digest(content models.Content) (string, error) {
	data, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}
