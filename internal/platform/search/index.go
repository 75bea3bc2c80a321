// Package search maintains a Redis keyword index over study modules.
//
// Each module is stored as a hash under "<prefix>:module:<id>" and its
// normalized title, description, topic and subtopic words are added to
// per-token sets under "<prefix>:token:<word>". A query returns the modules
// present in every query token's set.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/textnorm"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	minTokenLen  = 2
)

// ErrIndexUnavailable is returned when the index backend cannot be reached.
var ErrIndexUnavailable = errors.New("search index unavailable")

// stopwords are too common to narrow a query.
var stopwords = map[string]bool{
	"de": true, "del": true, "la": true, "las": true, "el": true, "los": true,
	"un": true, "una": true, "y": true, "en": true, "a": true, "al": true,
	"para": true, "con": true, "por": true, "que": true, "se": true,
	"the": true, "of": true, "and": true, "to": true, "in": true, "for": true, "with": true,
}

// redisClient is the subset of *redis.Client the index uses.
type redisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SInter(ctx context.Context, keys ...string) *redis.StringSliceCmd
	Close() error
}

// ModuleDocument is the indexed form of a study module.
type ModuleDocument struct {
	ID          int64    `json:"id"`
	StudyPathID int64    `json:"studyPathId"`
	Topic       string   `json:"topic"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subtopics   []string `json:"subtopics"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// Index is a Redis-backed keyword index.
type Index struct {
	client redisClient
	prefix string
	logger *slog.Logger
}

// NewIndex connects to the Redis instance described by cfg.
func NewIndex(ctx context.Context, cfg config.SearchConfig, logger *slog.Logger) (*Index, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return newIndex(client, cfg.KeyPrefix, logger), nil
}

func newIndex(client redisClient, prefix string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "search_index"),
	}
}

// Close releases the Redis connection.
func (i *Index) Close() error {
	return i.client.Close()
}

func (i *Index) moduleKey(id int64) string {
	return fmt.Sprintf("%s:module:%d", i.prefix, id)
}

func (i *Index) tokenKey(token string) string {
	return fmt.Sprintf("%s:token:%s", i.prefix, token)
}

// indexTokens returns the distinct searchable tokens of text.
func indexTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range textnorm.Tokens(text) {
		if len(tok) < minTokenLen || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func (d ModuleDocument) searchableText() string {
	text := d.Title + " " + d.Description + " " + d.Topic
	for _, s := range d.Subtopics {
		text += " " + s
	}
	return text
}

// IndexModule stores doc and adds it to the set of every token it contains.
// Re-indexing the same module overwrites its stored fields.
func (i *Index) IndexModule(ctx context.Context, doc ModuleDocument) error {
	subtopics, err := json.Marshal(doc.Subtopics)
	if err != nil {
		return fmt.Errorf("failed to encode subtopics: %w", err)
	}

	if err := i.client.HSet(ctx, i.moduleKey(doc.ID),
		"id", doc.ID,
		"study_path_id", doc.StudyPathID,
		"topic", doc.Topic,
		"title", doc.Title,
		"description", doc.Description,
		"subtopics", string(subtopics),
		"image_url", doc.ImageURL,
	).Err(); err != nil {
		return fmt.Errorf("%w: failed to store module %d: %w", ErrIndexUnavailable, doc.ID, err)
	}

	for _, tok := range indexTokens(doc.searchableText()) {
		if err := i.client.SAdd(ctx, i.tokenKey(tok), doc.ID).Err(); err != nil {
			return fmt.Errorf("%w: failed to index token %q: %w", ErrIndexUnavailable, tok, err)
		}
	}

	i.logger.DebugContext(ctx, "module indexed", "module_id", doc.ID)
	return nil
}

// Search returns up to limit modules matching every word of query, ordered by
// module ID. A query without searchable words returns no results.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]ModuleDocument, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	tokens := indexTokens(query)
	if len(tokens) == 0 {
		return []ModuleDocument{}, nil
	}

	keys := make([]string, len(tokens))
	for n, tok := range tokens {
		keys[n] = i.tokenKey(tok)
	}

	members, err := i.client.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %w", ErrIndexUnavailable, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			i.logger.WarnContext(ctx, "skipping malformed index member", "member", m)
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	if len(ids) > limit {
		ids = ids[:limit]
	}

	results := make([]ModuleDocument, 0, len(ids))
	for _, id := range ids {
		fields, err := i.client.HGetAll(ctx, i.moduleKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load module %d: %w", ErrIndexUnavailable, id, err)
		}
		if len(fields) == 0 {
			continue
		}
		results = append(results, decodeDocument(id, fields))
	}
	return results, nil
}

func decodeDocument(id int64, fields map[string]string) ModuleDocument {
	doc := ModuleDocument{
		ID:          id,
		Topic:       fields["topic"],
		Title:       fields["title"],
		Description: fields["description"],
		ImageURL:    fields["image_url"],
	}
	doc.StudyPathID, _ = strconv.ParseInt(fields["study_path_id"], 10, 64)
	if raw := fields["subtopics"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &doc.Subtopics)
	}
	return doc
}
