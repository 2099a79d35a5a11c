// Package service contains the application's business logic layer.
package service

import (
	"context"
	"fmt"
	"strings"

	"supportmatch-go/internal/config"
	"supportmatch-go/internal/matching"
	"supportmatch-go/internal/model"
	"supportmatch-go/internal/repository"
	"supportmatch-go/pkg/es"
	"supportmatch-go/pkg/log"
	"supportmatch-go/pkg/storage"
)

// MatchService finds similar historical conversations for a live one.
type MatchService interface {
	FindMatches(ctx context.Context, req model.MatchRequest) ([]model.Match, error)
}

type matchService struct {
	engine      *matching.Engine
	poolCache   repository.PoolCacheRepository
	recordRepo  repository.RecordRepository
	esCfg       config.ElasticsearchConfig
	minioCfg    config.MinIOConfig
	helpdeskCfg config.HelpdeskConfig
	poolSize    int
}

// NewMatchService creates a new MatchService instance.
func NewMatchService(
	engine *matching.Engine,
	poolCache repository.PoolCacheRepository,
	recordRepo repository.RecordRepository,
	esCfg config.ElasticsearchConfig,
	minioCfg config.MinIOConfig,
	helpdeskCfg config.HelpdeskConfig,
	poolSize int,
) MatchService {
	if poolSize <= 0 {
		poolSize = 50
	}
	return &matchService{
		engine:      engine,
		poolCache:   poolCache,
		recordRepo:  recordRepo,
		esCfg:       esCfg,
		minioCfg:    minioCfg,
		helpdeskCfg: helpdeskCfg,
		poolSize:    poolSize,
	}
}

// FindMatches runs one full matching pass: candidate pool retrieval (cache,
// index, database fallback), tag filtering, per-survivor transcript
// enrichment, and confidence scoring. Failures outside the per-candidate
// boundary surface as an empty match list, never as an error to the caller.
func (s *matchService) FindMatches(ctx context.Context, req model.MatchRequest) ([]model.Match, error) {
	log.Infof("[MatchService] matching pass started, tags: %v, textLen: %d", req.Tags, len(req.Text))

	if len(req.Tags) == 0 {
		log.Info("[MatchService] no current tags, matching unsupported for this conversation")
		return []model.Match{}, nil
	}

	// 1. Candidate pool: cache first, then the search index.
	pool, cached, err := s.poolCache.Get(ctx, req.Tags)
	if err != nil {
		log.Warnf("[MatchService] pool cache read failed, falling through to retrieval: %v", err)
	}
	if !cached {
		pool = s.retrievePool(ctx, req.Tags)
		if pool == nil {
			// Pool retrieval failed entirely; user-visible outcome is "no
			// matches", not an error.
			return []model.Match{}, nil
		}
		if err := s.poolCache.Set(ctx, req.Tags, pool); err != nil {
			log.Warnf("[MatchService] pool cache write failed: %v", err)
		}
	}
	log.Infof("[MatchService] candidate pool ready, size: %d, cached: %t", len(pool), cached)

	// 2. Tag filtering with the exact/category fallback tiers.
	survivors := s.engine.FilterByTags(req.Tags, pool)
	if len(survivors) == 0 {
		log.Info("[MatchService] no candidates survived tag filtering")
		return []model.Match{}, nil
	}
	log.Infof("[MatchService] %d candidates survived tag filtering", len(survivors))

	// 3. Transcript enrichment, survivors only. A failed fetch costs the
	// candidate its similarity bonus, never the batch.
	for i := range survivors {
		if survivors[i].Text != "" {
			continue
		}
		transcript, err := storage.GetTranscript(ctx, s.minioCfg.BucketName, survivors[i].ID)
		if err != nil {
			log.Warnf("[MatchService] transcript fetch failed for %s, scoring on tag rank alone: %v", survivors[i].ID, err)
			continue
		}
		survivors[i].Text = transcript
	}

	// 4. Confidence scoring.
	results := s.engine.Score(req.Text, survivors)
	log.Infof("[MatchService] matching pass finished, returning %d matches", len(results))
	return results, nil
}

// retrievePool pulls candidates from Elasticsearch, degrading to a MySQL tag
// scan when the index is unreachable. Returns nil only when both paths fail.
func (s *matchService) retrievePool(ctx context.Context, currentTags []string) []model.Candidate {
	prefixes := make([]string, 0, len(currentTags))
	for _, t := range currentTags {
		if prefix, ok := matching.CategoryPrefix(t); ok {
			prefixes = append(prefixes, prefix)
		}
	}

	esRecords, err := es.SearchCandidates(ctx, s.esCfg.IndexName, currentTags, prefixes, s.poolSize)
	if err == nil {
		pool := make([]model.Candidate, 0, len(esRecords))
		for _, rec := range esRecords {
			pool = append(pool, model.Candidate{
				ID:           rec.ConversationID,
				Tags:         rec.Tags,
				Text:         rec.TextSnippet,
				DisplayName:  rec.CustomerName,
				Summary:      rec.Summary,
				ExternalURL:  s.externalURL(rec.ConversationID),
				MessageCount: rec.MessageCount,
			})
		}
		return pool
	}
	log.Errorf("[MatchService] candidate search failed, degrading to database scan: %v", err)

	dbRecords, dbErr := s.recordRepo.FindByAnyTag(currentTags, s.poolSize)
	if dbErr != nil {
		log.Errorf("[MatchService] candidate pool retrieval failed on both paths: %v", dbErr)
		return nil
	}
	pool := make([]model.Candidate, 0, len(dbRecords))
	for _, rec := range dbRecords {
		pool = append(pool, model.Candidate{
			ID:           rec.ConversationID,
			Tags:         splitTags(rec.Tags),
			Text:         rec.TextSnippet,
			DisplayName:  rec.CustomerName,
			Summary:      rec.Summary,
			ExternalURL:  s.externalURL(rec.ConversationID),
			MessageCount: rec.MessageCount,
		})
	}
	return pool
}

func (s *matchService) externalURL(conversationID string) string {
	if s.helpdeskCfg.ConversationURLTemplate == "" {
		return ""
	}
	return fmt.Sprintf(s.helpdeskCfg.ConversationURLTemplate, conversationID)
}

// splitTags reverses the comma-joined tag column of a database row.
func splitTags(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
