// Package pipeline defines the record ingestion flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"supportmatch-go/internal/config"
	"supportmatch-go/internal/model"
	"supportmatch-go/internal/repository"
	"supportmatch-go/pkg/es"
	"supportmatch-go/pkg/helpdesk"
	"supportmatch-go/pkg/llm"
	"supportmatch-go/pkg/log"
	"supportmatch-go/pkg/storage"
	"supportmatch-go/pkg/tasks"
)

// snippetRunes bounds how much transcript is kept inline on the record; the
// full transcript lives in the object store.
const snippetRunes = 2000

// Processor encapsulates the dependencies of record ingestion.
type Processor struct {
	helpdeskClient *helpdesk.Client
	llmClient      llm.Client
	esCfg          config.ElasticsearchConfig
	minioCfg       config.MinIOConfig
	recordRepo     repository.RecordRepository
}

// NewProcessor creates a new Processor instance.
func NewProcessor(
	helpdeskClient *helpdesk.Client,
	llmClient llm.Client,
	esCfg config.ElasticsearchConfig,
	minioCfg config.MinIOConfig,
	recordRepo repository.RecordRepository,
) *Processor {
	return &Processor{
		helpdeskClient: helpdeskClient,
		llmClient:      llmClient,
		esCfg:          esCfg,
		minioCfg:       minioCfg,
		recordRepo:     recordRepo,
	}
}

// Process ingests one conversation: fetch the structured record from the
// helpdesk, archive the transcript, summarize it, and store plus index the
// result. Errors propagate so the consumer's retry budget applies.
func (p *Processor) Process(ctx context.Context, task tasks.RecordIngestTask) error {
	log.Infof("[Processor] ingest started, conversation: %s, reason: %s", task.ConversationID, task.Reason)

	// 1. Fetch the structured record.
	record, err := p.helpdeskClient.FetchRecord(ctx, task.ConversationID)
	if err != nil {
		log.Errorf("[Processor] failed to fetch record from helpdesk, conversation: %s, error: %v", task.ConversationID, err)
		return fmt.Errorf("failed to fetch helpdesk record: %w", err)
	}
	if strings.TrimSpace(record.Transcript) == "" {
		log.Warnf("[Processor] empty transcript, aborting ingest, conversation: %s", task.ConversationID)
		return errors.New("record transcript is empty")
	}
	log.Infof("[Processor] step 1: record fetched, tags: %v, transcript length: %d chars",
		record.Tags, utf8.RuneCountInString(record.Transcript))

	// 2. Archive the full transcript.
	if err := storage.PutTranscript(ctx, p.minioCfg.BucketName, record.ConversationID, record.Transcript); err != nil {
		log.Errorf("[Processor] failed to archive transcript, conversation: %s, error: %v", record.ConversationID, err)
		return fmt.Errorf("failed to archive transcript: %w", err)
	}
	log.Info("[Processor] step 2: transcript archived")

	// 3. Summarize for display. A summary failure must not block ingestion,
	// so the leading transcript text stands in.
	summary, err := p.llmClient.Summarize(ctx, record.Transcript)
	if err != nil {
		log.Warnf("[Processor] summary generation failed, using transcript head, conversation: %s, error: %v", record.ConversationID, err)
		summary = truncateRunes(record.Transcript, 200)
	}
	log.Info("[Processor] step 3: summary ready")

	// 4. Persist the record row.
	dbRecord := &model.SupportRecord{
		ConversationID: record.ConversationID,
		CustomerName:   record.CustomerName,
		Tags:           strings.Join(record.Tags, ","),
		Summary:        summary,
		TextSnippet:    truncateRunes(record.Transcript, snippetRunes),
		MessageCount:   record.MessageCount,
	}
	if err := p.recordRepo.Upsert(dbRecord); err != nil {
		log.Errorf("[Processor] failed to upsert record, conversation: %s, error: %v", record.ConversationID, err)
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	log.Info("[Processor] step 4: record persisted")

	// 5. Index for candidate retrieval.
	esDoc := model.EsRecord{
		ConversationID: record.ConversationID,
		CustomerName:   record.CustomerName,
		Tags:           record.Tags,
		Summary:        summary,
		TextSnippet:    dbRecord.TextSnippet,
		MessageCount:   record.MessageCount,
	}
	if err := es.IndexRecord(ctx, p.esCfg.IndexName, esDoc); err != nil {
		log.Errorf("[Processor] failed to index record, conversation: %s, error: %v", record.ConversationID, err)
		return fmt.Errorf("failed to index record: %w", err)
	}
	log.Infof("[Processor] ingest finished, conversation: %s", record.ConversationID)
	return nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
