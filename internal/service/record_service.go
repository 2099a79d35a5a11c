package service

import (
	"supportmatch-go/internal/model"
	"supportmatch-go/internal/repository"
	"supportmatch-go/pkg/kafka"
	"supportmatch-go/pkg/log"
	"supportmatch-go/pkg/tasks"
)

// RecordService exposes the ingested record inventory and lets operators
// trigger reingestion of individual conversations.
type RecordService interface {
	List(page, pageSize int) ([]model.SupportRecord, int64, error)
	Get(conversationID string) (*model.SupportRecord, error)
	Reingest(conversationID, reason string) error
}

type recordService struct {
	recordRepo repository.RecordRepository
}

// NewRecordService creates a new RecordService instance.
func NewRecordService(recordRepo repository.RecordRepository) RecordService {
	return &recordService{recordRepo: recordRepo}
}

// List returns one page of records plus the total count.
func (s *recordService) List(page, pageSize int) ([]model.SupportRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.recordRepo.FindWithPagination((page-1)*pageSize, pageSize)
}

// Get looks up one record by conversation ID.
func (s *recordService) Get(conversationID string) (*model.SupportRecord, error) {
	return s.recordRepo.FindByConversationID(conversationID)
}

// Reingest queues an ingest task for the conversation. The pipeline fetches
// the record again from the helpdesk and rebuilds its summary and index
// entry.
func (s *recordService) Reingest(conversationID, reason string) error {
	task := tasks.RecordIngestTask{
		ConversationID: conversationID,
		Reason:         reason,
	}
	if err := kafka.ProduceIngestTask(task); err != nil {
		return err
	}
	log.Infof("[RecordService] queued reingest for conversation %s (%s)", conversationID, reason)
	return nil
}
