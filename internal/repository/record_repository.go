// Package repository provides the data access layer.
package repository

import (
	"strings"

	"supportmatch-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository defines persistence operations for support records.
type RecordRepository interface {
	Upsert(record *model.SupportRecord) error
	FindByConversationID(conversationID string) (*model.SupportRecord, error)
	FindByAnyTag(tags []string, limit int) ([]model.SupportRecord, error)
	FindWithPagination(offset, limit int) ([]model.SupportRecord, int64, error)
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new RecordRepository instance.
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

// Upsert inserts a record or replaces the row for the same conversation.
func (r *recordRepository) Upsert(record *model.SupportRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_name", "tags", "summary", "text_snippet", "message_count",
		}),
	}).Create(record).Error
}

// FindByConversationID looks up one record by its conversation ID.
func (r *recordRepository) FindByConversationID(conversationID string) (*model.SupportRecord, error) {
	var record model.SupportRecord
	err := r.db.Where("conversation_id = ?", conversationID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByAnyTag returns records whose comma-joined tag column contains any of
// the given tags. This is the degraded retrieval path used when the search
// index is unavailable; candidate precision is restored in-process by the
// matching engine.
func (r *recordRepository) FindByAnyTag(tags []string, limit int) ([]model.SupportRecord, error) {
	var records []model.SupportRecord
	if len(tags) == 0 {
		return records, nil
	}
	query := r.db.Limit(limit).Order("message_count DESC")
	conditions := r.db
	for i, tag := range tags {
		like := "%" + strings.ReplaceAll(tag, "%", "\\%") + "%"
		if i == 0 {
			conditions = conditions.Where("tags LIKE ?", like)
		} else {
			conditions = conditions.Or("tags LIKE ?", like)
		}
	}
	err := query.Where(conditions).Find(&records).Error
	return records, err
}

// FindWithPagination lists records for the admin surface.
func (r *recordRepository) FindWithPagination(offset, limit int) ([]model.SupportRecord, int64, error) {
	var records []model.SupportRecord
	var total int64
	if err := r.db.Model(&model.SupportRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Offset(offset).Limit(limit).Order("ingested_at DESC").Find(&records).Error
	return records, total, err
}
