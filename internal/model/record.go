// Package model contains the application's data model definitions.
package model

import "time"

// SupportRecord is one ingested helpdesk conversation as stored in MySQL.
// Tags are kept as a comma-joined string in the row and exposed split; the
// authoritative tag list for retrieval lives in the Elasticsearch index.
type SupportRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"conversationId"`
	CustomerName   string    `gorm:"type:varchar(255)" json:"customerName"`
	Tags           string    `gorm:"type:varchar(1024)" json:"tags"`
	Summary        string    `gorm:"type:text" json:"summary"`
	// TextSnippet is the leading slice of the transcript kept inline for
	// matching; the full transcript lives in the object store.
	TextSnippet  string    `gorm:"type:text" json:"textSnippet"`
	MessageCount int       `gorm:"not null;default:0" json:"messageCount"`
	IngestedAt   time.Time `gorm:"autoCreateTime" json:"ingestedAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table for this model.
func (SupportRecord) TableName() string {
	return "support_records"
}

// EsRecord is the document shape stored in the Elasticsearch record index.
type EsRecord struct {
	ConversationID string   `json:"conversation_id"`
	CustomerName   string   `json:"customer_name"`
	Tags           []string `json:"tags"`
	Summary        string   `json:"summary"`
	TextSnippet    string   `json:"text_snippet"`
	MessageCount   int      `json:"message_count"`
}
