// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// RecordIngestTask asks the pipeline to (re)ingest one helpdesk conversation:
// fetch the structured record, archive its transcript, summarize it, and
// index it for candidate retrieval.
type RecordIngestTask struct {
	ConversationID string `json:"conversation_id"`
	// Reason is a short marker of what triggered the task (webhook, reindex,
	// backfill) for log correlation.
	Reason string `json:"reason"`
}
