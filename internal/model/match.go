// Package model contains the application's data model definitions.
package model

// Candidate is one historical conversation eligible for comparison in a
// matching pass. It is read-only input assembled by the service layer from
// the record store; Text may be empty when transcript enrichment failed for
// this record, in which case the engine scores it on tag rank alone.
type Candidate struct {
	ID           string   `json:"id"`
	Tags         []string `json:"tags"`
	Text         string   `json:"text"`
	DisplayName  string   `json:"displayName"`
	Summary      string   `json:"summary"`
	ExternalURL  string   `json:"externalUrl"`
	MessageCount int      `json:"messageCount"`
}

// Match is one ranked result returned to the extension.
type Match struct {
	ConversationID  string   `json:"conversationId"`
	CustomerName    string   `json:"customerName"`
	Summary         string   `json:"summary"`
	Confidence      int      `json:"confidence"`
	MatchedKeywords []string `json:"matchedKeywords"`
	ExternalURL     string   `json:"externalUrl"`
	MessageCount    int      `json:"messageCount"`
}

// MatchRequest is the payload the extension sends for one matching pass.
type MatchRequest struct {
	Tags []string `json:"tags"`
	Text string   `json:"text"`
}
