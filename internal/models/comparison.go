package models

import (
	"time"
)

type Step string

const (
	StepIdle      Step = "idle"
	StepQueued    Step = "queued"
	StepLoading   Step = "loading"
	StepScanning  Step = "scanning"
	StepCompleted Step = "completed"
	StepFailed    Step = "failed"
)

// StoredDocument is a document kept in MongoDB and addressable as mongo://<id>
type StoredDocument struct {
	ID        string    `bson:"documentId" json:"documentId"`
	Title     string    `bson:"title" json:"title"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// MatchRecord is a single reported run of shared words
type MatchRecord struct {
	StartA int    `bson:"startA" json:"startA"`
	StartB int    `bson:"startB" json:"startB"`
	Length int    `bson:"length" json:"length"`
	Text   string `bson:"text" json:"text"`
}

// ComparisonReport represents a persisted comparison result
type ComparisonReport struct {
	ComparisonID     string         `bson:"comparisonId" json:"comparisonId"`
	DocumentA        string         `bson:"documentA" json:"documentA"`
	DocumentB        string         `bson:"documentB" json:"documentB"`
	Status           string         `bson:"status" json:"status"` // completed, failed
	TotalWords       int            `bson:"totalWords" json:"totalWords"`
	SourceWords      int            `bson:"sourceWords" json:"sourceWords"`
	PlagiarizedWords int            `bson:"plagiarizedWords" json:"plagiarizedWords"`
	Percentage       float64        `bson:"percentage" json:"percentage"`
	Histogram        map[string]int `bson:"histogram" json:"histogram"` // length -> count
	Matches          []MatchRecord  `bson:"matches" json:"matches"`
	Risk             string         `bson:"risk" json:"risk"`
	Reason           string         `bson:"reason,omitempty" json:"reason,omitempty"`
	Error            string         `bson:"error,omitempty" json:"error,omitempty"`
	MinWindowWords   int            `bson:"minWindowWords" json:"minWindowWords"`
	ElapsedSeconds   float64        `bson:"elapsedSeconds" json:"elapsedSeconds"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
}

// CompareRequest represents a request to compare two documents. Either the
// identifiers or the inline texts must be set for each side.
type CompareRequest struct {
	DocumentA      string `json:"documentA"`
	DocumentB      string `json:"documentB"`
	TextA          string `json:"textA"`
	TextB          string `json:"textB"`
	MinWindowWords int    `json:"minWindowWords"`
}

// DocumentStored is returned when a document is saved
type DocumentStored struct {
	DocumentID string `json:"documentId"`
	URI        string `json:"uri"`
}

// ComparisonStatus reports the last recorded step of a comparison
type ComparisonStatus struct {
	ComparisonID string `json:"comparisonId"`
	Step         Step   `json:"step"`
}

// ComparisonAccepted is returned when a comparison is queued
type ComparisonAccepted struct {
	ComparisonID string `json:"comparisonId"`
	Step         Step   `json:"step"`
}

// ComparisonMessage represents a queued comparison from the Redis stream
type ComparisonMessage struct {
	ComparisonID   string `json:"comparisonId"`
	DocumentA      string `json:"documentA"`
	DocumentB      string `json:"documentB"`
	MinWindowWords int    `json:"minWindowWords"`
}
