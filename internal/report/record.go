// Package report holds the sinks that consume detector results.
package report

import (
	"strconv"

	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// NewComparisonReport converts a detector report into its persisted form
func NewComparisonReport(comparisonID, documentA, documentB string, r *plagiarism.Report) *models.ComparisonReport {
	histogram := make(map[string]int, len(r.Histogram))
	for length, count := range r.Histogram {
		histogram[strconv.Itoa(length)] = count
	}

	matches := make([]models.MatchRecord, len(r.Matches))
	for i, m := range r.Matches {
		matches[i] = models.MatchRecord{
			StartA: m.StartA,
			StartB: m.StartB,
			Length: m.Length,
			Text:   r.Snippets[i],
		}
	}

	return &models.ComparisonReport{
		ComparisonID:     comparisonID,
		DocumentA:        documentA,
		DocumentB:        documentB,
		Status:           StatusCompleted,
		TotalWords:       r.TotalWords,
		SourceWords:      r.SourceWords,
		PlagiarizedWords: r.PlagiarizedWords,
		Percentage:       r.Percentage,
		Histogram:        histogram,
		Matches:          matches,
		Risk:             r.Risk,
		Reason:           r.Reason,
		MinWindowWords:   r.MinWindowWords,
		ElapsedSeconds:   r.Elapsed.Seconds(),
	}
}

// NewFailedReport records a comparison that produced no result
func NewFailedReport(comparisonID, documentA, documentB string, err error) *models.ComparisonReport {
	return &models.ComparisonReport{
		ComparisonID: comparisonID,
		DocumentA:    documentA,
		DocumentB:    documentB,
		Status:       StatusFailed,
		Histogram:    map[string]int{},
		Matches:      []models.MatchRecord{},
		Error:        err.Error(),
	}
}
