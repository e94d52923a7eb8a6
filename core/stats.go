package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Statistics is a read-only summary derived from a submission ledger.
type Statistics struct {
	Total             int               `json:"total"`
	Active            int               `json:"active"`
	Completed         int               `json:"completed"`
	Categories        int               `json:"categories"`
	AverageResolution ResolutionAverage `json:"averageResolution"`
}

// ResolutionAverage is the mean time from creation to resolution.
// Available is false when no submission qualifies, which is distinct
// from an average of zero.
type ResolutionAverage struct {
	Available bool
	Mean      time.Duration
}

// String formats the average as whole hours plus remainder minutes,
// or "N/A" when unavailable.
func (r ResolutionAverage) String() string {
	if !r.Available {
		return "N/A"
	}
	hours := int(r.Mean.Hours())
	minutes := int(r.Mean.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func (r ResolutionAverage) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// Summarize derives statistics from a submission slice. It is a pure
// function: no caching, re-derived on every call.
//
// The average covers only submissions that are resolved and carry both
// timestamps.
func Summarize(submissions []Submission) Statistics {
	stats := Statistics{Total: len(submissions)}

	categories := make(map[string]struct{})
	var resolvedTotal time.Duration
	var resolvedCount int

	for i := range submissions {
		sub := &submissions[i]

		if sub.Status == StatusResolved {
			stats.Completed++
		} else {
			stats.Active++
		}

		issueType := sub.IssueType
		if issueType == "" {
			issueType = DefaultIssueType
		}
		categories[issueType] = struct{}{}

		if sub.Status == StatusResolved && sub.ResolvedAt != nil && !sub.CreatedAt.IsZero() {
			resolvedTotal += sub.ResolvedAt.Sub(sub.CreatedAt)
			resolvedCount++
		}
	}

	stats.Categories = len(categories)

	if resolvedCount > 0 {
		stats.AverageResolution = ResolutionAverage{
			Available: true,
			Mean:      resolvedTotal / time.Duration(resolvedCount),
		}
	}

	return stats
}
