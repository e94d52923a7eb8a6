package core

import (
	"testing"
	"time"
)

func resolvedAfter(created time.Time, d time.Duration) Submission {
	resolved := created.Add(d)
	return Submission{
		SubmissionID: created.Format("150405.000"),
		CreatedAt:    created,
		Status:       StatusResolved,
		ResolvedAt:   &resolved,
		IssueType:    "Pothole",
	}
}

// Requirement: an empty ledger summarizes to zeros with an unavailable average,
// not a zero average.
func TestSummarize_EmptyLedger(t *testing.T) {
	// Act
	stats := Summarize(nil)

	// Assert
	if stats.Total != 0 || stats.Active != 0 || stats.Completed != 0 || stats.Categories != 0 {
		t.Errorf("Summarize(nil) = %+v, want all zero counts", stats)
	}
	if stats.AverageResolution.Available {
		t.Error("average should be unavailable for an empty ledger")
	}
	if got := stats.AverageResolution.String(); got != "N/A" {
		t.Errorf("average string = %q, want %q", got, "N/A")
	}
}

// Requirement: counts split by status, categories count distinct issue types
// with a default label for missing ones, and the average covers only resolved
// submissions carrying both timestamps.
func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		submissions    []Submission
		wantTotal      int
		wantActive     int
		wantCompleted  int
		wantCategories int
		wantAverage    string
	}{
		{
			name: "pending only",
			submissions: []Submission{
				{SubmissionID: "1", CreatedAt: base, Status: StatusPending, IssueType: "Pothole"},
				{SubmissionID: "2", CreatedAt: base, Status: StatusInProgress, IssueType: "Streetlight"},
			},
			wantTotal:      2,
			wantActive:     2,
			wantCategories: 2,
			wantAverage:    "N/A",
		},
		{
			name: "missing issue types collapse into the default label",
			submissions: []Submission{
				{SubmissionID: "1", CreatedAt: base, Status: StatusPending},
				{SubmissionID: "2", CreatedAt: base, Status: StatusPending},
				{SubmissionID: "3", CreatedAt: base, Status: StatusPending, IssueType: "Pothole"},
			},
			wantTotal:      3,
			wantActive:     3,
			wantCategories: 2,
			wantAverage:    "N/A",
		},
		{
			name: "average over resolved submissions",
			submissions: []Submission{
				resolvedAfter(base, 2*time.Hour),
				resolvedAfter(base.Add(time.Hour), 3*time.Hour),
				{SubmissionID: "pending", CreatedAt: base, Status: StatusPending, IssueType: "Graffiti"},
			},
			wantTotal:      3,
			wantActive:     1,
			wantCompleted:  2,
			wantCategories: 2,
			wantAverage:    "2h 30m",
		},
		{
			name: "resolved without ResolvedAt is excluded from the average",
			submissions: []Submission{
				{SubmissionID: "1", CreatedAt: base, Status: StatusResolved, IssueType: "Pothole"},
			},
			wantTotal:      1,
			wantCompleted:  1,
			wantCategories: 1,
			wantAverage:    "N/A",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			stats := Summarize(test.submissions)

			// Assert
			if stats.Total != test.wantTotal {
				t.Errorf("total = %d, want %d", stats.Total, test.wantTotal)
			}
			if stats.Active != test.wantActive {
				t.Errorf("active = %d, want %d", stats.Active, test.wantActive)
			}
			if stats.Completed != test.wantCompleted {
				t.Errorf("completed = %d, want %d", stats.Completed, test.wantCompleted)
			}
			if stats.Categories != test.wantCategories {
				t.Errorf("categories = %d, want %d", stats.Categories, test.wantCategories)
			}
			if got := stats.AverageResolution.String(); got != test.wantAverage {
				t.Errorf("average = %q, want %q", got, test.wantAverage)
			}
		})
	}
}

// Requirement: the average serializes as its formatted string.
func TestResolutionAverage_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		average ResolutionAverage
		want    string
	}{
		{
			name:    "unavailable",
			average: ResolutionAverage{},
			want:    `"N/A"`,
		},
		{
			name:    "whole hours plus remainder minutes",
			average: ResolutionAverage{Available: true, Mean: 90 * time.Minute},
			want:    `"1h 30m"`,
		},
		{
			name:    "sub-hour durations",
			average: ResolutionAverage{Available: true, Mean: 25 * time.Minute},
			want:    `"0h 25m"`,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			data, err := test.average.MarshalJSON()

			// Assert
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(data) != test.want {
				t.Errorf("MarshalJSON() = %s, want %s", data, test.want)
			}
		})
	}
}
