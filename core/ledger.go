package core

import (
	"strconv"
	"time"
)

// Ledger is the per-account ordered collection of reported issues. It
// is bound to the session manager's current account, never to an
// arbitrary account ID, so an authenticated caller cannot write into
// another account's ledger.
type Ledger struct {
	sessions *SessionManager
}

func NewLedger(sessions *SessionManager) *Ledger {
	return &Ledger{sessions: sessions}
}

// Append records a new submission for the current account: a fresh
// time-derived ID, Pending status, the fixed per-submission point
// award, prepended so the ledger iterates most-recent-first. Appending
// is the only operation that creates karma points.
func (l *Ledger) Append(input SubmissionInput) (*Submission, error) {
	var created Submission

	err := l.sessions.Mutate(func(account *Account) error {
		now := time.Now()
		created = Submission{
			SubmissionID:  newSubmissionID(now, account.Submissions),
			CreatedAt:     now,
			Status:        StatusPending,
			IssueType:     input.IssueType,
			Severity:      input.Severity,
			Location:      input.Location,
			Analysis:      input.Analysis,
			PointsAwarded: SubmissionAward,
		}

		account.Submissions = append([]Submission{created}, account.Submissions...)
		account.KarmaPoints += SubmissionAward
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Resolve marks a submission resolved and stamps ResolvedAt. Resolved
// is terminal: resolving an already-resolved submission is a no-op, and
// resolution never changes points. An unknown ID reports
// ErrSubmissionNotFound without touching the ledger; callers may treat
// that as non-fatal.
func (l *Ledger) Resolve(submissionID string) error {
	return l.sessions.Mutate(func(account *Account) error {
		for i := range account.Submissions {
			sub := &account.Submissions[i]
			if sub.SubmissionID != submissionID {
				continue
			}
			if sub.Status == StatusResolved {
				return nil
			}
			now := time.Now()
			sub.Status = StatusResolved
			sub.ResolvedAt = &now
			return nil
		}
		return ErrSubmissionNotFound
	})
}

// List returns a snapshot of the current account's submissions,
// most-recent-first.
func (l *Ledger) List() ([]Submission, error) {
	account := l.sessions.Current()
	if account == nil {
		return nil, ErrNotAuthenticated
	}
	return account.Submissions, nil
}

// Statistics summarizes the current account's ledger.
func (l *Ledger) Statistics() (Statistics, error) {
	account := l.sessions.Current()
	if account == nil {
		return Statistics{}, ErrNotAuthenticated
	}
	return Summarize(account.Submissions), nil
}

// newSubmissionID derives an ID from the creation time, unique within
// the account. Millisecond collisions bump the base until the ID is
// free.
func newSubmissionID(now time.Time, existing []Submission) string {
	base := now.UnixMilli()
	for {
		id := strconv.FormatInt(base, 10)
		if len(id) > 6 {
			id = id[len(id)-6:]
		}
		if !hasSubmission(existing, id) {
			return id
		}
		base++
	}
}

func hasSubmission(subs []Submission, id string) bool {
	for i := range subs {
		if subs[i].SubmissionID == id {
			return true
		}
	}
	return false
}
