package core

import "time"

// Role classifies what an account is allowed to do.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
)

// Severity grades how urgent a reported issue is.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// SubmissionStatus tracks a submission through its lifecycle.
// Resolved is terminal.
type SubmissionStatus string

const (
	StatusPending    SubmissionStatus = "Pending"
	StatusInProgress SubmissionStatus = "In Progress"
	StatusResolved   SubmissionStatus = "Resolved"
)

const (
	// WelcomeBonus is the karma granted to every new account.
	WelcomeBonus = 50

	// SubmissionAward is the karma granted per reported issue.
	// Points are awarded at creation, never at resolution.
	SubmissionAward = 100

	// DefaultIssueType labels submissions that carry no issue type.
	DefaultIssueType = "General"
)

// Account is a registered identity together with its submission ledger.
//
// The password hash is never serialized by the core; storage adapters
// carry it in their own record types.
type Account struct {
	AccountID    string       `json:"accountId"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"displayName"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Submissions  []Submission `json:"submissions"`
	KarmaPoints  int          `json:"karmaPoints"`
	JoinedAt     time.Time    `json:"joinedAt"`
}

// Clone returns a copy of the account with its own submission slice.
// Mutations go through SessionManager.Mutate, which works on clones so
// callers never observe a half-applied change.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Submissions = make([]Submission, len(a.Submissions))
	copy(clone.Submissions, a.Submissions)
	return &clone
}

// Submission is a single reported issue in an account's ledger.
type Submission struct {
	SubmissionID  string           `json:"submissionId"`
	CreatedAt     time.Time        `json:"createdAt"`
	Status        SubmissionStatus `json:"status"`
	ResolvedAt    *time.Time       `json:"resolvedAt,omitempty"`
	IssueType     string           `json:"issueType"`
	Severity      Severity         `json:"severity"`
	Location      *Location        `json:"location,omitempty"`
	Analysis      *AnalysisResult  `json:"analysis,omitempty"`
	PointsAwarded int              `json:"pointsAwarded"`
}

// SubmissionInput is what callers provide when reporting an issue.
// Analysis and location come from external capture stubs and are stored
// as-is; the core never generates or validates their contents.
type SubmissionInput struct {
	IssueType string          `json:"issueType"`
	Severity  Severity        `json:"severity"`
	Location  *Location       `json:"location,omitempty"`
	Analysis  *AnalysisResult `json:"analysis,omitempty"`
}

// Location is an optional GPS capture attached to a submission.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Address   string    `json:"address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisResult is the output of the external image-analysis pipeline.
type AnalysisResult struct {
	IssueType   string      `json:"issueType"`
	Confidence  int         `json:"confidence"`
	Severity    Severity    `json:"severity"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Explanation string      `json:"explanation"`
	Timestamp   time.Time   `json:"timestamp"`
}

type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SignupInput contains the data needed to register a new account.
type SignupInput struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// Credentials is a freshly issued account ID and plaintext password.
// The password is returned exactly once and is not retrievable again.
type Credentials struct {
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
}
