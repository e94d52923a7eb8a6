package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lborres/civika"
)

const uniqueViolation = "23505"

func (a *Adapter) CreateAccount(account *civika.Account) error {
	ctx := context.Background()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return persistErr(err)
	}
	defer tx.Rollback(ctx)

	q := `INSERT INTO civic_accounts (account_id, password_hash, display_name, email, role, karma_points, joined_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.Exec(ctx, q,
		account.AccountID, account.PasswordHash, account.DisplayName,
		account.Email, account.Role, account.KarmaPoints, account.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return civika.ErrAccountExists
		}
		return persistErr(err)
	}

	if err := insertSubmissions(ctx, tx, account.AccountID, account.Submissions); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr(err)
	}
	return nil
}

func (a *Adapter) GetAccount(accountID string) (*civika.Account, error) {
	ctx := context.Background()
	q := `SELECT account_id, password_hash, display_name, email, role, karma_points, joined_at
	      FROM civic_accounts WHERE account_id = $1`

	return a.queryAccount(ctx, q, accountID)
}

func (a *Adapter) GetAccountByEmail(email string) (*civika.Account, error) {
	ctx := context.Background()
	q := `SELECT account_id, password_hash, display_name, email, role, karma_points, joined_at
	      FROM civic_accounts WHERE email = $1`

	return a.queryAccount(ctx, q, email)
}

func (a *Adapter) UpsertAccount(account *civika.Account) error {
	ctx := context.Background()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return persistErr(err)
	}
	defer tx.Rollback(ctx)

	q := `INSERT INTO civic_accounts (account_id, password_hash, display_name, email, role, karma_points, joined_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)
	      ON CONFLICT (account_id) DO UPDATE SET
	          password_hash = EXCLUDED.password_hash,
	          display_name  = EXCLUDED.display_name,
	          email         = EXCLUDED.email,
	          role          = EXCLUDED.role,
	          karma_points  = EXCLUDED.karma_points`
	_, err = tx.Exec(ctx, q,
		account.AccountID, account.PasswordHash, account.DisplayName,
		account.Email, account.Role, account.KarmaPoints, account.JoinedAt)
	if err != nil {
		return persistErr(err)
	}

	// whole-record replace: the port contract treats submissions as
	// part of the account record
	_, err = tx.Exec(ctx, `DELETE FROM civic_submissions WHERE account_id = $1`, account.AccountID)
	if err != nil {
		return persistErr(err)
	}

	if err := insertSubmissions(ctx, tx, account.AccountID, account.Submissions); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr(err)
	}
	return nil
}

func (a *Adapter) queryAccount(ctx context.Context, q, arg string) (*civika.Account, error) {
	account := &civika.Account{}
	err := a.pool.QueryRow(ctx, q, arg).Scan(
		&account.AccountID, &account.PasswordHash, &account.DisplayName,
		&account.Email, &account.Role, &account.KarmaPoints, &account.JoinedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, civika.ErrAccountNotFound
		}
		return nil, persistErr(err)
	}

	submissions, err := a.loadSubmissions(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}
	account.Submissions = submissions
	return account, nil
}

func (a *Adapter) loadSubmissions(ctx context.Context, accountID string) ([]civika.Submission, error) {
	q := `SELECT submission_id, created_at, status, resolved_at, issue_type, severity, location, analysis, points_awarded
	      FROM civic_submissions WHERE account_id = $1 ORDER BY position`

	rows, err := a.pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, persistErr(err)
	}
	defer rows.Close()

	submissions := []civika.Submission{}
	for rows.Next() {
		var sub civika.Submission
		var resolvedAt *time.Time
		var location, analysis []byte

		err := rows.Scan(&sub.SubmissionID, &sub.CreatedAt, &sub.Status, &resolvedAt,
			&sub.IssueType, &sub.Severity, &location, &analysis, &sub.PointsAwarded)
		if err != nil {
			return nil, persistErr(err)
		}

		sub.ResolvedAt = resolvedAt
		if location != nil {
			sub.Location = &civika.Location{}
			if err := json.Unmarshal(location, sub.Location); err != nil {
				return nil, persistErr(err)
			}
		}
		if analysis != nil {
			sub.Analysis = &civika.AnalysisResult{}
			if err := json.Unmarshal(analysis, sub.Analysis); err != nil {
				return nil, persistErr(err)
			}
		}

		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err)
	}
	return submissions, nil
}

func insertSubmissions(ctx context.Context, tx pgx.Tx, accountID string, submissions []civika.Submission) error {
	q := `INSERT INTO civic_submissions (account_id, position, submission_id, created_at, status, resolved_at, issue_type, severity, location, analysis, points_awarded)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for i := range submissions {
		sub := &submissions[i]

		var location, analysis []byte
		var err error
		if sub.Location != nil {
			if location, err = json.Marshal(sub.Location); err != nil {
				return persistErr(err)
			}
		}
		if sub.Analysis != nil {
			if analysis, err = json.Marshal(sub.Analysis); err != nil {
				return persistErr(err)
			}
		}

		_, err = tx.Exec(ctx, q, accountID, i, sub.SubmissionID, sub.CreatedAt, sub.Status,
			sub.ResolvedAt, sub.IssueType, sub.Severity, location, analysis, sub.PointsAwarded)
		if err != nil {
			return persistErr(err)
		}
	}
	return nil
}

func persistErr(err error) error {
	return fmt.Errorf("%w: %v", civika.ErrPersistence, err)
}
