// Package pgx stores the account registry in PostgreSQL. Expected
// schema:
//
//	CREATE TABLE civic_accounts (
//	    account_id    text PRIMARY KEY,
//	    password_hash text NOT NULL,
//	    display_name  text NOT NULL,
//	    email         text NOT NULL UNIQUE,
//	    role          text NOT NULL,
//	    karma_points  int  NOT NULL,
//	    joined_at     timestamptz NOT NULL
//	);
//
//	CREATE TABLE civic_submissions (
//	    account_id     text NOT NULL REFERENCES civic_accounts(account_id) ON DELETE CASCADE,
//	    position       int  NOT NULL,
//	    submission_id  text NOT NULL,
//	    created_at     timestamptz NOT NULL,
//	    status         text NOT NULL,
//	    resolved_at    timestamptz,
//	    issue_type     text NOT NULL,
//	    severity       text NOT NULL,
//	    location       jsonb,
//	    analysis       jsonb,
//	    points_awarded int NOT NULL,
//	    PRIMARY KEY (account_id, submission_id)
//	);
//
// position preserves the ledger's most-recent-first ordering.
package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lborres/civika"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ civika.RegistryStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
