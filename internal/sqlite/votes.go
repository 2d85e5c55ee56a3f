package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/jdholdren/podsite/internal/poll"
)

type voteRow struct {
	Choice string `db:"choice"`
	Count  int64  `db:"count"`
}

func (r Repo) Votes(ctx context.Context, id string) (poll.Votes, error) {
	return r.votes(ctx, r.db, id)
}

// Increment is a single upsert, so concurrent votes never overwrite each other.
func (r Repo) Increment(ctx context.Context, id, option string) (poll.Votes, error) {
	query, args, err := sq.Insert("poll_votes").
		Columns("poll_id", "choice", "count").
		Values(id, option, 1).
		Suffix("ON CONFLICT (poll_id, choice) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("error incrementing vote: %w", err)
	}

	votes, err := r.votes(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing vote: %w", err)
	}

	return votes, nil
}

func (r Repo) votes(ctx context.Context, q sqlx.QueryerContext, id string) (poll.Votes, error) {
	query, args, err := sq.Select("choice", "count").From("poll_votes").Where(sq.Eq{"poll_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error constructing sql: %w", err)
	}

	var rows []voteRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error fetching votes: %w", err)
	}

	votes := make(poll.Votes, len(rows))
	for _, row := range rows {
		votes[row.Choice] = row.Count
	}

	return votes, nil
}
