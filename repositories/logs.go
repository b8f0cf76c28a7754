package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/osuserver/condsql/nodes"
)

// LogUpdate holds the log columns to change. Nil fields are left as they
// are. ClearMsg sets msg to NULL and overrides Msg.
type LogUpdate struct {
	To       *int64
	Action   *string
	Msg      *string
	ClearMsg bool
	Time     *time.Time
}

// Logs accesses the logs table.
type Logs struct {
	db    *DB
	table *nodes.Table
}

// NewLogs creates a Logs repository on db.
func NewLogs(db *DB) *Logs {
	return &Logs{db: db, table: nodes.NewTable("logs")}
}

// Update changes the non-nil fields of u on log id and returns the number
// of rows affected.
func (r *Logs) Update(ctx context.Context, id int64, u LogUpdate) (int64, error) {
	var msg any = u.Msg
	if u.ClearMsg {
		msg = nodes.Nullable(nil)
	}
	q, err := r.db.build(nodes.Update(
		r.table,
		nodes.Set(
			nodes.OptionalParam(u.To, nodes.NamedEquals(r.db.quoteColumn("to"), "to")),
			nodes.OptionalParam(u.Action, nodes.NamedEquals("action", "action")),
			nodes.OptionalParam(msg, nodes.NamedEquals("msg", "msg")),
			nodes.OptionalParam(u.Time, nodes.NamedEquals(r.db.quoteColumn("time"), "time")),
		),
		nodes.Where(nodes.OptionalParam(id, nodes.NamedEquals("id", "id"))),
	))
	if err != nil {
		return 0, err
	}
	if q.Empty() {
		return 0, ErrNothingToUpdate
	}
	res, err := r.db.Exec(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("update log %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update log %d: %w", id, err)
	}
	return n, nil
}
