package repositories

import (
	"context"
	"fmt"

	"github.com/osuserver/condsql/nodes"
)

const statsColumns = "id, mode, tscore, rscore, pp, plays, playtime, acc, max_combo, total_hits"

// Stat is a player's statistics for one game mode.
type Stat struct {
	PlayerID  int64
	Mode      int
	TScore    int64
	RScore    int64
	PP        int
	Plays     int
	Playtime  int
	Acc       float64
	MaxCombo  int
	TotalHits int
}

// StatsFilter restricts stats listings. Nil fields do not filter.
type StatsFilter struct {
	PlayerID *int64
	Mode     *int
}

// Stats accesses the stats table.
type Stats struct {
	db    *DB
	table *nodes.Table
}

// NewStats creates a Stats repository on db.
func NewStats(db *DB) *Stats {
	return &Stats{db: db, table: nodes.NewTable("stats")}
}

// FetchMany lists the stats rows matching f. The page is 1-based and
// applies only when pageSize is also given.
func (r *Stats) FetchMany(ctx context.Context, f StatsFilter, page, pageSize *int) ([]Stat, error) {
	q, err := r.db.build(
		nodes.Literal("SELECT "+statsColumns+" FROM"), r.table,
		nodes.Where(
			nodes.And(nodes.OptionalParam(f.PlayerID, nodes.NamedEquals("id", "id"))),
			nodes.And(nodes.OptionalParam(f.Mode, nodes.NamedEquals("mode", "mode"))),
		),
		nodes.Paginate(page, pageSize),
	)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Stat
	for rows.Next() {
		var s Stat
		if err := rows.Scan(&s.PlayerID, &s.Mode, &s.TScore, &s.RScore, &s.PP,
			&s.Plays, &s.Playtime, &s.Acc, &s.MaxCombo, &s.TotalHits); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
