package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/osuserver/condsql/nodes"
)

const channelColumns = "id, name, topic, read_priv, write_priv, auto_join"

// Channel is a row of the channels table.
type Channel struct {
	ID        int64
	Name      string
	Topic     string
	ReadPriv  int
	WritePriv int
	AutoJoin  bool
}

// ChannelCreate holds the columns of a new channel.
type ChannelCreate struct {
	Name      string
	Topic     string
	ReadPriv  int
	WritePriv int
	AutoJoin  bool
}

// ChannelFilter restricts channel lookups. Nil fields do not filter.
type ChannelFilter struct {
	ReadPriv  *int
	WritePriv *int
	AutoJoin  *bool
}

func (f ChannelFilter) empty() bool {
	return f.ReadPriv == nil && f.WritePriv == nil && f.AutoJoin == nil
}

func (f ChannelFilter) where() *nodes.ListNode {
	return nodes.Where(
		nodes.OptionalParam(f.ReadPriv, nodes.NamedEquals("read_priv", "read_priv")),
		nodes.OptionalParam(f.WritePriv, nodes.NamedEquals("write_priv", "write_priv")),
		nodes.OptionalParam(f.AutoJoin, nodes.NamedEquals("auto_join", "auto_join")),
	)
}

// ChannelUpdate holds the columns to change. Nil fields are left as they are.
type ChannelUpdate struct {
	Topic     *string
	ReadPriv  *int
	WritePriv *int
	AutoJoin  *bool
}

// Channels accesses the channels table.
type Channels struct {
	db    *DB
	table *nodes.Table
}

// NewChannels creates a Channels repository on db.
func NewChannels(db *DB) *Channels {
	return &Channels{db: db, table: nodes.NewTable("channels")}
}

func scanChannel(row interface{ Scan(...any) error }) (Channel, error) {
	var c Channel
	err := row.Scan(&c.ID, &c.Name, &c.Topic, &c.ReadPriv, &c.WritePriv, &c.AutoJoin)
	return c, err
}

// Create inserts a channel and returns it as stored.
func (r *Channels) Create(ctx context.Context, c ChannelCreate) (Channel, error) {
	q, err := r.db.build(
		nodes.Literal("INSERT INTO"), r.table,
		nodes.Literal("(name, topic, read_priv, write_priv, auto_join) VALUES ("),
		nodes.Set(
			nodes.Param("name", c.Name),
			nodes.Param("topic", c.Topic),
			nodes.Param("read_priv", c.ReadPriv),
			nodes.Param("write_priv", c.WritePriv),
			nodes.Param("auto_join", c.AutoJoin),
		),
		nodes.Literal(")"),
	)
	if err != nil {
		return Channel{}, err
	}
	if _, err := r.db.Exec(ctx, q); err != nil {
		return Channel{}, fmt.Errorf("create channel %q: %w", c.Name, err)
	}

	created, err := r.FetchOne(ctx, nil, &c.Name)
	if err != nil {
		return Channel{}, err
	}
	if created == nil {
		return Channel{}, fmt.Errorf("create channel %q: %w", c.Name, sql.ErrNoRows)
	}
	return *created, nil
}

// FetchOne returns the channel with the given id or name, or nil when there
// is none. id wins when both are given.
func (r *Channels) FetchOne(ctx context.Context, id *int64, name *string) (*Channel, error) {
	if id == nil && name == nil {
		return nil, ErrNoSelector
	}
	if id != nil {
		name = nil
	}
	q, err := r.db.build(
		nodes.Literal("SELECT "+channelColumns+" FROM"), r.table,
		nodes.Where(
			nodes.OptionalParam(id, nodes.NamedEquals("id", "id")),
			nodes.OptionalParam(name, nodes.NamedEquals("name", "name")),
		),
	)
	if err != nil {
		return nil, err
	}
	row, err := r.db.QueryRow(ctx, q)
	if err != nil {
		return nil, err
	}
	c, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch channel: %w", err)
	}
	return &c, nil
}

// FetchCount counts the channels matching f, which must set at least one field.
func (r *Channels) FetchCount(ctx context.Context, f ChannelFilter) (int64, error) {
	if f.empty() {
		return 0, ErrNoSelector
	}
	q, err := r.db.build(nodes.Literal("SELECT COUNT(*) AS count FROM"), r.table, f.where())
	if err != nil {
		return 0, err
	}
	row, err := r.db.QueryRow(ctx, q)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count channels: %w", err)
	}
	return n, nil
}

// FetchMany lists the channels matching f. The page is 1-based and applies
// only when pageSize is also given.
func (r *Channels) FetchMany(ctx context.Context, f ChannelFilter, page, pageSize *int) ([]Channel, error) {
	q, err := r.db.build(
		nodes.Literal("SELECT "+channelColumns+" FROM"), r.table,
		f.where(),
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

	var out []Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Update changes the non-nil fields of u on the named channel and returns
// the channel as stored afterwards, or nil when it does not exist.
func (r *Channels) Update(ctx context.Context, name string, u ChannelUpdate) (*Channel, error) {
	q, err := r.db.build(nodes.Update(
		r.table,
		nodes.Set(
			nodes.OptionalParam(u.Topic, nodes.NamedEquals("topic", "topic")),
			nodes.OptionalParam(u.ReadPriv, nodes.NamedEquals("read_priv", "read_priv")),
			nodes.OptionalParam(u.WritePriv, nodes.NamedEquals("write_priv", "write_priv")),
			nodes.OptionalParam(u.AutoJoin, nodes.NamedEquals("auto_join", "auto_join")),
		),
		nodes.Where(nodes.OptionalParam(name, nodes.NamedEquals("name", "name"))),
	))
	if err != nil {
		return nil, err
	}
	if q.Empty() {
		return nil, ErrNothingToUpdate
	}
	if _, err := r.db.Exec(ctx, q); err != nil {
		return nil, fmt.Errorf("update channel %q: %w", name, err)
	}
	return r.FetchOne(ctx, nil, &name)
}

// Delete removes the named channel and returns it, or nil when it did not
// exist.
func (r *Channels) Delete(ctx context.Context, name string) (*Channel, error) {
	c, err := r.FetchOne(ctx, nil, &name)
	if err != nil || c == nil {
		return nil, err
	}
	q, err := r.db.build(
		nodes.Literal("DELETE FROM"), r.table,
		nodes.Literal("WHERE name ="), nodes.Param("name", name),
	)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, q); err != nil {
		return nil, fmt.Errorf("delete channel %q: %w", name, err)
	}
	return c, nil
}
