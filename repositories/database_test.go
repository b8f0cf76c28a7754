package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osuserver/condsql/nodes"
)

var channelRowColumns = []string{"id", "name", "topic", "read_priv", "write_priv", "auto_join"}

func newMock(t *testing.T, engine string, opts ...Option) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	d, err := OpenDB(engine, db, opts...)
	require.NoError(t, err)
	return d, mock
}

func ptr[T any](v T) *T { return &v }

func TestOpenDBUnknownEngine(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = OpenDB("oracle", db)
	require.ErrorIs(t, err, ErrUnknownEngine)

	_, err = Open("oracle", "")
	require.ErrorIs(t, err, ErrUnknownEngine)
}

func TestDBBuilderFollowsEngine(t *testing.T) {
	for _, engine := range Engines {
		d, _ := newMock(t, engine)
		assert.Equal(t, engine, d.Engine())
		assert.NotNil(t, d.Builder())
	}

	d, _ := newMock(t, "postgres")
	s, args := d.Builder().Positional(nodes.Fragment{SQL: "id = :id", Params: map[string]any{"id": 1}})
	assert.Equal(t, "id = $1", s)
	assert.Equal(t, []any{1}, args)
}

func TestDBQuoteColumn(t *testing.T) {
	d, _ := newMock(t, "mysql")
	assert.Equal(t, "`to`", d.quoteColumn("to"))
	d, _ = newMock(t, "sqlite")
	assert.Equal(t, `"to"`, d.quoteColumn("to"))
}

func TestDBEmptyQuery(t *testing.T) {
	d, mock := newMock(t, "mysql")
	ctx := context.Background()

	_, err := d.Exec(ctx, nodes.Fragment{})
	require.ErrorIs(t, err, ErrEmptyQuery)
	_, err = d.Query(ctx, nodes.Fragment{})
	require.ErrorIs(t, err, ErrEmptyQuery)
	_, err = d.QueryRow(ctx, nodes.Fragment{})
	require.ErrorIs(t, err, ErrEmptyQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBExecRewritesPlaceholders(t *testing.T) {
	d, mock := newMock(t, "postgres")
	mock.ExpectExec(`UPDATE "logs" SET msg = $1 WHERE id = $2`).
		WithArgs("hi", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	q := d.Builder().Build(nodes.Update(
		nodes.NewTable("logs"),
		nodes.Set(nodes.OptionalParam("hi", nodes.NamedEquals("msg", "msg"))),
		nodes.Where(nodes.OptionalParam(3, nodes.NamedEquals("id", "id"))),
	))
	res, err := d.Exec(context.Background(), q)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTrace(t *testing.T) {
	var traced []nodes.Fragment
	var trees [][]nodes.Node
	d, mock := newMock(t, "mysql", WithTrace(func(parts []nodes.Node, q nodes.Fragment) {
		trees = append(trees, parts)
		traced = append(traced, q)
	}))
	mock.ExpectQuery("SELECT COUNT(*) AS count FROM `channels` WHERE read_priv = ?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := NewChannels(d).FetchCount(context.Background(), ChannelFilter{ReadPriv: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.Len(t, traced, 1)
	assert.Equal(t, "SELECT COUNT(*) AS count FROM `channels` WHERE read_priv = :read_priv", traced[0].SQL)
	assert.Equal(t, map[string]any{"read_priv": 1}, traced[0].Params)
	assert.Len(t, trees[0], 3)
	require.NoError(t, mock.ExpectationsWereMet())
}
