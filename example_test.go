package condsql_test

import (
	"fmt"

	"github.com/osuserver/condsql"
)

func ExampleBuild() {
	var readPriv *int
	writePriv := 2
	page, pageSize := 3, 10

	q := condsql.Build(
		condsql.Literal("SELECT id, name FROM channels"),
		condsql.Where(
			condsql.OptionalParam(readPriv, condsql.NamedEquals("read_priv", "read_priv")),
			condsql.OptionalParam(writePriv, condsql.NamedEquals("write_priv", "write_priv")),
		),
		condsql.Paginate(&page, &pageSize),
	)
	fmt.Println(q.SQL)
	fmt.Println(q.Params)
	// Output:
	// SELECT id, name FROM channels WHERE write_priv = :write_priv LIMIT :limit OFFSET :offset
	// map[limit:10 offset:20 write_priv:2]
}

func ExampleNullable() {
	q := condsql.Build(condsql.Update(
		condsql.Table("logs"),
		condsql.Set(
			condsql.OptionalParam(condsql.Nullable(nil), condsql.NamedEquals("msg", "msg")),
			condsql.OptionalParam(nil, condsql.NamedEquals("action", "action")),
		),
		condsql.Where(condsql.OptionalParam(4, condsql.NamedEquals("id", "id"))),
	))
	fmt.Println(q.SQL)
	fmt.Println(q.Params)
	// Output:
	// UPDATE `logs` SET msg = :msg WHERE id = :id
	// map[id:4 msg:<nil>]
}

func ExampleNamedEquals() {
	q := condsql.Build(condsql.Where(
		condsql.OptionalParam(1, condsql.NamedEquals("mode")),
		condsql.OptionalParam(2, condsql.NamedEquals("mode")),
	))
	fmt.Println(q.SQL)
	// Output:
	// WHERE mode = :mode__0_0_0 AND mode = :mode__0_1_0
}

func ExampleOr() {
	q := condsql.Build(condsql.Where(
		condsql.OptionalParam(1, condsql.NamedEquals("read_priv", "read_priv")),
		condsql.Or(
			condsql.OptionalParam(true, condsql.NamedEquals("auto_join", "auto_join")),
			condsql.OptionalParam(24, condsql.NamedEquals("write_priv", "write_priv")),
		),
	))
	fmt.Println(q.SQL)
	// Output:
	// WHERE read_priv = :read_priv AND (auto_join = :auto_join OR write_priv = :write_priv)
}

func ExampleNewPostgresVisitor() {
	v := condsql.NewPostgresVisitor()
	q := v.Build(
		condsql.Literal("SELECT * FROM stats"),
		condsql.Where(
			condsql.OptionalParam(1000, condsql.NamedEquals("id", "id")),
			condsql.OptionalParam(0, condsql.NamedEquals("mode", "mode")),
		),
	)
	sql, args := v.Positional(q)
	fmt.Println(sql)
	fmt.Println(args)
	// Output:
	// SELECT * FROM stats WHERE id = $1 AND mode = $2
	// [1000 0]
}
