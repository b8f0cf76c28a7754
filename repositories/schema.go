package repositories

import (
	"context"
	"fmt"

	"github.com/osuserver/condsql/nodes"
)

// Tables lists the tables the repositories read and write.
var Tables = []string{"channels", "logs", "stats"}

// columnTypes holds the engine-specific parts of the schema DDL.
type columnTypes struct {
	serial   string // auto-increment primary key
	boolean  string
	datetime string
	float    string
}

var schemaTypes = map[string]columnTypes{
	"mysql":    {"INT NOT NULL AUTO_INCREMENT PRIMARY KEY", "TINYINT(1)", "DATETIME", "FLOAT"},
	"postgres": {"SERIAL PRIMARY KEY", "BOOLEAN", "TIMESTAMP", "DOUBLE PRECISION"},
	"sqlite":   {"INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER", "TEXT", "REAL"},
}

func (d *DB) tableColumns(table string) string {
	t := schemaTypes[d.engine]
	switch table {
	case "channels":
		return "id " + t.serial + ", " +
			"name VARCHAR(32) NOT NULL UNIQUE, " +
			"topic VARCHAR(256) NOT NULL, " +
			"read_priv INT NOT NULL DEFAULT 1, " +
			"write_priv INT NOT NULL DEFAULT 2, " +
			"auto_join " + t.boolean + " NOT NULL DEFAULT FALSE"
	case "logs":
		return "id " + t.serial + ", " +
			d.quoteColumn("from") + " INT NOT NULL, " +
			d.quoteColumn("to") + " INT NOT NULL, " +
			"action VARCHAR(32) NOT NULL, " +
			"msg VARCHAR(2048), " +
			d.quoteColumn("time") + " " + t.datetime + " NOT NULL"
	default:
		return "id INT NOT NULL, " +
			"mode INT NOT NULL, " +
			"tscore BIGINT NOT NULL DEFAULT 0, " +
			"rscore BIGINT NOT NULL DEFAULT 0, " +
			"pp INT NOT NULL DEFAULT 0, " +
			"plays INT NOT NULL DEFAULT 0, " +
			"playtime INT NOT NULL DEFAULT 0, " +
			"acc " + t.float + " NOT NULL DEFAULT 0, " +
			"max_combo INT NOT NULL DEFAULT 0, " +
			"total_hits INT NOT NULL DEFAULT 0, " +
			"PRIMARY KEY (id, mode)"
	}
}

// CreateSchema creates every table in Tables that does not exist yet.
func (d *DB) CreateSchema(ctx context.Context) error {
	for _, table := range Tables {
		q, err := d.build(
			nodes.Literal("CREATE TABLE IF NOT EXISTS"), nodes.NewTable(table),
			nodes.Literal("("+d.tableColumns(table)+")"),
		)
		if err != nil {
			return err
		}
		if _, err := d.Exec(ctx, q); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

// MissingTables returns the tables in Tables that cannot be read. The
// lookups are not reported to the trace hook.
func (d *DB) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range Tables {
		q, err := d.compile(nodes.Literal("SELECT 1 FROM"), nodes.NewTable(table), nodes.Literal("WHERE 1 = 0"))
		if err != nil {
			return nil, err
		}
		rows, err := d.Query(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			missing = append(missing, table)
			continue
		}
		_ = rows.Close()
	}
	return missing, nil
}
