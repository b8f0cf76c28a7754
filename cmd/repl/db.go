package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/osuserver/condsql/repositories"
)

type dbConn struct {
	db       *repositories.DB
	dsn      string
	engine   string
	channels *repositories.Channels
	logs     *repositories.Logs
	stats    *repositories.Stats
}

func connect(engine, dsn string, trace repositories.TraceFunc) (*dbConn, error) {
	db, err := repositories.Open(engine, dsn, repositories.WithTrace(trace))
	if err != nil {
		return nil, err
	}
	return &dbConn{
		db:       db,
		dsn:      dsn,
		engine:   engine,
		channels: repositories.NewChannels(db),
		logs:     repositories.NewLogs(db),
		stats:    repositories.NewStats(db),
	}, nil
}

func (c *dbConn) close() error {
	return c.db.Close()
}

var channelHeader = []string{"id", "name", "topic", "read_priv", "write_priv", "auto_join"}

func formatChannels(chs []repositories.Channel) string {
	rows := make([][]string, len(chs))
	for i, c := range chs {
		rows[i] = []string{
			strconv.FormatInt(c.ID, 10), c.Name, c.Topic,
			strconv.Itoa(c.ReadPriv), strconv.Itoa(c.WritePriv), strconv.FormatBool(c.AutoJoin),
		}
	}
	return formatTable(channelHeader, rows)
}

var statsHeader = []string{"id", "mode", "tscore", "rscore", "pp", "plays", "playtime", "acc", "max_combo", "total_hits"}

func formatStats(stats []repositories.Stat) string {
	rows := make([][]string, len(stats))
	for i, st := range stats {
		rows[i] = []string{
			strconv.FormatInt(st.PlayerID, 10), strconv.Itoa(st.Mode),
			strconv.FormatInt(st.TScore, 10), strconv.FormatInt(st.RScore, 10),
			strconv.Itoa(st.PP), strconv.Itoa(st.Plays), strconv.Itoa(st.Playtime),
			strconv.FormatFloat(st.Acc, 'f', 2, 64), strconv.Itoa(st.MaxCombo), strconv.Itoa(st.TotalHits),
		}
	}
	return formatTable(statsHeader, rows)
}

func formatTable(columns []string, rows [][]string) string {
	if len(columns) == 0 {
		return "(0 rows)\n"
	}

	// Calculate column widths.
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder

	// Separator line.
	sep := buildSeparator(widths)

	b.WriteString(sep)
	// Header.
	b.WriteByte('|')
	for i, c := range columns {
		fmt.Fprintf(&b, " %-*s |", widths[i], c)
	}
	b.WriteByte('\n')
	b.WriteString(sep)

	// Data rows.
	for _, row := range rows {
		b.WriteByte('|')
		for i, cell := range row {
			fmt.Fprintf(&b, " %-*s |", widths[i], cell)
		}
		b.WriteByte('\n')
	}

	b.WriteString(sep)

	// Row count.
	n := len(rows)
	if n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}

	return b.String()
}

func buildSeparator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		for j := 0; j < w+2; j++ {
			b.WriteByte('-')
		}
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func sanitizeDSN(dsn string) string {
	// Try parsing as URL (postgres style).
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" && u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			// Rebuild manually to avoid percent-encoding the mask.
			masked := u.Scheme + "://" + u.User.Username() + ":****@" + u.Host + u.Path
			if u.RawQuery != "" {
				masked += "?" + u.RawQuery
			}
			return masked
		}
		return dsn
	}

	// Try MySQL-style DSN: user:pass@tcp(host)/db
	if atIdx := strings.Index(dsn, "@"); atIdx > 0 {
		userPass := dsn[:atIdx]
		if colonIdx := strings.Index(userPass, ":"); colonIdx >= 0 {
			return userPass[:colonIdx+1] + "****" + dsn[atIdx:]
		}
	}

	return dsn
}
