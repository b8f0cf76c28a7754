package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSeed = `
INSERT INTO channels (name, topic, read_priv, write_priv, auto_join) VALUES
	('#osu', 'General discussion.', 1, 2, 1),
	('#announce', 'Exemplary performance and public announcements.', 1, 24, 1),
	('#lobby', 'Multiplayer lobby discussion room.', 1, 2, 0);
INSERT INTO logs ("from", "to", action, msg, "time") VALUES (1, 1001, 'restrict', 'cheating', '2024-01-01 00:00:00');
INSERT INTO stats (id, mode, pp, acc) VALUES (1001, 0, 4210, 98.52), (1001, 1, 120, 91.2), (1002, 0, 80, 88.0);
`

// newTestSession returns a session connected to a seeded SQLite database,
// with its tables created by the schema command, and the buffer its output
// is written to.
func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess := NewSession("sqlite", nil)
	sess.out = io.Discard
	if err := sess.Execute("connect " + filepath.Join(t.TempDir(), "repl.db")); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = sess.conn.close() })
	if err := sess.Execute("schema"); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, err := sess.conn.db.SQL().Exec(testSeed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sess.out = &out
	return sess, &out
}

// run executes a command, failing the test on error, and returns its output.
func run(t *testing.T, sess *Session, out *bytes.Buffer, cmd string) string {
	t.Helper()
	out.Reset()
	if err := sess.Execute(cmd); err != nil {
		t.Fatalf("command %q failed: %v", cmd, err)
	}
	return out.String()
}

// --- Tokenizer ---

func TestTokenizeSimple(t *testing.T) {
	t.Parallel()
	tokens := tokenize("read_priv=1 auto_join = true")
	expected := []string{"read_priv", "=", "1", "auto_join", "=", "true"}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, e := range expected {
		if tokens[i] != e {
			t.Errorf("token[%d]: expected %q, got %q", i, e, tokens[i])
		}
	}
}

func TestTokenizeQuotedString(t *testing.T) {
	t.Parallel()
	tokens := tokenize("topic='it''s = fine'")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[2] != "'it''s = fine'" {
		t.Errorf("expected quoted token, got %q", tokens[2])
	}
}

// --- Argument parsing ---

func TestParseArgs(t *testing.T) {
	t.Parallel()
	args, err := parseArgs("name='#osu' msg=null read_priv=3", "name", "msg", "read_priv")
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if args["name"].raw != "#osu" {
		t.Errorf("expected unquoted name, got %q", args["name"].raw)
	}
	if !args["msg"].null {
		t.Error("expected msg to be null")
	}
	n, err := optInt(args, "read_priv")
	if err != nil || n == nil || *n != 3 {
		t.Errorf("expected read_priv 3, got %v (%v)", n, err)
	}
	missing, err := optInt(args, "write_priv")
	if err != nil || missing != nil {
		t.Errorf("expected nil for missing key, got %v (%v)", missing, err)
	}
}

func TestParseArgsErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"read_priv", "expected key=value"},
		{"read_priv=1 write_priv", "expected key=value"},
		{"colour=red", "unknown key"},
		{"read_priv=1 read_priv=2", "duplicate key"},
	}
	for _, tt := range tests {
		_, err := parseArgs(tt.input, "read_priv", "write_priv")
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("parseArgs(%q): expected %q error, got %v", tt.input, tt.want, err)
		}
	}
}

func TestOptConversionErrors(t *testing.T) {
	t.Parallel()
	args, err := parseArgs("a=x b=maybe c=null d=yesterday", "a", "b", "c", "d")
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if _, err := optInt(args, "a"); err == nil {
		t.Error("expected invalid integer error")
	}
	if _, err := optBool(args, "b"); err == nil {
		t.Error("expected invalid boolean error")
	}
	if _, err := optString(args, "c"); err == nil {
		t.Error("expected null error")
	}
	if _, err := optTime(args, "d"); err == nil {
		t.Error("expected invalid time error")
	}
}

// --- Commands without a connection ---

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil)
	sess.out = io.Discard
	err := sess.Execute("frobnicate now")
	if err == nil || !strings.Contains(err.Error(), "unknown command: frobnicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCommandsRequireConnection(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil)
	sess.out = io.Discard
	for _, cmd := range []string{"channels list", "channels count read_priv=1", "stats", "logs update id=1 msg=x", "schema"} {
		err := sess.Execute(cmd)
		if err == nil || !strings.Contains(err.Error(), "not connected") {
			t.Errorf("%q: expected not connected error, got %v", cmd, err)
		}
	}
}

func TestEngineCommand(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	sess := NewSession("mysql", nil)
	sess.out = &out
	if err := sess.Execute("engine postgres"); err != nil {
		t.Fatalf("engine failed: %v", err)
	}
	if sess.engine != "postgres" {
		t.Errorf("expected postgres, got %s", sess.engine)
	}
	if !strings.Contains(out.String(), "Engine set to postgres") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if err := sess.Execute("engine oracle"); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestNewSessionDefaultsEngine(t *testing.T) {
	t.Parallel()
	sess := NewSession("db2", nil)
	if sess.engine != "mysql" {
		t.Errorf("expected mysql default, got %s", sess.engine)
	}
}

func TestDotWithoutTree(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil)
	sess.out = io.Discard
	if err := sess.Execute("dot " + filepath.Join(t.TempDir(), "x.dot")); err != errNoTree {
		t.Errorf("expected errNoTree, got %v", err)
	}
	if err := sess.Execute("dot"); err == nil {
		t.Error("expected usage error")
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	sess := NewSession("mysql", nil)
	sess.out = &out
	if err := sess.Execute("help"); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, want := range []string{"channels list", "stats", "logs update", "dot <path>"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

// --- Channels ---

func TestChannelsList(t *testing.T) {
	sess, out := newTestSession(t)
	got := run(t, sess, out, "channels list")
	if !strings.Contains(got, `SELECT id, name, topic, read_priv, write_priv, auto_join FROM "channels";`) {
		t.Errorf("expected built SQL without WHERE, got:\n%s", got)
	}
	if !strings.Contains(got, "(3 rows)") {
		t.Errorf("expected 3 rows, got:\n%s", got)
	}

	got = run(t, sess, out, "channels list auto_join=true page=1 page_size=1")
	if !strings.Contains(got, "WHERE auto_join = :auto_join LIMIT :limit OFFSET :offset;") {
		t.Errorf("expected filtered paginated SQL, got:\n%s", got)
	}
	if !strings.Contains(got, "Params: map[auto_join:true limit:1 offset:0]") {
		t.Errorf("expected params, got:\n%s", got)
	}
	if !strings.Contains(got, "#osu") || !strings.Contains(got, "(1 row)") {
		t.Errorf("expected first auto-join channel, got:\n%s", got)
	}
}

func TestChannelsCount(t *testing.T) {
	sess, out := newTestSession(t)
	got := run(t, sess, out, "channels count write_priv=2")
	if !strings.Contains(got, "  2\n") {
		t.Errorf("expected count 2, got:\n%s", got)
	}
	if err := sess.Execute("channels count"); err == nil {
		t.Error("expected error for count without filter")
	}
}

func TestChannelsGet(t *testing.T) {
	sess, out := newTestSession(t)
	got := run(t, sess, out, "channels get name='#announce'")
	if !strings.Contains(got, "Exemplary performance") {
		t.Errorf("expected #announce row, got:\n%s", got)
	}
	got = run(t, sess, out, "channels get id=99")
	if !strings.Contains(got, "(not found)") {
		t.Errorf("expected not found, got:\n%s", got)
	}
}

func TestChannelsCreateUpdateDelete(t *testing.T) {
	sess, out := newTestSession(t)

	got := run(t, sess, out, "channels create name=#staff topic='Staff only.' read_priv=28 write_priv=28")
	if !strings.Contains(got, "#staff") || !strings.Contains(got, "Staff only.") {
		t.Errorf("expected created channel, got:\n%s", got)
	}

	got = run(t, sess, out, "channels update name=#staff topic='It''s quiet here.'")
	if !strings.Contains(got, `UPDATE "channels" SET topic = :topic WHERE name = :name;`) {
		t.Errorf("expected partial UPDATE, got:\n%s", got)
	}
	if !strings.Contains(got, "It's quiet here.") {
		t.Errorf("expected updated topic, got:\n%s", got)
	}

	err := sess.Execute("channels update name=#staff")
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("expected nothing to update error, got %v", err)
	}
	if !strings.Contains(out.String(), "(empty query)") {
		t.Errorf("expected empty query trace, got:\n%s", out.String())
	}

	got = run(t, sess, out, "channels delete name=#staff")
	if !strings.Contains(got, "#staff") {
		t.Errorf("expected deleted channel, got:\n%s", got)
	}
	got = run(t, sess, out, "channels get name=#staff")
	if !strings.Contains(got, "(not found)") {
		t.Errorf("expected channel to be gone, got:\n%s", got)
	}
}

func TestChannelsUnknownSubcommand(t *testing.T) {
	sess, _ := newTestSession(t)
	if err := sess.Execute("channels rename x=y"); err == nil {
		t.Error("expected error for unknown channels command")
	}
}

// --- Stats / logs ---

func TestStats(t *testing.T) {
	sess, out := newTestSession(t)
	got := run(t, sess, out, "stats mode=0")
	if !strings.Contains(got, "(2 rows)") {
		t.Errorf("expected 2 rows, got:\n%s", got)
	}
	got = run(t, sess, out, "stats id=1001 page=2 page_size=1")
	if !strings.Contains(got, "WHERE id = :id LIMIT :limit OFFSET :offset;") {
		t.Errorf("expected paginated SQL, got:\n%s", got)
	}
	if !strings.Contains(got, "91.20") {
		t.Errorf("expected second mode row, got:\n%s", got)
	}
}

func TestLogsUpdate(t *testing.T) {
	sess, out := newTestSession(t)
	got := run(t, sess, out, "logs update id=1 action=unrestrict msg=null")
	if !strings.Contains(got, `UPDATE "logs" SET action = :action, msg = :msg WHERE id = :id;`) {
		t.Errorf("expected partial UPDATE, got:\n%s", got)
	}
	if !strings.Contains(got, "msg:<nil>") {
		t.Errorf("expected NULL msg param, got:\n%s", got)
	}
	if !strings.Contains(got, "1 row(s) updated") {
		t.Errorf("expected one row updated, got:\n%s", got)
	}

	got = run(t, sess, out, "logs update id=1 time='2024-06-01 10:00:00'")
	if !strings.Contains(got, `SET "time" = :time`) {
		t.Errorf("expected quoted time column, got:\n%s", got)
	}

	if err := sess.Execute("logs update msg=x"); err == nil {
		t.Error("expected error without id")
	}
}

// --- Inspection ---

func TestSQLToggle(t *testing.T) {
	sess, out := newTestSession(t)
	got := run(t, sess, out, "sql")
	if !strings.Contains(got, "SQL output off") {
		t.Errorf("unexpected toggle output: %s", got)
	}
	got = run(t, sess, out, "channels count read_priv=1")
	if strings.Contains(got, "SELECT") {
		t.Errorf("expected no SQL output, got:\n%s", got)
	}

	got = run(t, sess, out, "last")
	if !strings.Contains(got, `SELECT COUNT(*) AS count FROM "channels" WHERE read_priv = :read_priv;`) {
		t.Errorf("expected last query, got:\n%s", got)
	}
	if !strings.Contains(got, "WHERE read_priv = ?; [1]") {
		t.Errorf("expected driver form, got:\n%s", got)
	}
}

func TestDot(t *testing.T) {
	sess, out := newTestSession(t)
	run(t, sess, out, "stats id=1001 page=1 page_size=10")

	path := filepath.Join(t.TempDir(), "stats.dot")
	got := run(t, sess, out, "dot "+path)
	if !strings.Contains(got, "Wrote DOT to") {
		t.Errorf("unexpected output: %s", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read DOT: %v", err)
	}
	dot := string(data)
	for _, want := range []string{"digraph Tree {", `label="Build"`, `label="Table\nstats"`, `label="Deferred"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
}

func TestDisconnect(t *testing.T) {
	var out bytes.Buffer
	sess := NewSession("sqlite", nil)
	sess.out = &out
	if err := sess.Execute("connect :memory:"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := sess.Execute("disconnect"); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
	if sess.conn != nil {
		t.Error("expected connection to be cleared")
	}
	if !strings.Contains(out.String(), "Disconnected from :memory:") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestConnectReportsMissingTablesAndSchemaCreatesThem(t *testing.T) {
	var out bytes.Buffer
	sess := NewSession("sqlite", nil)
	sess.out = &out
	if err := sess.Execute("connect " + filepath.Join(t.TempDir(), "empty.db")); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = sess.conn.close() })
	if !strings.Contains(out.String(), "Missing tables: channels, logs, stats (run 'schema' to create them)") {
		t.Errorf("expected missing tables warning, got:\n%s", out.String())
	}

	got := run(t, sess, &out, "schema")
	if !strings.Contains(got, `CREATE TABLE IF NOT EXISTS "channels" (id INTEGER PRIMARY KEY AUTOINCREMENT,`) {
		t.Errorf("expected traced DDL, got:\n%s", got)
	}
	if !strings.Contains(got, "Created channels, logs, stats") {
		t.Errorf("unexpected output:\n%s", got)
	}

	got = run(t, sess, &out, "schema")
	if !strings.Contains(got, "All tables present") {
		t.Errorf("expected no-op on second run, got:\n%s", got)
	}
	got = run(t, sess, &out, "channels list")
	if !strings.Contains(got, "(0 rows)") {
		t.Errorf("expected empty channels table, got:\n%s", got)
	}
}
