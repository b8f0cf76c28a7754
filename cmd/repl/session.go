package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"

	"github.com/osuserver/condsql/nodes"
	"github.com/osuserver/condsql/repositories"
	"github.com/osuserver/condsql/visitors"
)

var (
	errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")
	errNoTree       = errors.New("no query built yet (run a channels, stats or logs command first)")
)

var (
	channelFilterKeys = []string{"read_priv", "write_priv", "auto_join", "page", "page_size"}
	channelGetKeys    = []string{"id", "name"}
	channelCreateKeys = []string{"name", "topic", "read_priv", "write_priv", "auto_join"}
	channelUpdateKeys = []string{"name", "topic", "read_priv", "write_priv", "auto_join"}
	channelDeleteKeys = []string{"name"}
	statsKeys         = []string{"id", "mode", "page", "page_size"}
	logsUpdateKeys    = []string{"id", "to", "action", "msg", "time"}
)

// Session holds the REPL state: the selected engine, the open connection
// and the most recently composed query tree.
type Session struct {
	engine    string
	conn      *dbConn // nil when disconnected
	lastDSN   string  // remembers the previous DSN for reconnect
	rl        *readline.Instance
	commands  []commandEntry // command registry (sorted by prefix length desc)
	showSQL   bool
	lastTree  []nodes.Node
	lastQuery nodes.Fragment
	out       io.Writer // destination for REPL output (default os.Stdout)
}

// NewSession creates a session for the given engine.
func NewSession(engine string, rl *readline.Instance) *Session {
	s := &Session{
		engine:  engine,
		rl:      rl,
		showSQL: true,
		out:     os.Stdout,
	}
	if !isValidEngine(engine) {
		s.engine = "mysql"
	}
	s.initCommands()
	return s
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else {
			if lower == cmd.prefix {
				return cmd.handler("")
			}
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// onBuild is the repositories trace hook: it keeps the tree for 'dot' and
// prints the rendered query when 'sql' output is on.
func (s *Session) onBuild(parts []nodes.Node, q nodes.Fragment) {
	s.lastTree = parts
	s.lastQuery = q
	if !s.showSQL {
		return
	}
	if q.Empty() {
		_, _ = fmt.Fprintln(s.out, "  (empty query)")
		return
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", q.SQL)
	if len(q.Params) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %v\n", q.Params)
	}
}

func (s *Session) requireConn() (*dbConn, error) {
	if s.conn == nil {
		return nil, errNotConnected
	}
	return s.conn, nil
}

// --- Command handlers ---

func (s *Session) cmdEngine(args string) error {
	name := strings.TrimSpace(strings.ToLower(args))
	if !isValidEngine(name) {
		return fmt.Errorf("unknown engine %q (choose: %s)", name, strings.Join(repositories.Engines, ", "))
	}
	s.engine = name
	_, _ = fmt.Fprintf(s.out, "  Engine set to %s\n", s.engine)
	if s.conn != nil && s.conn.engine != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: still connected to %s (reconnect to switch)\n", s.conn.engine)
	}
	return nil
}

func (s *Session) cmdSQL() error {
	s.showSQL = !s.showSQL
	state := "off"
	if s.showSQL {
		state = "on"
	}
	_, _ = fmt.Fprintf(s.out, "  SQL output %s\n", state)
	return nil
}

// cmdLast prints the most recently composed query.
func (s *Session) cmdLast() error {
	if s.lastTree == nil {
		return errNoTree
	}
	if s.lastQuery.Empty() {
		_, _ = fmt.Fprintln(s.out, "  (empty query)")
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", s.lastQuery.SQL)
	if len(s.lastQuery.Params) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %v\n", s.lastQuery.Params)
	}
	if s.conn != nil {
		positional, args := s.conn.db.Builder().Positional(s.lastQuery)
		_, _ = fmt.Fprintf(s.out, "  Driver: %s; %v\n", positional, args)
	}
	return nil
}

func (s *Session) cmdChannelsCount(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, channelFilterKeys[:3]...)
	if err != nil {
		return err
	}
	f, err := channelFilter(kv)
	if err != nil {
		return err
	}
	n, err := conn.channels.FetchCount(context.Background(), f)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %d\n", n)
	return nil
}

func (s *Session) cmdChannelsList(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, channelFilterKeys...)
	if err != nil {
		return err
	}
	f, err := channelFilter(kv)
	if err != nil {
		return err
	}
	page, err := optInt(kv, "page")
	if err != nil {
		return err
	}
	pageSize, err := optInt(kv, "page_size")
	if err != nil {
		return err
	}
	chs, err := conn.channels.FetchMany(context.Background(), f, page, pageSize)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, formatChannels(chs))
	return nil
}

func (s *Session) cmdChannelsGet(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, channelGetKeys...)
	if err != nil {
		return err
	}
	id, err := optInt64(kv, "id")
	if err != nil {
		return err
	}
	name, err := optString(kv, "name")
	if err != nil {
		return err
	}
	c, err := conn.channels.FetchOne(context.Background(), id, name)
	if err != nil {
		return err
	}
	return s.printChannel(c)
}

func (s *Session) cmdChannelsCreate(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, channelCreateKeys...)
	if err != nil {
		return err
	}
	name, err := requireString(kv, "name")
	if err != nil {
		return err
	}
	create := repositories.ChannelCreate{Name: name, ReadPriv: 1, WritePriv: 2}
	if topic, err := optString(kv, "topic"); err != nil {
		return err
	} else if topic != nil {
		create.Topic = *topic
	}
	if v, err := optInt(kv, "read_priv"); err != nil {
		return err
	} else if v != nil {
		create.ReadPriv = *v
	}
	if v, err := optInt(kv, "write_priv"); err != nil {
		return err
	} else if v != nil {
		create.WritePriv = *v
	}
	if v, err := optBool(kv, "auto_join"); err != nil {
		return err
	} else if v != nil {
		create.AutoJoin = *v
	}
	c, err := conn.channels.Create(context.Background(), create)
	if err != nil {
		return err
	}
	return s.printChannel(&c)
}

func (s *Session) cmdChannelsUpdate(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, channelUpdateKeys...)
	if err != nil {
		return err
	}
	name, err := requireString(kv, "name")
	if err != nil {
		return err
	}
	var u repositories.ChannelUpdate
	if u.Topic, err = optString(kv, "topic"); err != nil {
		return err
	}
	if u.ReadPriv, err = optInt(kv, "read_priv"); err != nil {
		return err
	}
	if u.WritePriv, err = optInt(kv, "write_priv"); err != nil {
		return err
	}
	if u.AutoJoin, err = optBool(kv, "auto_join"); err != nil {
		return err
	}
	c, err := conn.channels.Update(context.Background(), name, u)
	if err != nil {
		return err
	}
	return s.printChannel(c)
}

func (s *Session) cmdChannelsDelete(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, channelDeleteKeys...)
	if err != nil {
		return err
	}
	name, err := requireString(kv, "name")
	if err != nil {
		return err
	}
	c, err := conn.channels.Delete(context.Background(), name)
	if err != nil {
		return err
	}
	return s.printChannel(c)
}

func (s *Session) printChannel(c *repositories.Channel) error {
	if c == nil {
		_, _ = fmt.Fprintln(s.out, "  (not found)")
		return nil
	}
	_, _ = fmt.Fprint(s.out, formatChannels([]repositories.Channel{*c}))
	return nil
}

func channelFilter(kv map[string]argValue) (repositories.ChannelFilter, error) {
	var f repositories.ChannelFilter
	var err error
	if f.ReadPriv, err = optInt(kv, "read_priv"); err != nil {
		return f, err
	}
	if f.WritePriv, err = optInt(kv, "write_priv"); err != nil {
		return f, err
	}
	if f.AutoJoin, err = optBool(kv, "auto_join"); err != nil {
		return f, err
	}
	return f, nil
}

func (s *Session) cmdStats(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, statsKeys...)
	if err != nil {
		return err
	}
	var f repositories.StatsFilter
	if f.PlayerID, err = optInt64(kv, "id"); err != nil {
		return err
	}
	if f.Mode, err = optInt(kv, "mode"); err != nil {
		return err
	}
	page, err := optInt(kv, "page")
	if err != nil {
		return err
	}
	pageSize, err := optInt(kv, "page_size")
	if err != nil {
		return err
	}
	stats, err := conn.stats.FetchMany(context.Background(), f, page, pageSize)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, formatStats(stats))
	return nil
}

func (s *Session) cmdLogsUpdate(args string) error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	kv, err := parseArgs(args, logsUpdateKeys...)
	if err != nil {
		return err
	}
	id, err := optInt64(kv, "id")
	if err != nil {
		return err
	}
	if id == nil {
		return errors.New("id is required")
	}
	var u repositories.LogUpdate
	if u.To, err = optInt64(kv, "to"); err != nil {
		return err
	}
	if u.Action, err = optString(kv, "action"); err != nil {
		return err
	}
	if v, ok := kv["msg"]; ok && v.null {
		u.ClearMsg = true
	} else if u.Msg, err = optString(kv, "msg"); err != nil {
		return err
	}
	if u.Time, err = optTime(kv, "time"); err != nil {
		return err
	}
	n, err := conn.logs.Update(context.Background(), *id, u)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %d row(s) updated\n", n)
	return nil
}

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)

	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}

	// Direct DSN provided: connect immediately.
	if dsn != "" {
		return s.connectWithDSN(dsn)
	}

	// Interactive: offer reconnect if we have a previous DSN, otherwise wizard.
	if s.lastDSN != "" {
		choice := prompt(s.rl, fmt.Sprintf("Reconnect to %s? (y/n/setup)", sanitizeDSN(s.lastDSN)), "y")
		switch strings.ToLower(choice) {
		case "y", "yes":
			return s.connectWithDSN(s.lastDSN)
		case "s", "setup":
			return s.connectViaWizard()
		default:
			_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
			return nil
		}
	}

	return s.connectViaWizard()
}

func (s *Session) connectWithDSN(dsn string) error {
	conn, err := connect(s.engine, dsn, s.onBuild)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", sanitizeDSN(dsn), s.engine)
	if missing, err := conn.db.MissingTables(context.Background()); err == nil && len(missing) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Missing tables: %s (run 'schema' to create them)\n", strings.Join(missing, ", "))
	}
	return nil
}

// cmdSchema creates whichever of the channels, logs and stats tables the
// connected database lacks.
func (s *Session) cmdSchema() error {
	conn, err := s.requireConn()
	if err != nil {
		return err
	}
	ctx := context.Background()
	missing, err := conn.db.MissingTables(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		_, _ = fmt.Fprintln(s.out, "  All tables present")
		return nil
	}
	if err := conn.db.CreateSchema(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Created %s\n", strings.Join(missing, ", "))
	return nil
}

func (s *Session) connectViaWizard() error {
	dsn := dsnWizard(s.rl, s.engine)
	if dsn == "" {
		_, _ = fmt.Fprintln(s.out, "  No connection configured")
		return nil
	}

	_, _ = fmt.Fprintf(s.out, "  DSN: %s\n", sanitizeDSN(dsn))
	return s.connectWithDSN(dsn)
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	if err := s.conn.close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

// cmdDot exports the last composed query tree as a Graphviz DOT file.
func (s *Session) cmdDot(args string) error {
	fpath := strings.TrimSpace(args)
	if fpath == "" {
		return fmt.Errorf("usage: dot <filepath>")
	}
	if s.lastTree == nil {
		return errNoTree
	}

	dv := visitors.NewDotVisitor()
	if err := os.WriteFile(fpath, []byte(dv.Graph(s.lastTree...)), 0600); err != nil {
		return fmt.Errorf("failed to write DOT file: %w", err)
	}
	_, _ = fmt.Fprintf(s.out, "  Wrote DOT to %s\n", fpath)
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Channels:
    channels count <filter>             Count channels (at least one filter)
    channels list [filter] [page=N page_size=N]
                                        List channels, paginated when both are given
    channels get id=N | name=<name>     Fetch one channel
    channels create name=<name> [topic='...' read_priv=N write_priv=N auto_join=B]
    channels update name=<name> [topic='...' read_priv=N write_priv=N auto_join=B]
                                        Change only the given fields
    channels delete name=<name>         Delete a channel
      filter keys: read_priv=N write_priv=N auto_join=true|false

  Stats:
    stats [id=N] [mode=N] [page=N page_size=N]

  Logs:
    logs update id=N [to=N action='...' msg='...'|null time='YYYY-MM-DD HH:MM:SS']

  Inspection:
    sql                                 Toggle printing of built SQL and params
    last                                Show the last built query (and driver form)
    dot <path>                          Write the last query tree as Graphviz DOT

  Connection:
    engine <mysql|postgres|sqlite>      Select the SQL dialect
    connect [dsn]                       Connect (prompts when no DSN given)
    schema                              Create missing channels/logs/stats tables
    disconnect                          Close the connection

  General:
    help                                Show this help
    exit / quit                         Leave the REPL`)
}
