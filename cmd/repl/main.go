// REPL binary for running the server's repository queries interactively
// and inspecting the SQL they compose.
//
// Configuration (env vars):
//
//	CONDSQL_ENGINE=mysql|postgres|sqlite  (optional, inferred from DATABASE_URL or prompted)
//	DATABASE_URL=<dsn>                     (optional, auto-connects if set)
//
// Usage:
//
//	go run ./cmd/repl
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ergochat/readline"

	"github.com/osuserver/condsql/repositories"
)

func main() {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "[Config] ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	cfg, err := configFromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	engine := cfg.engine
	if engine == "" {
		engine = chooseEngine(rl)
	}
	fmt.Printf("[Config] Engine: %s\n", engine)

	sess := NewSession(engine, rl)
	_ = rl.SetConfig(&readline.Config{
		Prompt:          "condsql> ",
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if cfg.dsn != "" {
		fmt.Printf("[Config] Connecting via DATABASE_URL...\n")
		if err := sess.connectWithDSN(cfg.dsn); err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: DATABASE_URL: %v\n", err)
		} else {
			offerSchema(rl, sess)
		}
	} else {
		loadConnection(rl, sess)
	}

	fmt.Println()
	fmt.Println("condsql REPL: type 'help' for commands, 'exit' to quit")
	fmt.Println()

	rl.SetPrompt("condsql> ")
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// io.EOF or a closed terminal
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	if sess.conn != nil {
		_ = sess.conn.close()
	}
	fmt.Println()
}

// replConfig is the start-up configuration read from the environment.
type replConfig struct {
	engine string // empty when neither set nor inferable
	dsn    string
}

// configFromEnv reads CONDSQL_ENGINE and DATABASE_URL. When only a DSN is
// given the engine is inferred from its shape. An invalid engine name is
// reported and left empty so the caller can ask for one.
func configFromEnv(getenv func(string) string) (replConfig, error) {
	cfg := replConfig{
		engine: strings.ToLower(strings.TrimSpace(getenv("CONDSQL_ENGINE"))),
		dsn:    strings.TrimSpace(getenv("DATABASE_URL")),
	}
	var err error
	if cfg.engine != "" && !isValidEngine(cfg.engine) {
		err = fmt.Errorf("invalid CONDSQL_ENGINE=%q (choose: %s)", cfg.engine, strings.Join(repositories.Engines, ", "))
		cfg.engine = ""
	}
	if cfg.engine == "" && cfg.dsn != "" {
		cfg.engine = engineForDSN(cfg.dsn)
	}
	return cfg, err
}

// engineForDSN guesses the engine a DSN is written for, or returns "".
func engineForDSN(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.Contains(lower, "@tcp("), strings.Contains(lower, "@unix("):
		return "mysql"
	case lower == ":memory:", strings.HasPrefix(lower, "file:"),
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	}
	return ""
}

// chooseEngine asks for the dialect, falling back to mysql.
func chooseEngine(rl *readline.Instance) string {
	choice := strings.ToLower(prompt(rl, "Select engine ("+strings.Join(repositories.Engines, ", ")+")", "mysql"))
	if !isValidEngine(choice) {
		fmt.Fprintf(os.Stderr, "Warning: unknown engine %q, defaulting to mysql\n", choice)
		return "mysql"
	}
	return choice
}

func loadConnection(rl *readline.Instance, sess *Session) {
	if !confirm(rl, "Connect to a database?") {
		fmt.Println("[Config] Skipped, use 'connect <dsn>' later to connect")
		return
	}

	dsn := dsnWizard(rl, sess.engine)
	if dsn == "" {
		fmt.Println("[Config] No connection configured, use 'connect <dsn>' later")
		return
	}

	fmt.Printf("[Config] DSN: %s\n", sanitizeDSN(dsn))
	if err := sess.connectWithDSN(dsn); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
		fmt.Println("[Config] Use 'connect <dsn>' later to retry")
		return
	}
	offerSchema(rl, sess)
}

// offerSchema asks to create the channels, logs and stats tables when the
// new connection lacks any of them.
func offerSchema(rl *readline.Instance, sess *Session) {
	missing, err := sess.conn.db.MissingTables(context.Background())
	if err != nil || len(missing) == 0 {
		return
	}
	if !confirm(rl, "Create missing tables ("+strings.Join(missing, ", ")+")?") {
		return
	}
	if err := sess.Execute("schema"); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v\n", err)
	}
}

func isValidEngine(engine string) bool {
	return slices.Contains(repositories.Engines, engine)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".condsql_history")
}
