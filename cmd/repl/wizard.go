package main

import (
	"fmt"
	"net"
	"net/url"
	"os/user"
	"strings"

	"github.com/ergochat/readline"
	"github.com/go-sql-driver/mysql"
)

// wizardField is one prompt of a connection wizard.
type wizardField struct {
	key      string
	label    string
	def      string
	required bool
}

// engineWizard describes how to ask for and assemble an engine's DSN.
type engineWizard struct {
	title  string
	fields []wizardField
	dsn    func(v map[string]string) string
}

var engineWizards = map[string]engineWizard{
	"mysql": {
		title: "MySQL",
		fields: []wizardField{
			{key: "user", label: "User", def: "root"},
			{key: "pass", label: "Password"},
			{key: "host", label: "Host", def: "localhost"},
			{key: "port", label: "Port", def: "3306"},
			{key: "db", label: "Database", required: true},
		},
		dsn: func(v map[string]string) string {
			cfg := mysql.NewConfig()
			cfg.User = v["user"]
			cfg.Passwd = v["pass"]
			cfg.Net = "tcp"
			cfg.Addr = net.JoinHostPort(v["host"], v["port"])
			cfg.DBName = v["db"]
			cfg.ParseTime = true
			return cfg.FormatDSN()
		},
	},
	"postgres": {
		title: "PostgreSQL",
		fields: []wizardField{
			{key: "user", label: "User", def: currentUser()},
			{key: "pass", label: "Password"},
			{key: "host", label: "Host", def: "localhost"},
			{key: "port", label: "Port", def: "5432"},
			{key: "db", label: "Database", def: currentUser()},
			{key: "sslmode", label: "SSL mode (disable/require/verify-full)", def: "disable"},
		},
		dsn: func(v map[string]string) string {
			userInfo := url.User(v["user"])
			if v["pass"] != "" {
				userInfo = url.UserPassword(v["user"], v["pass"])
			}
			u := &url.URL{
				Scheme:   "postgres",
				User:     userInfo,
				Host:     net.JoinHostPort(v["host"], v["port"]),
				Path:     "/" + v["db"],
				RawQuery: url.Values{"sslmode": {v["sslmode"]}}.Encode(),
			}
			return u.String()
		},
	},
	"sqlite": {
		title: "SQLite",
		fields: []wizardField{
			{key: "path", label: "Database path", def: "condsql.db", required: true},
		},
		dsn: func(v map[string]string) string { return v["path"] },
	},
}

// dsnWizard prompts for the fields of engine's DSN and assembles it. It
// returns "" when a required field is left empty.
func dsnWizard(rl *readline.Instance, engine string) string {
	w, ok := engineWizards[engine]
	if !ok {
		w = engineWizards["mysql"]
	}
	fmt.Printf("[Config] %s connection setup:\n", w.title)
	values := make(map[string]string, len(w.fields))
	for _, f := range w.fields {
		v := prompt(rl, f.label, f.def)
		if f.required && v == "" {
			return ""
		}
		values[f.key] = v
	}
	return w.dsn(values)
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "postgres"
}

// prompt prints a label with an optional default and returns the user's input
// (or the default if they press enter).
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s: ", label))
	}
	defer rl.SetPrompt("condsql> ")
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	val := strings.TrimSpace(line)
	if val == "" {
		return defaultVal
	}
	return val
}

// confirm asks a yes/no question that defaults to no.
func confirm(rl *readline.Instance, question string) bool {
	switch strings.ToLower(prompt(rl, question+" (y/N)", "")) {
	case "y", "yes":
		return true
	}
	return false
}
