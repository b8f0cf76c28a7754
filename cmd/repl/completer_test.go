package main

import (
	"slices"
	"testing"
)

func newTestCompleter() *replCompleter {
	return &replCompleter{sess: NewSession("postgres", nil)}
}

// --- Command completion ---

func TestCompleteCommandsEmpty(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, prefix := c.candidates("")
	names := c.sess.commandNames()
	if len(candidates) != len(names) {
		t.Errorf("expected %d commands, got %d", len(names), len(candidates))
	}
	if prefix != "" {
		t.Errorf("expected empty prefix, got %q", prefix)
	}
}

func TestCompleteCommandsPrefix(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, _ := c.candidates("st")
	if len(candidates) != 1 || candidates[0] != "stats" {
		t.Errorf("expected [stats], got %v", candidates)
	}
}

func TestCompleteCommandsMultiMatch(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, _ := c.candidates("d")
	for _, want := range []string{"disconnect", "dot"} {
		if !slices.Contains(candidates, want) {
			t.Errorf("expected %q in candidates: %v", want, candidates)
		}
	}
}

func TestCommandNamesHidesAliases(t *testing.T) {
	t.Parallel()
	names := newTestCompleter().sess.commandNames()
	if slices.Contains(names, "set_engine") {
		t.Error("set_engine should be hidden")
	}
	for _, want := range []string{"exit", "quit", "help", "logs update"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %q in command names: %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("expected sorted names: %v", names)
	}
}

// --- Argument completion ---

func TestCompleteEngine(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, prefix := c.candidates("engine po")
	if len(candidates) != 1 || candidates[0] != "postgres" {
		t.Errorf("expected [postgres], got %v", candidates)
	}
	if prefix != "po" {
		t.Errorf("expected prefix %q, got %q", "po", prefix)
	}

	candidates, _ = c.candidates("set_engine ")
	if len(candidates) != len(engineNames) {
		t.Errorf("expected all engines, got %v", candidates)
	}
}

func TestCompleteChannelSubcommands(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, _ := c.candidates("channels c")
	if !slices.Equal(candidates, []string{"count", "create"}) {
		t.Errorf("expected [count create], got %v", candidates)
	}
	candidates, _ = c.candidates("channels ")
	if !slices.Equal(candidates, channelCommands) {
		t.Errorf("expected all channel commands, got %v", candidates)
	}
}

func TestCompleteKeys(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	tests := []struct {
		line   string
		want   []string
		prefix string
	}{
		{"channels list read", []string{"read_priv="}, "read"},
		{"channels list read_priv=1 au", []string{"auto_join="}, "au"},
		{"channels list page", []string{"page=", "page_size="}, "page"},
		{"channels count p", nil, "p"},
		{"channels get ", []string{"id=", "name="}, ""},
		{"stats m", []string{"mode="}, "m"},
		{"logs update t", []string{"to=", "time="}, "t"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			candidates, prefix := c.candidates(tt.line)
			if !slices.Equal(candidates, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, candidates)
			}
			if prefix != tt.prefix {
				t.Errorf("expected prefix %q, got %q", tt.prefix, prefix)
			}
		})
	}
}

func TestCompleteValueOffersNothing(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, _ := c.candidates("channels list read_priv=")
	if len(candidates) != 0 {
		t.Errorf("expected no candidates while typing a value, got %v", candidates)
	}
}

func TestCompleteNoArgCommands(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()
	candidates, _ := c.candidates("connect ")
	if len(candidates) != 0 {
		t.Errorf("expected no candidates for connect, got %v", candidates)
	}
}

// --- readline integration ---

func TestDoSuffixes(t *testing.T) {
	t.Parallel()
	c := newTestCompleter()

	line := []rune("engine po")
	newLine, length := c.Do(line, len(line))
	if length != 2 {
		t.Errorf("expected length 2, got %d", length)
	}
	if len(newLine) != 1 || string(newLine[0]) != "stgres " {
		t.Errorf("expected [\"stgres \"], got %q", newLine)
	}

	line = []rune("channels list page")
	newLine, length = c.Do(line, len(line))
	if length != 4 {
		t.Errorf("expected length 4, got %d", length)
	}
	var got []string
	for _, r := range newLine {
		got = append(got, string(r))
	}
	if !slices.Equal(got, []string{"=", "_size="}) {
		t.Errorf("expected key suffixes without trailing space, got %q", got)
	}
}

func TestFilterPrefix(t *testing.T) {
	t.Parallel()
	got := filterPrefix([]string{"Count", "create", "list"}, "c")
	if !slices.Equal(got, []string{"Count", "create"}) {
		t.Errorf("expected case-insensitive match, got %v", got)
	}
	if got := filterPrefix(engineNames, ""); !slices.Equal(got, engineNames) {
		t.Errorf("expected copy of all items, got %v", got)
	}
}

func TestLastToken(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"":                "",
		"read":            "read",
		"a=1 b":           "b",
		"a=1 ":            "",
		"a=1\tread_priv=": "read_priv=",
	}
	for in, want := range tests {
		if got := lastToken(in); got != want {
			t.Errorf("lastToken(%q) = %q, want %q", in, got, want)
		}
	}
}
