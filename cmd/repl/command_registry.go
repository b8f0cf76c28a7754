package main

import (
	"fmt"
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (candidates []string, prefix string) // nil = no arg completion
	hidden    bool                                                  // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- display commands ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "last", handler: func(_ string) error { return s.cmdLast() }},
		{prefix: "dot ", handler: func(a string) error { return s.cmdDot(a) }},
		{prefix: "dot", handler: func(_ string) error { return fmt.Errorf("usage: dot <filepath>") }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- channels ---
		{prefix: "channels count ", handler: func(a string) error { return s.cmdChannelsCount(a) }, completer: completeKeys(channelFilterKeys[:3])},
		{prefix: "channels count", handler: func(_ string) error { return s.cmdChannelsCount("") }},
		{prefix: "channels list ", handler: func(a string) error { return s.cmdChannelsList(a) }, completer: completeKeys(channelFilterKeys)},
		{prefix: "channels list", handler: func(_ string) error { return s.cmdChannelsList("") }},
		{prefix: "channels get ", handler: func(a string) error { return s.cmdChannelsGet(a) }, completer: completeKeys(channelGetKeys)},
		{prefix: "channels create ", handler: func(a string) error { return s.cmdChannelsCreate(a) }, completer: completeKeys(channelCreateKeys)},
		{prefix: "channels update ", handler: func(a string) error { return s.cmdChannelsUpdate(a) }, completer: completeKeys(channelUpdateKeys)},
		{prefix: "channels delete ", handler: func(a string) error { return s.cmdChannelsDelete(a) }, completer: completeKeys(channelDeleteKeys)},
		{prefix: "channels ", handler: func(a string) error { return fmt.Errorf("unknown channels command %q", strings.TrimSpace(a)) }, completer: completeChannelArgs},
		{prefix: "channels", handler: func(_ string) error { return s.cmdChannelsList("") }},

		// --- stats / logs ---
		{prefix: "stats ", handler: func(a string) error { return s.cmdStats(a) }, completer: completeKeys(statsKeys)},
		{prefix: "stats", handler: func(_ string) error { return s.cmdStats("") }},
		{prefix: "logs update ", handler: func(a string) error { return s.cmdLogsUpdate(a) }, completer: completeKeys(logsUpdateKeys)},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "schema", handler: func(_ string) error { return s.cmdSchema() }},

		// --- engine ---
		{prefix: "set_engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs, hidden: true},
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeEngineArgs handles completion for engine/set_engine commands.
func completeEngineArgs(args string) ([]string, string) {
	prefix := strings.TrimSpace(args)
	return filterPrefix(engineNames, prefix), prefix
}

// completeChannelArgs completes the channels sub-command.
func completeChannelArgs(args string) ([]string, string) {
	prefix := strings.TrimSpace(args)
	if strings.Contains(prefix, " ") {
		return nil, ""
	}
	return filterPrefix(channelCommands, prefix), prefix
}

// completeKeys returns a completer offering "key=" for the keys a command
// accepts. Nothing is offered while a value is being typed.
func completeKeys(keys []string) func(string) ([]string, string) {
	return func(args string) ([]string, string) {
		last := lastToken(args)
		if strings.Contains(last, "=") {
			return nil, ""
		}
		var out []string
		for _, k := range filterPrefix(keys, last) {
			out = append(out, k+"=")
		}
		return out, last
	}
}
