package main

import (
	"strings"
)

var engineNames = []string{"mysql", "postgres", "sqlite"}
var channelCommands = []string{"count", "create", "delete", "get", "list", "update"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	candidates, prefix := c.candidates(lineStr)

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		// key= candidates continue straight into the value
		if !strings.HasSuffix(cand, "=") {
			suffix += " "
		}
		newLine = append(newLine, []rune(suffix))
	}
	length = len([]rune(prefix))
	return
}

// candidates examines the line up to the cursor and returns the matching
// completions together with the prefix being typed.
func (c *replCompleter) candidates(line string) ([]string, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			if cmd.completer == nil {
				return nil, ""
			}
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	// Default: command completion.
	prefix := strings.TrimLeft(line, " \t")
	return filterPrefix(c.sess.commandNames(), prefix), prefix
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace-separated token.
func lastToken(s string) string {
	lastSep := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == '\t' {
			lastSep = i
			break
		}
	}
	if lastSep >= 0 {
		return s[lastSep+1:]
	}
	return s
}
