package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// tokenize splits a command line into words, '=' signs and single-quoted
// strings. A doubled quote inside a quoted string is an escaped quote.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ch == '=':
			flush()
			tokens = append(tokens, "=")
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// argValue is the right-hand side of a key=value argument.
type argValue struct {
	raw  string
	null bool
}

// parseArgs parses "key=value key='quoted value' key=null" into a map.
// allowed lists the accepted keys.
func parseArgs(input string, allowed ...string) (map[string]argValue, error) {
	tokens := tokenize(input)
	args := make(map[string]argValue)
	for i := 0; i < len(tokens); i += 3 {
		if i+2 >= len(tokens) || tokens[i+1] != "=" {
			return nil, fmt.Errorf("expected key=value, got %q", strings.Join(tokens[i:], " "))
		}
		key := strings.ToLower(tokens[i])
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("unknown key %q (expected one of: %s)", key, strings.Join(allowed, ", "))
		}
		if _, dup := args[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		args[key] = parseArgValue(tokens[i+2])
	}
	return args, nil
}

func parseArgValue(token string) argValue {
	if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
		return argValue{raw: strings.ReplaceAll(token[1:len(token)-1], "''", "'")}
	}
	if strings.EqualFold(token, "null") {
		return argValue{null: true}
	}
	return argValue{raw: token}
}

// The opt* helpers return nil for a missing key, so the clause it feeds
// drops out of the built query.

func optString(args map[string]argValue, key string) (*string, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	if v.null {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	return &v.raw, nil
}

func optInt(args map[string]argValue, key string) (*int, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	if v.null {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	n, err := strconv.Atoi(v.raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid integer %q", key, v.raw)
	}
	return &n, nil
}

func optInt64(args map[string]argValue, key string) (*int64, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	if v.null {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	n, err := strconv.ParseInt(v.raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid integer %q", key, v.raw)
	}
	return &n, nil
}

func optBool(args map[string]argValue, key string) (*bool, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	if v.null {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	b, err := strconv.ParseBool(v.raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid boolean %q", key, v.raw)
	}
	return &b, nil
}

func optTime(args map[string]argValue, key string) (*time.Time, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	if v.null {
		return nil, fmt.Errorf("%s cannot be null", key)
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, v.raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: invalid time %q (use RFC3339 or 'YYYY-MM-DD HH:MM:SS')", key, v.raw)
}

// requireString returns the value of a mandatory key.
func requireString(args map[string]argValue, key string) (string, error) {
	v, err := optString(args, key)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("%s is required", key)
	}
	return *v, nil
}
