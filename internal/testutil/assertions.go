package testutil

import (
	"errors"
	"reflect"
	"testing"

	"github.com/osuserver/condsql/nodes"
)

// AssertEqual checks that got == want and reports a descriptive error if not.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("expected:\n  %v\ngot:\n  %v", want, got)
	}
}

// AssertQuery compares a built fragment's SQL and parameters.
func AssertQuery(t *testing.T, got nodes.Fragment, sql string, params map[string]any) {
	t.Helper()
	if got.SQL != sql {
		t.Errorf("expected:\n  %s\ngot:\n  %s", sql, got.SQL)
	}
	if params == nil {
		params = map[string]any{}
	}
	if got.Params == nil {
		t.Errorf("expected non-nil params map")
	}
	if !reflect.DeepEqual(normalize(got.Params), params) {
		t.Errorf("expected params:\n  %v\ngot:\n  %v", params, got.Params)
	}
}

func normalize(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// AssertSQL accepts a visitor and node, evaluates the node, and compares the
// rendered SQL with the expected string.
func AssertSQL(t *testing.T, v nodes.Visitor, node nodes.Node, expected string) {
	t.Helper()
	got, ok := node.Accept(v)
	if !ok {
		t.Fatalf("expected %q, got an absent node", expected)
	}
	if got.SQL != expected {
		t.Errorf("expected:\n  %s\ngot:\n  %s", expected, got.SQL)
	}
}

// AssertAbsent fails the test unless node evaluates to no contribution.
func AssertAbsent(t *testing.T, v nodes.Visitor, node nodes.Node) {
	t.Helper()
	if got, ok := node.Accept(v); ok {
		t.Errorf("expected absent node, got %q %v", got.SQL, got.Params)
	}
}

// AssertUsageFault fails the test unless fn panics with a *nodes.UsageError.
func AssertUsageFault(t *testing.T, fn func()) *nodes.UsageError {
	t.Helper()
	var fault *nodes.UsageError
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok || !errors.As(err, &fault) {
				t.Fatalf("expected *nodes.UsageError panic, got %T: %v", r, r)
			}
		}()
		fn()
	}()
	if fault == nil {
		t.Fatal("expected a usage fault but nothing panicked")
	}
	return fault
}

// AssertNoError fails the test if err is non-nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error but got nil")
	}
}
