package testutil

import (
	"context"
	"strings"
	"sync"

	"water-features-api/internal/sparql"
)

// StubTransport is a canned replacement for the SPARQL client in tests.
// Responses can be keyed on a query substring; unmatched queries get Default.
type StubTransport struct {
	mu sync.Mutex

	// Default is served when no entry in Responses matches.
	Default sparql.ResultSet

	// Responses maps a query substring to the result set it should produce.
	Responses map[string]sparql.ResultSet

	// Errors maps a query substring to a forced failure.
	Errors map[string]error

	calls []string
}

// Execute implements the service transport boundary.
func (t *StubTransport) Execute(_ context.Context, query string) (sparql.ResultSet, error) {
	t.mu.Lock()
	t.calls = append(t.calls, query)
	t.mu.Unlock()

	for sub, err := range t.Errors {
		if sub != "" && strings.Contains(query, sub) {
			return sparql.ResultSet{}, err
		}
	}
	for sub, rs := range t.Responses {
		if sub != "" && strings.Contains(query, sub) {
			return rs, nil
		}
	}
	return t.Default, nil
}

// CallCount reports how many queries reached the transport.
func (t *StubTransport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Calls returns a copy of the recorded query texts.
func (t *StubTransport) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

// Results builds a result set from bindings, in projection order.
func Results(bindings ...sparql.Binding) sparql.ResultSet {
	var rs sparql.ResultSet
	rs.Results.Bindings = bindings
	return rs
}

// FeatureBinding builds one raw binding the way the endpoint would shape it.
// Pass only the variables the case under test needs.
func FeatureBinding(values map[string]string) sparql.Binding {
	b := make(sparql.Binding, len(values))
	for k, v := range values {
		b[k] = sparql.Value{Type: "literal", Value: v}
	}
	if uri, ok := values["item"]; ok {
		b["item"] = sparql.Value{Type: "uri", Value: uri}
	}
	return b
}
