// Package dispatch simulates query execution. A run never evaluates SQL: it looks up the
// active tab id in a fixed routing table and returns a bundled fixture, a canned error,
// or nothing.
package dispatch

import "fmt"

// NotFoundMessage is the canned error returned for the not-found tab.
const NotFoundMessage = "Query failed: Table not found."

type route struct {
	fixture string
	errMsg  string
}

// defaultRoutes maps the well-known tab ids to their outcome.
var defaultRoutes = map[string]route{
	"tab-2": {fixture: FixtureAirlogs},
	"tab-3": {fixture: FixtureAirlogs},
	"tab-4": {fixture: FixtureUsers},
	"tab-5": {errMsg: NotFoundMessage},
}

// Dispatcher is the mock query engine.
type Dispatcher struct {
	routes   map[string]route
	fixtures map[string][]Row
	fallback string
	sampler  Sampler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFallback makes unknown tab ids return the named fixture instead of None.
// An empty name keeps the None behaviour.
func WithFallback(fixture string) Option {
	return func(d *Dispatcher) {
		d.fallback = fixture
	}
}

// WithSampler trims every fixture result to the size chosen by s.
func WithSampler(s Sampler) Option {
	return func(d *Dispatcher) {
		d.sampler = s
	}
}

// New returns a dispatcher over the bundled fixtures.
func New(opts ...Option) (*Dispatcher, error) {
	all, err := Fixtures()
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	d := &Dispatcher{
		routes:   defaultRoutes,
		fixtures: all,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.fallback != "" {
		if _, ok := d.fixtures[d.fallback]; !ok {
			return nil, fmt.Errorf("unknown fallback fixture %q", d.fallback)
		}
	}
	return d, nil
}

// Run returns the result for tabID.
func (d *Dispatcher) Run(tabID string) Result {
	r, ok := d.routes[tabID]
	switch {
	case ok && r.errMsg != "":
		return ErrorResult(r.errMsg)
	case ok:
		return d.rows(r.fixture)
	case d.fallback != "":
		return d.rows(d.fallback)
	default:
		return None()
	}
}

// Known reports whether tabID has a dedicated route.
func (d *Dispatcher) Known(tabID string) bool {
	_, ok := d.routes[tabID]
	return ok
}

func (d *Dispatcher) rows(fixture string) Result {
	rows := d.fixtures[fixture]
	n := len(rows)
	if d.sampler != nil {
		n = max(0, min(d.sampler.Size(len(rows)), len(rows)))
	}
	out := make([]Row, n)
	copy(out, rows[:n])
	return RowsResult(out)
}
