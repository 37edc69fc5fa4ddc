package dispatch

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Bundled fixture names.
const (
	FixtureAirlogs = "table1"
	FixtureUsers   = "table2"
)

type fixtureFile struct {
	Columns []Row `json:"columns"`
}

var (
	fixturesOnce sync.Once
	fixtures     map[string][]Row
	fixturesErr  error
)

// Fixtures returns every bundled dataset keyed by name. The files are decoded once.
func Fixtures() (map[string][]Row, error) {
	fixturesOnce.Do(func() {
		fixtures, fixturesErr = loadFixtures()
	})
	return fixtures, fixturesErr
}

func loadFixtures() (map[string][]Row, error) {
	entries, err := fixtureFS.ReadDir("fixtures")
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Row, len(entries))
	for _, e := range entries {
		data, err := fixtureFS.ReadFile("fixtures/" + e.Name())
		if err != nil {
			return nil, err
		}
		var f fixtureFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", e.Name(), err)
		}
		name := e.Name()[:len(e.Name())-len(".json")]
		out[name] = f.Columns
	}
	return out, nil
}

// FixtureNames lists the bundled datasets in name order.
func FixtureNames() []string {
	all, err := Fixtures()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
