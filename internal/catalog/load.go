package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed schema.cue
var schemaCUE string

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads a catalog from a YAML file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Levels come back sorted by number.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog against the embedded CUE schema, then enforces
// the cross-entry rules a schema cannot express: levels numbered 1..N without
// gaps, and unique ids.
func Validate(c *Catalog) error {
	if err := validateSchema(c); err != nil {
		return err
	}

	sort.SliceStable(c.Levels, func(i, j int) bool { return c.Levels[i].Number < c.Levels[j].Number })

	var errs []error
	for i, l := range c.Levels {
		if l.Number != i+1 {
			errs = append(errs, fmt.Errorf("catalog: levels must be numbered 1..N without gaps (found %d at position %d)", l.Number, i+1))
			break
		}
		seen := map[string]bool{}
		for _, t := range l.Tasks.All() {
			if seen[t.ID] {
				errs = append(errs, fmt.Errorf("catalog: level %d: duplicate task id %q", l.Number, t.ID))
			}
			seen[t.ID] = true
		}
	}

	plans := map[string]bool{}
	for _, p := range c.ReadingPlans {
		if plans[p.ID] {
			errs = append(errs, fmt.Errorf("catalog: duplicate reading plan %q", p.ID))
		}
		plans[p.ID] = true
	}

	achievements := map[string]bool{}
	for _, a := range c.Achievements {
		if achievements[a.ID] {
			errs = append(errs, fmt.Errorf("catalog: duplicate achievement %q", a.ID))
		}
		achievements[a.ID] = true
		if (a.StatID == "") != (a.Threshold <= 0) {
			errs = append(errs, fmt.Errorf("catalog: achievement %q needs both statId and a positive threshold", a.ID))
		}
	}

	days := map[int]bool{}
	for _, w := range c.Workouts {
		if days[w.Weekday] {
			errs = append(errs, fmt.Errorf("catalog: duplicate workout for weekday %d", w.Weekday))
		}
		days[w.Weekday] = true
	}

	return errors.Join(errs...)
}

func validateSchema(c *Catalog) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Catalog"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	return nil
}
