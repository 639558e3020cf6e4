// Package checks evaluates declarative check files against documents.
//
// A check file names a document (inline or on disk) and lists checks. Each
// check walks a path of item steps into the document, optionally applies a
// registered function, and asserts equality or an expected error:
//
//	name: service config
//	subject: config.yaml
//	checks:
//	  - path: [server, port]
//	    equals: 8080
//	  - path: [server, hosts]
//	    call: len
//	    equals: 2
//	  - call: int
//	    args: ["abc"]
//	    raises: NumError
//
// Every check runs as one assertion of a run.Run, so lookup errors are
// reported as errored assertions instead of aborting the file.
package checks

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a parsed check file.
type File struct {
	// Name is announced to the reporter as the subject group.
	Name string `yaml:"name"`

	// Subject is the path of the document under test, relative to the check
	// file. Exactly one of Subject and Value is set.
	Subject string `yaml:"subject"`

	// Value is an inline document.
	Value any `yaml:"value"`

	// Label is the root display name in messages. Defaults to the subject
	// base name without extension, or "value" for inline documents.
	Label string `yaml:"label"`

	Checks []Check `yaml:"checks"`

	// Path is the file the checks were loaded from.
	Path string `yaml:"-"`
}

// Check is a single assertion.
type Check struct {
	// Path lists item steps: string keys and integer indexes.
	Path []any `yaml:"path"`

	// Call names a registered function. With a path, the value at the path is
	// passed as the first argument.
	Call string `yaml:"call"`

	Args   []any          `yaml:"args"`
	Kwargs map[string]any `yaml:"kwargs"`

	// Equals is the expected value.
	Equals Expected `yaml:"equals"`

	// Raises is the expected error type name, or "panic".
	Raises string `yaml:"raises"`
}

// Expected records an expectation and whether it was given at all, so that
// `equals: null` differs from a missing key.
//
// yaml.v3 skips UnmarshalYAML for null nodes; LoadFile marks those through
// markNullExpectations.
type Expected struct {
	Value any
	Set   bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Expected) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	e.Value = v
	e.Set = true
	return nil
}

// Validate checks required fields and per-check consistency.
func (f *File) Validate() error {
	var errs []error
	if f.Name == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if (f.Subject == "") == (f.Value == nil) {
		errs = append(errs, fmt.Errorf("exactly one of subject and value is required"))
	}
	if len(f.Checks) == 0 {
		errs = append(errs, fmt.Errorf("checks list is required and must be non-empty"))
	}
	for i, c := range f.Checks {
		if err := c.validate(); err != nil {
			errs = append(errs, fmt.Errorf("checks[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (c Check) validate() error {
	if c.Equals.Set == (c.Raises != "") {
		return fmt.Errorf("exactly one of equals and raises is required")
	}
	if c.Call == "" && (len(c.Args) > 0 || len(c.Kwargs) > 0) {
		return fmt.Errorf("args and kwargs require call")
	}
	for i, step := range c.Path {
		switch normalize(step).(type) {
		case string, int64:
		default:
			return fmt.Errorf("path[%d]: want a string key or an integer index, got %v", i, step)
		}
	}
	return nil
}

// markNullExpectations sets Equals.Set for checks whose equals key is present
// but null, which the strict decode cannot observe.
func markNullExpectations(root *yaml.Node, f *File) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	checks := mappingValue(doc, "checks")
	if checks == nil || checks.Kind != yaml.SequenceNode {
		return
	}
	for i, item := range checks.Content {
		if i >= len(f.Checks) {
			return
		}
		if v := mappingValue(item, "equals"); v != nil && v.ShortTag() == "!!null" {
			f.Checks[i].Equals = Expected{Set: true}
		}
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
