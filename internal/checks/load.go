package checks

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// checkSuffix marks check files inside directories, before the format extension.
const checkSuffix = ".check"

// LoadError reports a check file or document that could not be loaded.
type LoadError struct {
	Path string
	Pos  token.Pos // CUE position if available
	Err  error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %v", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadFile reads, strictly decodes and validates a check file.
// Unknown fields are rejected to catch typos like "equal:" vs "equals:".
func LoadFile(path string) (*File, error) {
	data, err := readStructured(path)
	if err != nil {
		return nil, err
	}

	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to parse check file: %w", err)}
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err == nil {
		markNullExpectations(&root, &f)
	}
	if err := f.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("invalid check file: %w", err)}
	}

	f.Path = path
	f.Value = normalize(f.Value)
	return &f, nil
}

// LoadDocument reads a YAML, JSON or CUE document with numbers normalised.
func LoadDocument(path string) (any, error) {
	data, err := readStructured(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to parse document: %w", err)}
	}
	return normalize(doc), nil
}

// readStructured returns the file contents as YAML. CUE files are evaluated
// and exported as JSON, which YAML decoders accept.
func readStructured(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return data, nil
	case ".cue":
		return exportCUE(path, data)
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported file type %q", ext)}
	}
}

func exportCUE(path string, data []byte) ([]byte, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(path, err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(path, err)
	}

	out, err := value.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(path, err)
	}
	return out, nil
}

func cueLoadError(path string, err error) *LoadError {
	le := &LoadError{Path: path, Err: err}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// IsCheckFile reports whether a file found in a directory is a check file:
// name.check.yaml, name.check.yml, name.check.json or name.check.cue.
func IsCheckFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json", ".cue":
	default:
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), checkSuffix)
}

// Find expands paths into check files. Files are taken as given; directories
// are walked for check files. filter, when set, is a glob matched against
// base names. The result is sorted and free of duplicates.
func Find(paths []string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if filter != "" {
			if ok, _ := filepath.Match(filter, filepath.Base(path)); !ok {
				return
			}
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsCheckFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error scanning directory: %w", err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
