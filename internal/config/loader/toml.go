// Package loader reads a driftwm configuration file and applies it
// through property validation. Every leaf in the file passes through the
// same validate-then-write path scripts use, so an on-disk config can
// never put the tree into a state a script could not have produced.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/driftwm/driftwm/internal/config"
)

// Loader applies TOML configuration files to a config state.
type Loader struct {
	log *zap.Logger
}

// New creates a Loader. A nil logger is replaced with a no-op logger.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Load reads path and applies it to st. A missing file is not an error:
// the defaults stand. Unknown keys are logged and returned as warnings;
// the first invalid value aborts the load with the full dotted path in
// the error.
func (l *Loader) Load(st *config.State, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.apply(st, path, data)
}

// LoadFrom reads TOML from r and applies it to st.
func (l *Loader) LoadFrom(st *config.State, r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return l.apply(st, "<reader>", data)
}

func (l *Loader) apply(st *config.State, source string, data []byte) ([]string, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	var warnings []string
	err := l.applyTree(st, "", tree, &warnings)
	for _, w := range warnings {
		l.log.Warn("unknown config key ignored",
			zap.String("file", source),
			zap.String("path", w))
	}
	return warnings, err
}

// applyTree walks the parsed document, descending into tables only while
// the joined path is a registered branch. Everything else is either a
// leaf write or an unknown key.
func (l *Loader) applyTree(st *config.State, prefix string, tree map[string]any, warnings *[]string) error {
	reg := st.Registry()
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok && reg.IsBranch(path) && !reg.Has(path) {
			if err := l.applyTree(st, path, sub, warnings); err != nil {
				return err
			}
			continue
		}
		if !reg.Has(path) {
			*warnings = append(*warnings, path)
			continue
		}
		if err := st.Set(path, value); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
	}
	return nil
}

// ParseError reports a TOML syntax failure.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
