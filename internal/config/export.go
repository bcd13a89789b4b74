package config

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ExportJSON renders every registered leaf into one nested JSON document.
// Branch structure follows the dotted paths, so "layout.struts.left"
// becomes {"layout":{"struts":{"left":...}}}.
func (s *State) ExportJSON() (string, error) {
	doc := "{}"
	var err error
	for _, prop := range s.reg.All() {
		var v any
		s.cfg.With(func(c *Config) {
			v = prop.Get(c)
		})
		doc, err = sjson.Set(doc, prop.Path, v)
		if err != nil {
			return "", fmt.Errorf("config: export %s: %w", prop.Path, err)
		}
	}
	return doc, nil
}

// ImportJSON applies a JSON document produced by ExportJSON (or any
// compatible subset) back through property validation. Leaves absent from
// the document keep their current value; keys that match no registered
// path are returned as warnings. The first invalid value aborts the
// import with the full path in the error.
func (s *State) ImportJSON(doc string) ([]string, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("config: import: invalid JSON document")
	}
	var warnings []string
	var importErr error
	walkJSON("", gjson.Parse(doc), func(path string, value gjson.Result) bool {
		if !s.reg.Has(path) {
			warnings = append(warnings, path)
			return true
		}
		if err := s.Set(path, value.Value()); err != nil {
			importErr = err
			return false
		}
		return true
	}, func(path string) bool {
		return s.reg.IsBranch(path)
	})
	return warnings, importErr
}

// walkJSON descends the document, recursing into objects only while the
// joined path is a registered branch; anything else is handed to visit as
// a leaf value. Returning false from visit stops the walk.
func walkJSON(prefix string, node gjson.Result, visit func(string, gjson.Result) bool, isBranch func(string) bool) bool {
	cont := true
	node.ForEach(func(key, value gjson.Result) bool {
		path := key.String()
		if prefix != "" {
			path = prefix + "." + path
		}
		if value.IsObject() && isBranch(path) {
			cont = walkJSON(path, value, visit, isBranch)
			return cont
		}
		cont = visit(path, value)
		return cont
	})
	return cont
}
