// Package validator checks reaction messages and reports field-path
// prefixed errors and informational warnings.
package validator

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// ErrUnknownType is returned for a type name with no rule set.
var ErrUnknownType = errors.New("unknown message type")

type ruleSet struct {
	decode func([]byte) (any, error)
	rules  func(any) error
	warn   func(any) []string
}

var registry = map[string]ruleSet{}

func register[T any](name string, rules func(*T) error, warn func(*T) []string) {
	registry[name] = ruleSet{
		decode: func(data []byte) (any, error) {
			v := new(T)
			if err := codec.Unmarshal(data, v); err != nil {
				return nil, err
			}
			return v, nil
		},
		rules: func(v any) error { return rules(v.(*T)) },
		warn: func(v any) []string {
			if warn == nil {
				return nil
			}
			return warn(v.(*T))
		},
	}
}

// Types returns the registered type names in sorted order.
func Types() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Validate decodes body as typeName and runs its rule set.
func Validate(typeName string, body []byte) (*models.Diagnostics, error) {
	rs, ok := registry[typeName]
	if !ok {
		return nil, fmt.Errorf("validator: %w: %q: %w", apperr.ErrInvalidInput, typeName, ErrUnknownType)
	}
	v, err := rs.decode(body)
	if err != nil {
		return nil, fmt.Errorf("validator: decode %s: %w", typeName, err)
	}
	return check(rs, v), nil
}

// Message validates an already decoded message of the named type.
func Message(typeName string, v any) (*models.Diagnostics, error) {
	rs, ok := registry[typeName]
	if !ok {
		return nil, fmt.Errorf("validator: %w: %q: %w", apperr.ErrInvalidInput, typeName, ErrUnknownType)
	}
	return check(rs, v), nil
}

func check(rs ruleSet, v any) *models.Diagnostics {
	d := &models.Diagnostics{Errors: []string{}, Warnings: []string{}}
	if err := rs.rules(v); err != nil {
		d.Errors = flatten("", err)
		sort.Strings(d.Errors)
	}
	if w := rs.warn(v); len(w) > 0 {
		d.Warnings = w
	}
	return d
}

// flatten turns nested validation.Errors into "a.b.c: message" lines.
func flatten(prefix string, err error) []string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		if prefix == "" {
			return []string{err.Error()}
		}
		return []string{prefix + ": " + err.Error()}
	}
	var out []string
	for key, e := range verrs {
		if e == nil {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		out = append(out, flatten(path, e)...)
	}
	return out
}

// nested applies fn to a non-nil message pointer.
func nested[T any](fn func(*T) error) validation.Rule {
	return validation.By(func(v any) error {
		p, _ := v.(*T)
		if p == nil {
			return nil
		}
		return fn(p)
	})
}

// each applies fn to every element of a repeated field, keyed by index.
func each[T any](fn func(*T) error) validation.Rule {
	return validation.By(func(v any) error {
		items, _ := v.([]*T)
		errs := validation.Errors{}
		for i, item := range items {
			if item == nil {
				continue
			}
			if err := fn(item); err != nil {
				errs[fmt.Sprint(i)] = err
			}
		}
		return errs.Filter()
	})
}

// eachValue applies fn to every value of a map field, keyed by map key.
func eachValue[T any](fn func(*T) error) validation.Rule {
	return validation.By(func(v any) error {
		items, _ := v.(map[string]*T)
		errs := validation.Errors{}
		for k, item := range items {
			if item == nil {
				continue
			}
			if err := fn(item); err != nil {
				errs[k] = err
			}
		}
		return errs.Filter()
	})
}

// nonEmptyKeys rejects blank map keys.
var nonEmptyKeys = validation.By(func(v any) error {
	switch m := v.(type) {
	case map[string]*models.ReactionInput:
		if _, ok := m[""]; ok {
			return errors.New("names must not be blank")
		}
	case map[string]*models.Analysis:
		if _, ok := m[""]; ok {
			return errors.New("names must not be blank")
		}
	}
	return nil
})

// merge combines two error trees, descending where both carry the same key.
func merge(a, b validation.Errors) validation.Errors {
	out := validation.Errors{}
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		prev, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}
		pe, ok1 := prev.(validation.Errors)
		ve, ok2 := v.(validation.Errors)
		if ok1 && ok2 {
			out[k] = merge(pe, ve)
		}
	}
	return out
}

func prefixed(prefix string, lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = prefix + ": " + l
	}
	return out
}
