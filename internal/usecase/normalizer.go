package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type FailureKind string

const (
	NoJSONFound    FailureKind = "NoJsonFound"
	MalformedJSON  FailureKind = "MalformedJson"
	SchemaMismatch FailureKind = "SchemaMismatch"
)

// NormalizationError never leaves the usecase layer: callers recover with a fallback.
type NormalizationError struct {
	Kind FailureKind
	Err  error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

func failure(kind FailureKind, format string, args ...any) error {
	return &NormalizationError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// FailureKindOf returns the normalization failure kind of err, or "".
func FailureKindOf(err error) FailureKind {
	var ne *NormalizationError
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return ""
}

// JSONExtractor locates the JSON payload inside free-form provider text.
type JSONExtractor interface {
	Extract(raw string) (string, error)
}

// BraceExtractor slices from the first '{' to the last '}'. It assumes a single
// object and does not look inside string values; a stray '}' in trailing prose
// widens the slice and the parse step fails.
type BraceExtractor struct{}

func (BraceExtractor) Extract(raw string) (string, error) {
	text := StripFences(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", failure(NoJSONFound, "no JSON object in %d bytes of provider output", len(raw))
	}
	return text[start : end+1], nil
}

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```[ \t]*$")
	bareTagLine   = regexp.MustCompile(`(?i)^(json5?|javascript|js|mermaid|text)[ \t]*\r?\n`)
)

// StripFences removes a surrounding ``` fence (with optional language tag) and
// a leading bare language-tag line such as "json".
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = bareTagLine.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	default:
		return "object"
	}
}

// Field is a top-level key the consuming view depends on.
type Field struct {
	Key      string
	Kind     ValueKind
	Optional bool
	NonBlank bool // strings only
}

// Schema describes one StructuredResult shape.
type Schema[T any] struct {
	Name   string
	Fields []Field
	// Ignore lists keys the server owns; provider values for them are discarded.
	Ignore []string
	// Repair runs after decoding and on fallback values: nil sequences become empty, scores are clamped.
	Repair func(*T)
	// Validate runs after Repair for checks that need the decoded value.
	Validate func(*T) error
}

func (s Schema[T]) check(obj map[string]any) error {
	for _, key := range s.Ignore {
		delete(obj, key)
	}
	for _, f := range s.Fields {
		v, ok := obj[f.Key]
		if !ok || v == nil {
			if f.Optional {
				delete(obj, f.Key)
				continue
			}
			return failure(SchemaMismatch, "%s: missing required key %q", s.Name, f.Key)
		}
		if !kindMatches(v, f.Kind) {
			if f.Optional {
				delete(obj, f.Key)
				continue
			}
			return failure(SchemaMismatch, "%s: key %q is not a %s", s.Name, f.Key, f.Kind)
		}
		if f.NonBlank && f.Kind == KindString && strings.TrimSpace(v.(string)) == "" {
			return failure(SchemaMismatch, "%s: key %q is blank", s.Name, f.Key)
		}
	}
	return nil
}

func kindMatches(v any, kind ValueKind) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		_, ok := v.(float64)
		return ok
	case KindArray:
		_, ok := v.([]any)
		return ok
	case KindObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

type Normalizer struct {
	extractor JSONExtractor
}

func NewNormalizer(extractor JSONExtractor) *Normalizer {
	if extractor == nil {
		extractor = BraceExtractor{}
	}
	return &Normalizer{extractor: extractor}
}

// Normalize turns raw provider text into a validated T. It has no hidden state:
// the same input always yields the same value.
func Normalize[T any](n *Normalizer, raw string, schema Schema[T]) (T, error) {
	var out T
	payload, err := n.extractor.Extract(raw)
	if err != nil {
		if FailureKindOf(err) == "" {
			err = &NormalizationError{Kind: NoJSONFound, Err: err}
		}
		return out, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return out, failure(MalformedJSON, "%s: %v", schema.Name, err)
	}
	if err := schema.check(obj); err != nil {
		return out, err
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return out, failure(MalformedJSON, "%s: re-encode: %v", schema.Name, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, failure(SchemaMismatch, "%s: %v", schema.Name, err)
	}
	if schema.Repair != nil {
		schema.Repair(&out)
	}
	if schema.Validate != nil {
		if err := schema.Validate(&out); err != nil {
			var zero T
			return zero, failure(SchemaMismatch, "%s: %v", schema.Name, err)
		}
	}
	return out, nil
}

// Outcome carries either the normalized value or the fallback that replaced it.
type Outcome[T any] struct {
	Value    T
	Fallback bool
	Cause    error
}

// NormalizeOrFallback never fails: any normalization error is answered with fallback().
func NormalizeOrFallback[T any](n *Normalizer, raw string, schema Schema[T], fallback func() T) Outcome[T] {
	v, err := Normalize(n, raw, schema)
	if err == nil {
		return Outcome[T]{Value: v}
	}
	fb := fallback()
	if schema.Repair != nil {
		schema.Repair(&fb)
	}
	return Outcome[T]{Value: fb, Fallback: true, Cause: err}
}

// Conforms reports whether value would survive Normalize unchanged in shape.
func Conforms[T any](value T, schema Schema[T]) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = Normalize(NewNormalizer(nil), string(data), schema)
	return err
}
