// Package validate is the single gate between untrusted generated text and
// the rest of the system. No text reaches the cache or a caller without
// passing through it.
//
// Validation is a two-stage pipeline: parse the raw text as JSON, then check
// the shape and required fields. A successful parse never implies a valid
// shape; each stage fails independently and failures are terminal.
package validate

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Shape describes what a generated response must look like.
type Shape struct {
	Platform string   // stamped onto every record on success
	Count    int      // 0 for a single record, N for an array of exactly N
	Required []string // fields that must be present and non-empty per record
}

// Stage names the pipeline step that rejected the text.
type Stage string

const (
	StageParse  Stage = "parse"
	StageShape  Stage = "shape"
	StageFields Stage = "fields"
)

// Failure describes a rejected response.
type Failure struct {
	Stage   Stage
	Index   int    // element position, fields stage only
	Message string
	Raw     string // original text, parse stage only (debugging aid)
}

func (f *Failure) Error() string {
	if f.Stage == StageFields {
		return fmt.Sprintf("%s: %s (index %d)", f.Stage, f.Message, f.Index)
	}
	return fmt.Sprintf("%s: %s", f.Stage, f.Message)
}

// Records parses raw as an array of exactly shape.Count records and enforces
// the required field set on each. On success every record carries the
// platform tag. Syntactically valid JSON of the wrong top-level type is a
// shape failure, not a parse failure.
func Records(raw string, shape Shape) ([]map[string]any, *Failure) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &Failure{Stage: StageParse, Message: err.Error(), Raw: raw}
	}
	list, ok := parsed.([]any)
	if !ok {
		return nil, &Failure{
			Stage:   StageShape,
			Message: fmt.Sprintf("expected a JSON array, got %s", jsonType(parsed)),
		}
	}
	if len(list) != shape.Count {
		return nil, &Failure{
			Stage:   StageShape,
			Message: fmt.Sprintf("expected an array of %d records, got %d", shape.Count, len(list)),
		}
	}
	items := make([]map[string]any, 0, shape.Count)
	for i, el := range list {
		rec, ok := el.(map[string]any)
		if !ok {
			return nil, &Failure{
				Stage:   StageShape,
				Message: fmt.Sprintf("element %d is %s, expected an object", i, jsonType(el)),
			}
		}
		if missing := firstMissing(rec, shape.Required); missing != "" {
			return nil, &Failure{
				Stage:   StageFields,
				Index:   i,
				Message: fmt.Sprintf("missing required field %q", missing),
			}
		}
		rec["platform"] = shape.Platform
		items = append(items, rec)
	}
	return items, nil
}

// Record parses raw as a single record and enforces the required field set.
func Record(raw string, shape Shape) (map[string]any, *Failure) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &Failure{Stage: StageParse, Message: err.Error(), Raw: raw}
	}
	rec, ok := parsed.(map[string]any)
	if !ok {
		return nil, &Failure{
			Stage:   StageShape,
			Message: fmt.Sprintf("expected a JSON object, got %s", jsonType(parsed)),
		}
	}
	if missing := firstMissing(rec, shape.Required); missing != "" {
		return nil, &Failure{
			Stage:   StageFields,
			Message: fmt.Sprintf("missing required field %q", missing),
		}
	}
	rec["platform"] = shape.Platform
	return rec, nil
}

// firstMissing returns the first required field that is absent, null, empty,
// zero, or false. A zero follower count or a false flag carries no usable
// information in a generated profile, so falsy values count as missing.
func firstMissing(rec map[string]any, required []string) string {
	for _, f := range required {
		v, ok := rec[f]
		if !ok {
			return f
		}
		switch t := v.(type) {
		case nil:
			return f
		case string:
			if t == "" {
				return f
			}
		case float64:
			if t == 0 {
				return f
			}
		case bool:
			if !t {
				return f
			}
		}
	}
	return ""
}

// jsonType names a decoded JSON value's type for failure messages.
func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	}
	return fmt.Sprintf("%T", v)
}
