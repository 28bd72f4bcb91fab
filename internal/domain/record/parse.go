package record

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Shape classifies a decoded JSON value into one of the layouts knowledge
// files are known to arrive in. Classification happens up front so the
// dispatch in Parse stays a flat switch.
type Shape int

const (
	// ShapeUnknown is an unclassifiable value, skipped.
	ShapeUnknown Shape = iota
	// ShapeRecordList is a top-level sequence of records.
	ShapeRecordList
	// ShapeWrapper is an object holding the records under an
	// "insights" or "records" key.
	ShapeWrapper
	// ShapeMetadata is an agent summary file with no record content.
	ShapeMetadata
	// ShapeSingle is one record object.
	ShapeSingle
	// ShapeFanOut is an object whose values are each one record.
	ShapeFanOut
)

var wrapperKeys = []string{"insights", "records"}

// recordKeys are the fields whose presence marks an object as record-like.
var recordKeys = []string{
	"id", "title", "content", "summary", "insight",
	"key_findings", "recommendations", "metrics",
}

// Classify determines the layout of a decoded JSON value.
func Classify(v any) Shape {
	switch val := v.(type) {
	case []any:
		return ShapeRecordList
	case map[string]any:
		for _, k := range wrapperKeys {
			if _, ok := val[k].([]any); ok {
				return ShapeWrapper
			}
		}
		if isMetadata(val) {
			return ShapeMetadata
		}
		if isRecordLike(val) {
			return ShapeSingle
		}
		for _, inner := range val {
			if m, ok := inner.(map[string]any); ok && isRecordLike(m) {
				return ShapeFanOut
			}
		}
		return ShapeUnknown
	default:
		return ShapeUnknown
	}
}

// Parse decodes one knowledge file into records. Metadata and
// unclassifiable values yield zero records without error; only broken JSON
// is an error, and callers are expected to log and skip the file.
func Parse(data []byte) ([]Record, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode knowledge file: %w", err)
	}

	switch Classify(v) {
	case ShapeRecordList:
		return fromList(v.([]any)), nil
	case ShapeWrapper:
		m := v.(map[string]any)
		for _, k := range wrapperKeys {
			if seq, ok := m[k].([]any); ok {
				return fromList(seq), nil
			}
		}
		return nil, nil
	case ShapeSingle:
		r := FromMap(v.(map[string]any))
		return []Record{r}, nil
	case ShapeFanOut:
		m := v.(map[string]any)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Record, 0, len(keys))
		for _, k := range keys {
			inner, ok := m[k].(map[string]any)
			if !ok {
				continue
			}
			r := FromMap(inner)
			if r.title == "" {
				r.title = k
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, nil
	}
}

func fromList(seq []any) []Record {
	out := make([]Record, 0, len(seq))
	for _, item := range seq {
		switch it := item.(type) {
		case map[string]any:
			out = append(out, FromMap(it))
		case string:
			// Bare insight strings occur in older insight wrappers.
			out = append(out, Record{insight: it})
		}
	}
	return out
}

// FromMap builds a Record from one record-like JSON object.
func FromMap(m map[string]any) Record {
	r := Record{
		id:           asString(m["id"]),
		title:        asString(m["title"]),
		summary:      asString(m["summary"]),
		insight:      asString(m["insight"]),
		neighborhood: asString(m["neighborhood"]),
		category:     firstString(m["category"]),
		subcategory:  firstString(m["subcategory"]),
		domain:       firstString(m["domain"]),
		location:     firstString(m["location"]),
		tags:         asStrings(m["tags"]),
	}

	r.geographicScope = asStrings(m["geographic_scope"])
	// A location given as a sequence keeps its first entry as the primary
	// location and folds the rest into the geographic scope.
	if locs := asStrings(m["location"]); len(locs) > 1 {
		r.geographicScope = append(r.geographicScope, locs[1:]...)
	}

	switch content := m["content"].(type) {
	case string:
		r.text = content
	case map[string]any:
		if s := asString(content["summary"]); s != "" {
			r.summary = s
		}
		r.keyFindings = asStrings(content["key_findings"])
		r.recommendations = asStrings(content["recommendations"])
		r.metrics = asMetrics(content["metrics"])
	}

	return r
}

// isMetadata recognizes agent summary files: an agent_name plus a
// categories listing and nothing record-like.
func isMetadata(m map[string]any) bool {
	if _, ok := m["agent_name"]; !ok {
		return false
	}
	if _, ok := m["categories"]; !ok {
		return false
	}
	return !isRecordLike(m)
}

func isRecordLike(m map[string]any) bool {
	for _, k := range recordKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// firstString accepts a scalar string or the first entry of a sequence.
func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		if len(val) > 0 {
			return asString(val[0])
		}
	}
	return ""
}

// asStrings accepts a scalar string or a sequence of strings.
func asStrings(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}

func asMetrics(v any) []Metric {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]Metric, 0, len(names))
	for _, name := range names {
		out = append(out, Metric{Name: name, Value: m[name]})
	}
	return out
}
