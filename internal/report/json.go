package report

import (
	"encoding/json"
	"io"

	"github.com/danieljhkim/pathaudit/internal/diagnostic"
)

// Record is the JSON form of a diagnostic.
type Record struct {
	Kind    diagnostic.Kind          `json:"kind"`
	Path    string                   `json:"path"`
	NewPath string                   `json:"new_path,omitempty"`
	Detail  string                   `json:"detail"`
	Matches []diagnostic.Match       `json:"matches,omitempty"`
	Rules   []diagnostic.AppliedRule `json:"rules,omitempty"`
	Length  int                      `json:"length,omitempty"`
	Limit   int                      `json:"limit,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

// NewRecord converts d.
func NewRecord(d diagnostic.Diagnostic) Record {
	r := Record{
		Kind:   d.Kind(),
		Path:   d.Location().String(),
		Detail: diagnostic.Detail(d),
	}
	if diagnostic.IsFix(d) {
		r.NewPath = diagnostic.Target(d).String()
	}
	switch d := d.(type) {
	case diagnostic.Characters:
		r.Matches = d.Matches
	case diagnostic.CharactersFixed:
		r.Matches = d.Matches
	case diagnostic.Rename:
		r.Rules = d.Rules
	case diagnostic.NameLength:
		r.Length, r.Limit = d.Len, d.Limit
	case diagnostic.Length:
		r.Length, r.Limit = d.Len, d.Limit
	case diagnostic.Error:
		r.Error = d.Err.Error()
	}
	return r
}

// JSON writes one JSON object per line.
type JSON struct {
	enc *json.Encoder
}

// NewJSON returns a JSON lines writer on w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

func (j *JSON) Write(d diagnostic.Diagnostic) error {
	return j.enc.Encode(NewRecord(d))
}

func (j *JSON) Close() error { return nil }
