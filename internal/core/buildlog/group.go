package buildlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// AnnotationsByFile maps file paths to annotations in insertion order
// files without annotations are never present
type AnnotationsByFile struct {
	order  []string
	byFile map[string][]Annotation
}

// NewAnnotationsByFile returns an empty grouping
func NewAnnotationsByFile() *AnnotationsByFile {
	return &AnnotationsByFile{byFile: map[string][]Annotation{}}
}

// Add appends a to the sequence for file
func (g *AnnotationsByFile) Add(file string, a Annotation) {
	if g.byFile == nil {
		g.byFile = map[string][]Annotation{}
	}
	if _, ok := g.byFile[file]; !ok {
		g.order = append(g.order, file)
	}
	g.byFile[file] = append(g.byFile[file], a)
}

// Files returns file paths in first seen order
func (g *AnnotationsByFile) Files() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

// Get returns the annotations for file
func (g *AnnotationsByFile) Get(file string) ([]Annotation, bool) {
	if g == nil {
		return nil, false
	}
	as, ok := g.byFile[file]
	return as, ok
}

// Len is the number of files with annotations
func (g *AnnotationsByFile) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

// Total is the number of annotations across files
func (g *AnnotationsByFile) Total() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, as := range g.byFile {
		n += len(as)
	}
	return n
}

// wireAnnotation is the JSON shape consumed by editor gutters
type wireAnnotation struct {
	Type   string `json:"type"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Text   string `json:"text"`
	TS     *int64 `json:"ts"`
}

// MarshalJSON encodes a with its timestamp as epoch milliseconds
func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireAnnotation{
		Type:   a.Kind,
		Row:    a.Row,
		Column: a.Column,
		Text:   a.Text,
		TS:     UnixMilli(a.TS),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON
func (a *Annotation) UnmarshalJSON(b []byte) error {
	var w wireAnnotation
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*a = Annotation{Kind: w.Type, Row: w.Row, Column: w.Column, Text: w.Text, TS: fromMilli(w.TS)}
	return nil
}

// MarshalJSON writes an object whose keys keep insertion order
func (g *AnnotationsByFile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if g != nil {
		for i, f := range g.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(g.byFile[f])
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object and keeps its key order
func (g *AnnotationsByFile) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("buildlog: annotations want object, got %v", tok)
	}
	*g = *NewAnnotationsByFile()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		file, ok := kt.(string)
		if !ok {
			return fmt.Errorf("buildlog: bad key %v", kt)
		}
		var as []Annotation
		if err := dec.Decode(&as); err != nil {
			return err
		}
		for _, a := range as {
			g.Add(file, a)
		}
	}
	_, err = dec.Token()
	return err
}

type wireResult struct {
	Timestamp *int64             `json:"timestamp"`
	Errors    *AnnotationsByFile `json:"errors"`
}

// MarshalJSON encodes the result with millisecond timestamps
func (r Result) MarshalJSON() ([]byte, error) {
	errs := r.Errors
	if errs == nil {
		errs = NewAnnotationsByFile()
	}
	return json.Marshal(wireResult{Timestamp: UnixMilli(r.Timestamp), Errors: errs})
}

// UnmarshalJSON is the inverse of MarshalJSON
func (r *Result) UnmarshalJSON(b []byte) error {
	w := wireResult{Errors: NewAnnotationsByFile()}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Result{Timestamp: fromMilli(w.Timestamp), Errors: w.Errors}
	return nil
}

func fromMilli(ms *int64) time.Time {
	if ms == nil {
		return time.Time{}
	}
	return time.UnixMilli(*ms).UTC()
}
