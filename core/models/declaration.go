package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ExtractedFunction is a documented exported constant found in source text.
// Start and End are byte offsets of the whole match.
type ExtractedFunction struct {
	Comment string
	Name    string
	Start   int
	End     int
}

// NamedDeclaration is one rendered interface block. Body holds the full
// text, doc comment included.
type NamedDeclaration struct {
	Name string
	Body string
}

// RecordSet is an insertion-ordered set of declarations keyed by name.
type RecordSet struct {
	entries *orderedmap.OrderedMap[string, string]
}

func NewRecordSet(decls ...NamedDeclaration) *RecordSet {
	rs := &RecordSet{entries: orderedmap.New[string, string]()}
	for _, d := range decls {
		rs.Put(d)
	}
	return rs
}

// Put inserts d, or replaces the body of an entry with the same name while
// keeping its position. It reports whether an entry was replaced.
func (rs *RecordSet) Put(d NamedDeclaration) bool {
	_, replaced := rs.entries.Set(d.Name, d.Body)
	return replaced
}

func (rs *RecordSet) Get(name string) (NamedDeclaration, bool) {
	if rs == nil {
		return NamedDeclaration{}, false
	}
	body, ok := rs.entries.Get(name)
	if !ok {
		return NamedDeclaration{}, false
	}
	return NamedDeclaration{Name: name, Body: body}, true
}

func (rs *RecordSet) Has(name string) bool {
	_, ok := rs.Get(name)
	return ok
}

func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return rs.entries.Len()
}

func (rs *RecordSet) Declarations() []NamedDeclaration {
	if rs == nil {
		return nil
	}
	decls := make([]NamedDeclaration, 0, rs.entries.Len())
	for pair := rs.entries.Oldest(); pair != nil; pair = pair.Next() {
		decls = append(decls, NamedDeclaration{Name: pair.Key, Body: pair.Value})
	}
	return decls
}

func (rs *RecordSet) Names() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, 0, rs.entries.Len())
	for pair := rs.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (rs *RecordSet) Clone() *RecordSet {
	return NewRecordSet(rs.Declarations()...)
}
