// Package sections defines the closed set of landing-page section variants
// and the shallow schema that every stored section list must satisfy.
//
// A section is kept as its raw JSON object so that authored content survives
// storage unchanged. The typed payload is decoded on demand by Variant.
package sections

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Type is the discriminator carried in a section's "type" field.
type Type string

const (
	TypeHero            Type = "hero"
	TypeStats           Type = "stats"
	TypeBenefits        Type = "benefits"
	TypeFeatures        Type = "features" // alias of benefits
	TypeTestimonials    Type = "testimonials"
	TypeContent         Type = "content"
	TypeCTA             Type = "cta"
	TypeComparison      Type = "comparison"
	TypeProcess         Type = "process"
	TypeStudentProjects Type = "studentProjects"
	TypeCurriculum      Type = "curriculum"
)

// KnownTypes returns every type tag that has a rendering strategy.
func KnownTypes() []Type {
	return []Type{
		TypeHero,
		TypeStats,
		TypeBenefits,
		TypeFeatures,
		TypeTestimonials,
		TypeContent,
		TypeCTA,
		TypeComparison,
		TypeProcess,
		TypeStudentProjects,
		TypeCurriculum,
	}
}

// Known reports whether t is part of the closed section enumeration.
func (t Type) Known() bool {
	for _, k := range KnownTypes() {
		if k == t {
			return true
		}
	}
	return false
}

// Canonical folds aliases onto the type that renders them.
func (t Type) Canonical() Type {
	if t == TypeFeatures {
		return TypeBenefits
	}
	return t
}

// ErrMalformed is the sentinel behind every schema failure.
var ErrMalformed = errors.New("malformed sections")

// SyntaxError describes why a section list was rejected.
// Index is the offending section position, or -1 for the document itself.
// Offset is the byte offset of a JSON syntax error, when known.
type SyntaxError struct {
	Index  int
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Index >= 0:
		return fmt.Sprintf("section %d: %s", e.Index, e.Msg)
	case e.Offset > 0:
		return fmt.Sprintf("sections: %s (at byte %d)", e.Msg, e.Offset)
	default:
		return "sections: " + e.Msg
	}
}

func (e *SyntaxError) Unwrap() error { return ErrMalformed }

// Section is one typed content block within a page.
type Section struct {
	ID   string
	Type Type
	raw  json.RawMessage
}

// Raw returns the compact JSON object the section was authored as.
func (s Section) Raw() json.RawMessage {
	return s.raw
}

// Key returns the stable render key, falling back to the position.
func (s Section) Key(index int) string {
	if s.ID != "" {
		return s.ID
	}
	return strconv.Itoa(index)
}

// MarshalJSON emits the section exactly as it was authored.
func (s Section) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return json.Marshal(map[string]string{"type": string(s.Type)})
	}
	return s.raw, nil
}

// UnmarshalJSON applies the shallow schema: the value must be an object with
// a non-empty string "type". Other fields are not inspected.
func (s *Section) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return &SyntaxError{Index: -1, Msg: "section must be an object"}
	}

	rawType, ok := fields["type"]
	if !ok {
		return &SyntaxError{Index: -1, Msg: `missing "type"`}
	}
	var typ string
	if err := json.Unmarshal(rawType, &typ); err != nil {
		return &SyntaxError{Index: -1, Msg: `"type" must be a string`}
	}
	if typ == "" {
		return &SyntaxError{Index: -1, Msg: `"type" is empty`}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return &SyntaxError{Index: -1, Msg: err.Error()}
	}

	s.Type = Type(typ)
	s.ID = idString(fields["id"])
	s.raw = compact.Bytes()
	return nil
}

// idString accepts string or numeric ids; anything else is ignored.
func idString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

// Build assembles a section from a typed variant. It is used for seeded and
// default content; authored content goes through Parse.
func Build(id string, v Variant) (Section, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Section{}, err
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return Section{}, err
	}
	if id != "" {
		fields["id"] = id
	}
	fields["type"] = string(v.SectionType())

	body, err = json.Marshal(fields)
	if err != nil {
		return Section{}, err
	}
	var s Section
	if err := s.UnmarshalJSON(body); err != nil {
		return Section{}, err
	}
	return s, nil
}

// List is an ordered section sequence. Order is significant.
type List []Section

// MarshalJSON writes a JSON array of the raw section objects; a nil list is
// written as [].
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, s := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		body, err := s.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON applies Parse to a JSON array.
func (l *List) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Types returns the type tag of each section, in order.
func (l List) Types() []Type {
	out := make([]Type, len(l))
	for i, s := range l {
		out[i] = s.Type
	}
	return out
}

// Parse validates JSON text as a section list. Blank text and null decode to
// an empty list. Unknown type tags are accepted.
func Parse(data []byte) (List, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return List{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, &SyntaxError{Index: -1, Offset: syn.Offset, Msg: syn.Error()}
		}
		return nil, &SyntaxError{Index: -1, Msg: "sections must be a list"}
	}

	list := make(List, 0, len(raws))
	for i, raw := range raws {
		var s Section
		if err := s.UnmarshalJSON(raw); err != nil {
			var syn *SyntaxError
			if errors.As(err, &syn) {
				syn.Index = i
				return nil, syn
			}
			return nil, &SyntaxError{Index: i, Msg: err.Error()}
		}
		list = append(list, s)
	}
	return list, nil
}

// Indent renders the list as indented JSON for editing.
func (l List) Indent() (string, error) {
	body, err := l.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}
