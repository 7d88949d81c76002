package sections

import (
	"encoding/json"
	"strings"
)

// Variant is the typed payload of a section. The set of implementations is
// closed: every known Type decodes to exactly one of the structs below and
// anything else decodes to Unknown.
type Variant interface {
	SectionType() Type
	sealed()
}

// Text accepts a JSON string, number or boolean and keeps its text form.
// Authors frequently write stat values and ratings as bare numbers.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Text(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*t = "true"
		} else {
			*t = "false"
		}
		return nil
	}
	// null and composite values degrade to empty text
	*t = ""
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

type Hero struct {
	Title     string `json:"title,omitempty"`
	Subtitle  string `json:"subtitle,omitempty"`
	CTAText   string `json:"ctaText,omitempty"`
	CTALink   string `json:"ctaLink,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Image     string `json:"image,omitempty"`
}

type StatItem struct {
	Label string `json:"label,omitempty"`
	Value Text   `json:"value,omitempty"`
}

type Stats struct {
	Title string     `json:"title,omitempty"`
	Items []StatItem `json:"items,omitempty"`
}

type Feature struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Benefits also serves the "features" tag.
type Benefits struct {
	Title    string    `json:"title,omitempty"`
	Subtitle string    `json:"subtitle,omitempty"`
	Items    []Feature `json:"items,omitempty"`
}

type Testimonial struct {
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Rating  Text   `json:"rating,omitempty"`
}

type Testimonials struct {
	Title    string        `json:"title,omitempty"`
	Subtitle string        `json:"subtitle,omitempty"`
	Items    []Testimonial `json:"items,omitempty"`
}

// Content carries author HTML; it is sanitized at render time.
type Content struct {
	Title         string `json:"title,omitempty"`
	Content       string `json:"content,omitempty"`
	Image         string `json:"image,omitempty"`
	ImagePosition string `json:"imagePosition,omitempty"`
}

type CTA struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	CTAText  string `json:"ctaText,omitempty"`
	CTALink  string `json:"ctaLink,omitempty"`
}

type ComparisonRow struct {
	Label  string `json:"label,omitempty"`
	Values []Text `json:"values,omitempty"`
}

type Comparison struct {
	Title    string          `json:"title,omitempty"`
	Subtitle string          `json:"subtitle,omitempty"`
	Columns  []string        `json:"columns,omitempty"`
	Rows     []ComparisonRow `json:"rows,omitempty"`
}

type Step struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type Process struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Items    []Step `json:"items,omitempty"`
}

type Project struct {
	Title       string `json:"title,omitempty"`
	Student     string `json:"student,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
}

type StudentProjects struct {
	Title    string    `json:"title,omitempty"`
	Subtitle string    `json:"subtitle,omitempty"`
	Items    []Project `json:"items,omitempty"`
}

type Module struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Lessons     []string `json:"lessons,omitempty"`
}

type Curriculum struct {
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Items    []Module `json:"items,omitempty"`
}

// Unknown is the explicit arm for a type tag outside the closed set.
type Unknown struct {
	Type Type `json:"-"`
}

func (Hero) SectionType() Type            { return TypeHero }
func (Stats) SectionType() Type           { return TypeStats }
func (Benefits) SectionType() Type        { return TypeBenefits }
func (Testimonials) SectionType() Type    { return TypeTestimonials }
func (Content) SectionType() Type         { return TypeContent }
func (CTA) SectionType() Type             { return TypeCTA }
func (Comparison) SectionType() Type      { return TypeComparison }
func (Process) SectionType() Type         { return TypeProcess }
func (StudentProjects) SectionType() Type { return TypeStudentProjects }
func (Curriculum) SectionType() Type      { return TypeCurriculum }
func (u Unknown) SectionType() Type       { return u.Type }

func (Hero) sealed()            {}
func (Stats) sealed()           {}
func (Benefits) sealed()        {}
func (Testimonials) sealed()    {}
func (Content) sealed()         {}
func (CTA) sealed()             {}
func (Comparison) sealed()      {}
func (Process) sealed()         {}
func (StudentProjects) sealed() {}
func (Curriculum) sealed()      {}
func (Unknown) sealed()         {}

// Variant decodes the section payload. Unknown tags yield Unknown with a nil
// error; a known tag whose fields have the wrong shape yields the decode error.
func (s Section) Variant() (Variant, error) {
	switch s.Type.Canonical() {
	case TypeHero:
		return decode[Hero](s.raw)
	case TypeStats:
		return decode[Stats](s.raw)
	case TypeBenefits:
		return decode[Benefits](s.raw)
	case TypeTestimonials:
		return decode[Testimonials](s.raw)
	case TypeContent:
		return decode[Content](s.raw)
	case TypeCTA:
		return decode[CTA](s.raw)
	case TypeComparison:
		return decode[Comparison](s.raw)
	case TypeProcess:
		return decode[Process](s.raw)
	case TypeStudentProjects:
		return decode[StudentProjects](s.raw)
	case TypeCurriculum:
		return decode[Curriculum](s.raw)
	default:
		return Unknown{Type: s.Type}, nil
	}
}

func decode[V Variant](raw json.RawMessage) (Variant, error) {
	var v V
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
