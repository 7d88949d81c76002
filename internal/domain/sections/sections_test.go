package sections

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParse_ValidList(t *testing.T) {
	input := `[
		{"id": "hero", "type": "hero", "title": "T", "ctaLink": "#pricing"},
		{"type": "stats", "items": [{"label": "Students", "value": 2500}]},
		{"id": "x", "type": "unknown_widget", "anything": [1, 2, 3]}
	]`

	list, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}

	want := []Type{TypeHero, TypeStats, "unknown_widget"}
	if !reflect.DeepEqual(list.Types(), want) {
		t.Errorf("Types() = %v, want %v", list.Types(), want)
	}
	if list[0].ID != "hero" {
		t.Errorf("list[0].ID = %q, want %q", list[0].ID, "hero")
	}
	if list[1].ID != "" {
		t.Errorf("list[1].ID = %q, want empty", list[1].ID)
	}
}

func TestParse_EmptyInputs(t *testing.T) {
	for _, in := range []string{"", "   ", "null", "[]"} {
		list, err := Parse([]byte(in))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", in, err)
			continue
		}
		if len(list) != 0 {
			t.Errorf("Parse(%q) len = %d, want 0", in, len(list))
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		index int
	}{
		{"truncated", `[{"type": "hero", "title": "T"`, -1},
		{"not a list", `{"type": "hero"}`, -1},
		{"scalar element", `[{"type": "hero"}, 42]`, 1},
		{"missing type", `[{"title": "no tag"}]`, 0},
		{"numeric type", `[{"type": 7}]`, 0},
		{"empty type", `[{"type": "hero"}, {"type": ""}]`, 1},
		{"null element", `[null]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v should wrap ErrMalformed", err)
			}
			var syn *SyntaxError
			if !errors.As(err, &syn) {
				t.Fatalf("error %T should be *SyntaxError", err)
			}
			if syn.Index != tt.index {
				t.Errorf("Index = %d, want %d", syn.Index, tt.index)
			}
		})
	}
}

func TestParse_SyntaxOffset(t *testing.T) {
	_, err := Parse([]byte(`[{"type": "hero",,}]`))
	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if syn.Offset == 0 {
		t.Error("Offset should be set for JSON syntax errors")
	}
}

func TestList_RoundTrip(t *testing.T) {
	input := `[{"id":"hero","type":"hero","title":"T","extra":{"nested":true}},{"type":"content","content":"<p>x</p>","imagePosition":"right"}]`

	list, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	out, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var want, got any
	_ = json.Unmarshal([]byte(input), &want)
	_ = json.Unmarshal(out, &got)
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip mismatch:\n got  %s\n want %s", out, input)
	}
}

func TestList_NilMarshalsAsEmptyArray(t *testing.T) {
	var l List
	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "[]" {
		t.Errorf("Marshal(nil) = %s, want []", out)
	}
}

func TestList_UnmarshalInsideStruct(t *testing.T) {
	var body struct {
		Sections List `json:"sections"`
	}
	if err := json.Unmarshal([]byte(`{"sections":[{"type":"cta","title":"Go"}]}`), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(body.Sections) != 1 || body.Sections[0].Type != TypeCTA {
		t.Errorf("Sections = %+v", body.Sections)
	}

	err := json.Unmarshal([]byte(`{"sections":[{"title":"no type"}]}`), &body)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestSection_Key(t *testing.T) {
	list, _ := Parse([]byte(`[{"id":"a","type":"hero"},{"type":"cta"},{"id":12,"type":"stats"}]`))
	keys := []string{list[0].Key(0), list[1].Key(1), list[2].Key(2)}
	want := []string{"a", "1", "12"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestType_KnownAndCanonical(t *testing.T) {
	for _, typ := range KnownTypes() {
		if !typ.Known() {
			t.Errorf("%q should be known", typ)
		}
	}
	if Type("unknown_widget").Known() {
		t.Error("unknown_widget should not be known")
	}
	if Type("Hero").Known() {
		t.Error("type tags are case sensitive")
	}
	if TypeFeatures.Canonical() != TypeBenefits {
		t.Errorf("features canonical = %q, want benefits", TypeFeatures.Canonical())
	}
	if TypeHero.Canonical() != TypeHero {
		t.Errorf("hero canonical = %q", TypeHero.Canonical())
	}
}

func TestVariant_EveryKnownTypeDecodes(t *testing.T) {
	for _, typ := range KnownTypes() {
		list, err := Parse([]byte(`[{"type":"` + string(typ) + `"}]`))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", typ, err)
		}
		v, err := list[0].Variant()
		if err != nil {
			t.Fatalf("Variant(%q) error = %v", typ, err)
		}
		if _, unknown := v.(Unknown); unknown {
			t.Errorf("%q decoded to Unknown", typ)
		}
		if v.SectionType() != typ.Canonical() {
			t.Errorf("%q decoded to %q", typ, v.SectionType())
		}
	}
}

func TestVariant_Unknown(t *testing.T) {
	list, _ := Parse([]byte(`[{"type":"unknown_widget","title":"x"}]`))
	v, err := list[0].Variant()
	if err != nil {
		t.Fatalf("Variant() error = %v", err)
	}
	u, ok := v.(Unknown)
	if !ok {
		t.Fatalf("Variant() = %T, want Unknown", v)
	}
	if u.Type != "unknown_widget" {
		t.Errorf("Unknown.Type = %q", u.Type)
	}
}

func TestVariant_WrongShape(t *testing.T) {
	list, _ := Parse([]byte(`[{"type":"curriculum","items":"not a list"}]`))
	if _, err := list[0].Variant(); err == nil {
		t.Error("Variant() should fail for items of the wrong shape")
	}
}

func TestVariant_FlexibleText(t *testing.T) {
	list, _ := Parse([]byte(`[{"type":"stats","items":[{"label":"a","value":2500},{"label":"b","value":"150+"},{"label":"c","value":null}]}]`))
	v, err := list[0].Variant()
	if err != nil {
		t.Fatalf("Variant() error = %v", err)
	}
	stats := v.(Stats)
	got := []string{stats.Items[0].Value.String(), stats.Items[1].Value.String(), stats.Items[2].Value.String()}
	want := []string{"2500", "150+", ""}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestBuild(t *testing.T) {
	s, err := Build("pricing", CTA{Title: "Join", CTALink: "/checkout"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.ID != "pricing" || s.Type != TypeCTA {
		t.Errorf("Build() = id %q type %q", s.ID, s.Type)
	}
	v, err := s.Variant()
	if err != nil {
		t.Fatalf("Variant() error = %v", err)
	}
	if cta := v.(CTA); cta.Title != "Join" || cta.CTALink != "/checkout" {
		t.Errorf("CTA = %+v", cta)
	}

	u, err := Build("x", Unknown{Type: "unknown_widget"})
	if err != nil {
		t.Fatalf("Build(Unknown) error = %v", err)
	}
	if u.Type != "unknown_widget" {
		t.Errorf("Type = %q", u.Type)
	}
}

func TestIndent(t *testing.T) {
	list, _ := Parse([]byte(`[{"type":"hero","title":"T"}]`))
	text, err := list.Indent()
	if err != nil {
		t.Fatalf("Indent() error = %v", err)
	}
	again, err := Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse(Indent()) error = %v", err)
	}
	if len(again) != 1 || again[0].Type != TypeHero {
		t.Errorf("re-parsed = %+v", again)
	}
}

func TestParseYAML(t *testing.T) {
	input := `
- id: hero
  type: hero
  title: Summer offer
- type: stats
  items:
    - label: Students
      value: 2500
`
	list, err := ParseYAML([]byte(input))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	want := []Type{TypeHero, TypeStats}
	if !reflect.DeepEqual(list.Types(), want) {
		t.Errorf("Types() = %v, want %v", list.Types(), want)
	}

	v, err := list[1].Variant()
	if err != nil {
		t.Fatalf("Variant() error = %v", err)
	}
	if got := v.(Stats).Items[0].Value.String(); got != "2500" {
		t.Errorf("value = %q, want 2500", got)
	}
}

func TestParseYAML_Rejects(t *testing.T) {
	for _, in := range []string{"- title: no type", "type: hero", "- [unclosed"} {
		if _, err := ParseYAML([]byte(in)); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseYAML(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}
