package pgengine

import (
	"strings"
	"testing"

	"github.com/docgraph/docgraph/internal/engine"
)

var testMapping = engine.Mapping{
	Keywords: []string{"datasource", "label", "properties.key"},
	Texts:    []string{"properties.value"},
	Nested:   []string{"properties"},
}

func TestBuilder_Exact(t *testing.T) {
	tests := []struct {
		name     string
		query    engine.Query
		wantSQL  string
		wantArgs int
	}{
		{"nil", nil, "TRUE", 1},
		{"match all", engine.MatchAll{}, "TRUE", 1},
		{"empty bool", engine.Bool{}, "TRUE", 1},
		{"empty ids", engine.IDs{}, "FALSE", 1},
		{"empty terms", engine.Terms{Field: "label"}, "FALSE", 1},
		{"ids", engine.IDs{Values: []string{"a", "b"}}, "id = ANY($2::text[])", 2},
		{"blank phrase", engine.Phrase{Field: "properties.value", Phrase: " / "}, "FALSE", 1},
		{
			"nested keyword term",
			engine.Nested{Path: "properties", Query: engine.Term{Field: "properties.key", Value: "nick"}},
			"EXISTS (SELECT 1 FROM jsonb_array_elements(CASE WHEN jsonb_typeof(body->$2::text) = 'array' " +
				"THEN body->$2::text ELSE '[]'::jsonb END) AS el1 WHERE el1->>$3::text = $4::text)",
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(testMapping, "vertex")

			got, err := b.where(tt.query)
			if err != nil {
				t.Fatalf("where: %v", err)
			}
			if got != tt.wantSQL {
				t.Errorf("sql = %q, want %q", got, tt.wantSQL)
			}
			if len(b.args) != tt.wantArgs {
				t.Errorf("args = %v, want %d entries", b.args, tt.wantArgs)
			}
			if b.args[0] != "vertex" {
				t.Errorf("first arg = %v, want collection name", b.args[0])
			}
		})
	}
}

func TestBuilder_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		query   engine.Query
		contain []string
		absent  []string
	}{
		{
			name:    "top level keyword term",
			query:   engine.Term{Field: "label", Value: "person"},
			contain: []string{"body->>$2::text = $3::text", "jsonb_array_elements_text"},
		},
		{
			name:    "flattened nested field",
			query:   engine.Term{Field: "properties.key", Value: "nick"},
			contain: []string{"jsonb_array_elements(", "AS el1", "el1->>"},
		},
		{
			name:    "text phrase",
			query:   engine.Nested{Path: "properties", Query: engine.Phrase{Field: "properties.value", Phrase: "Type Script"}},
			contain: []string{"array_to_string(regexp_split_to_array(lower(el1->>", "LIKE $"},
		},
		{
			name:    "text wildcard",
			query:   engine.Nested{Path: "properties", Query: engine.Wildcard{Field: "properties.value", Pattern: "*script*"}},
			contain: []string{"regexp_split_to_table(lower(el1->>", "tok LIKE"},
		},
		{
			name: "bool",
			query: engine.Bool{
				Filter:  []engine.Query{engine.Term{Field: "datasource", Value: "sample"}},
				MustNot: []engine.Query{engine.Term{Field: "label", Value: "city"}},
				Should:  []engine.Query{engine.Term{Field: "label", Value: "a"}, engine.Term{Field: "label", Value: "b"}},
			},
			contain: []string{" AND NOT ("},
			absent:  []string{") OR (("},
		},
		{
			name: "should only",
			query: engine.Bool{Should: []engine.Query{
				engine.Term{Field: "sid", Value: "a"},
				engine.Term{Field: "tid", Value: "a"},
			}},
			contain: []string{") OR ("},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(testMapping, "vertex")

			got, err := b.where(tt.query)
			if err != nil {
				t.Fatalf("where: %v", err)
			}
			for _, s := range tt.contain {
				if !strings.Contains(got, s) {
					t.Errorf("sql %q does not contain %q", got, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(got, s) {
					t.Errorf("sql %q unexpectedly contains %q", got, s)
				}
			}
		})
	}
}

func TestBuilder_PhrasePatternArg(t *testing.T) {
	b := newBuilder(testMapping, "vertex")

	if _, err := b.where(engine.Nested{Path: "properties", Query: engine.Phrase{Field: "properties.value", Phrase: "HTML5/CSS"}}); err != nil {
		t.Fatalf("where: %v", err)
	}

	last := b.args[len(b.args)-1]
	if last != "% html5 css %" {
		t.Errorf("pattern arg = %q, want %q", last, "% html5 css %")
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"*java*", "%java%"},
		{"ja?a", "ja_a"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}

	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
