package markup

import (
	"reflect"
	"strings"
	"testing"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paragraphs",
			input: "<p>First line</p><p>Second line</p>",
			want:  "First line\nSecond line",
		},
		{
			name:  "headings",
			input: "<h1>Jane Doe</h1><h2>Experience</h2><p>Engineer</p>",
			want:  "# Jane Doe\n## Experience\nEngineer",
		},
		{
			name:  "emphasis",
			input: "<p>Skilled in <b>Go</b> and <em>Rust</em></p>",
			want:  "Skilled in **Go** and *Rust*",
		},
		{
			name:  "strong and i",
			input: "<div><strong>Bold</strong> <i>tilt</i></div>",
			want:  "**Bold** *tilt*",
		},
		{
			name:  "line breaks",
			input: "<div>one<br>two<br/>three</div>",
			want:  "one\ntwo\nthree",
		},
		{
			name:  "list items",
			input: "<ul><li>alpha</li><li>beta</li></ul>",
			want:  "- alpha\n- beta",
		},
		{
			name:  "whitespace collapsed",
			input: "<p>  lots\n\tof   space  </p>",
			want:  "lots of space",
		},
		{
			name:  "scripts skipped",
			input: "<html><head><title>t</title><style>p{}</style></head><body><script>x()</script><p>kept</p></body></html>",
			want:  "kept",
		},
		{
			name:  "empty emphasis dropped",
			input: "<p>a<b> </b>b</p>",
			want:  "ab",
		},
		{
			name:  "plain text",
			input: "just text",
			want:  "just text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHTMLString(tt.input)
			if err != nil {
				t.Fatalf("FromHTML() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"heading", "# Title\nbody", []string{"<h1>Title</h1>", "body"}},
		{"bold pair", "a **b** c", []string{"<strong>b</strong>"}},
		{"unpaired marker stays literal", "plain **bold rest", []string{"**bold rest"}},
		{"hard wraps", "one\ntwo", []string{"one<br>", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML(%q) = %q, missing %q", tt.input, got, want)
				}
			}
		})
	}
}

func TestOutline(t *testing.T) {
	content := "Intro line\n\n# Jane Doe\nEngineer\n\n## Experience\nAcme\n\n\n\n# Page Two\n\n"
	want := []Heading{
		{Level: 1, Text: "Jane Doe", Line: 3},
		{Level: 2, Text: "Experience", Line: 6},
		{Level: 1, Text: "Page Two", Line: 11},
	}

	got := Outline(content)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Outline() = %+v, want %+v", got, want)
	}
}

func TestOutlineEmpty(t *testing.T) {
	if got := Outline("no headings here\n\n"); len(got) != 0 {
		t.Errorf("Outline() = %+v, want none", got)
	}
}
