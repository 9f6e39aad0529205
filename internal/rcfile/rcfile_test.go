package rcfile

import (
	"bytes"
	"strings"
	"testing"
)

func TestParse_CshAndShForms(t *testing.T) {
	content := `# workspace environment
setenv SYNC_DEVAREA_DIR /prj/caster/work/jdoe
setenv DSGN_PROJ /prj/caster/work/jdoe/CASTER

export PROJECT_DIR=/prj/caster/work
QC_CONFIG_DIR=${DSGN_PROJ}/config
setenv EMPTY_FLAG
alias ll ls -l
if ( -r ~/.aliases ) source ~/.aliases
`
	entries, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Entry{
		{"SYNC_DEVAREA_DIR", "/prj/caster/work/jdoe"},
		{"DSGN_PROJ", "/prj/caster/work/jdoe/CASTER"},
		{"PROJECT_DIR", "/prj/caster/work"},
		{"QC_CONFIG_DIR", "${DSGN_PROJ}/config"},
		{"EMPTY_FLAG", ""},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestParse_QuotedValues(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value string
	}{
		{`setenv MSG "hello world"`, "MSG", "hello world"},
		{`export MSG="hello world"`, "MSG", "hello world"},
		{`export MSG='single quoted'`, "MSG", "single quoted"},
		{`setenv PATHS "a b \"c\""`, "PATHS", `a b "c"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			entries, err := Parse(strings.NewReader(tt.line))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].Key != tt.key || entries[0].Value != tt.value {
				t.Errorf("got %+v, want {%s %s}", entries[0], tt.key, tt.value)
			}
		})
	}
}

func TestParse_SkipsInvalidKeys(t *testing.T) {
	content := "9BAD=1\n=empty\nsetenv GOOD ok\n"
	entries, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "GOOD" {
		t.Fatalf("got %+v, want only GOOD", entries)
	}
}

func TestEmitLine(t *testing.T) {
	tests := []struct {
		flavor Flavor
		key    string
		value  string
		want   string
	}{
		{Csh, "DSGN_PROJ", "/prj/caster/CASTER", "setenv DSGN_PROJ /prj/caster/CASTER"},
		{Sh, "DSGN_PROJ", "/prj/caster/CASTER", "export DSGN_PROJ=/prj/caster/CASTER"},
		{Csh, "MSG", "hello world", `setenv MSG "hello world"`},
		{Sh, "MSG", "hello world", `export MSG="hello world"`},
		{Csh, "EMPTY", "", `setenv EMPTY ""`},
		{Csh, "REF", "${DSGN_PROJ}/config", `setenv REF "${DSGN_PROJ}/config"`},
	}
	for _, tt := range tests {
		if got := EmitLine(tt.flavor, tt.key, tt.value); got != tt.want {
			t.Errorf("EmitLine(%s, %s, %q) = %q, want %q", tt.flavor, tt.key, tt.value, got, tt.want)
		}
	}
}

func TestWriteScript_RoundTrip(t *testing.T) {
	entries := []Entry{
		{"SYNC_DEVAREA_DIR", "/prj/caster/work/jdoe"},
		{"MSG", "two words"},
	}

	var buf bytes.Buffer
	if err := WriteScript(&buf, Csh, entries); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}

	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed) != len(entries) {
		t.Fatalf("round trip lost entries: %+v", parsed)
	}
	for i := range entries {
		if parsed[i] != entries[i] {
			t.Errorf("entry %d = %+v, want %+v", i, parsed[i], entries[i])
		}
	}
}

func TestExpand(t *testing.T) {
	env := map[string]string{
		"DSGN_PROJ": "/prj/caster/CASTER",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	tests := []struct {
		in   string
		want string
	}{
		{"${DSGN_PROJ}/config", "/prj/caster/CASTER/config"},
		{"$DSGN_PROJ", "/prj/caster/CASTER"},
		{"${MISSING}/x", "/x"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Expand(tt.in, lookup); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFlavor(t *testing.T) {
	if f, err := ParseFlavor("tcsh"); err != nil || f != Csh {
		t.Errorf("ParseFlavor(tcsh) = %v, %v", f, err)
	}
	if f, err := ParseFlavor("bash"); err != nil || f != Sh {
		t.Errorf("ParseFlavor(bash) = %v, %v", f, err)
	}
	if _, err := ParseFlavor("fish"); err == nil {
		t.Error("ParseFlavor(fish) should fail")
	}
}
