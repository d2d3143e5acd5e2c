package output

import (
	"bytes"
	"testing"
)

type record struct {
	Version string `json:"version" yaml:"version"`
	Present bool   `json:"present" yaml:"present"`
}

type described struct{}

func (described) String() string { return "tla2tools 1.8.0" }

func TestWriter(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		value  any
		want   string
	}{
		{"json", FormatJSON, record{Version: "1.8.0", Present: true}, "{\n  \"version\": \"1.8.0\",\n  \"present\": true\n}\n"},
		{"yaml", FormatYAML, record{Version: "1.8.0", Present: true}, "version: 1.8.0\npresent: true\n"},
		{"text stringer", FormatText, described{}, "tla2tools 1.8.0\n"},
		{"text fallback", FormatText, record{Version: "1.8.0"}, "{Version:1.8.0 Present:false}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(&buf, tt.format).Write(tt.value); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
