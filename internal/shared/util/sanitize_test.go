package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "invoice.pdf", want: "invoice.pdf"},
		{in: "  padded.docx ", want: "padded.docx"},
		{in: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{in: "tab\tname.pdf", want: "tabname.pdf"},
		{in: "../secret.pdf", wantErr: true},
		{in: "..", wantErr: true},
		{in: "reports\\..\\secret.docx", wantErr: true},
		{in: "a/../b.pdf", wantErr: true},
		{in: "invoice..pdf", want: "invoice..pdf"},
		{in: "Acme Pty Ltd..docx", want: "Acme Pty Ltd..docx"},
		{in: "...pdf", want: "...pdf"},
		{in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	long := strings.Repeat("x", 500) + ".docx"
	got, err := SanitizeFileName(long)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(got) != maxFileNameLen || !strings.HasSuffix(got, ".docx") {
		t.Fatalf("unexpected truncation: len=%d suffix=%q", len(got), got[len(got)-5:])
	}
}
