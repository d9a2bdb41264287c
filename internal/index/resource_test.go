package index

import (
	"testing"

	"github.com/drivewiki/drivewiki/internal/drive"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Guides", "guides"},
		{"spaces to dashes", "Getting Started", "getting-started"},
		{"punctuation collapsed", "FAQ: What's new?!", "faq-what-s-new"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"unicode lowered", "Résumé Tips", "r-sum-tips"},
		{"digits kept", "2026 Roadmap", "2026-roadmap"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFullPath(t *testing.T) {
	tests := []struct {
		name string
		r    Resource
		want string
	}{
		{"top level", Resource{Path: "", Slug: "readme"}, "/readme"},
		{"nested", Resource{Path: "/guides", Slug: "setup"}, "/guides/setup"},
		{"root container", Resource{Path: "", Slug: ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.FullPath(); got != tt.want {
				t.Errorf("FullPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeForMime(t *testing.T) {
	tests := []struct {
		mime   string
		want   ResourceType
		wantOK bool
	}{
		{drive.MimeFolder, TypeFolder, true},
		{drive.MimeDocument, TypeDocument, true},
		{drive.MimeHTML, TypeHTML, true},
		{drive.MimeSpreadsheet, "", false},
		{"image/png", "", false},
	}

	for _, tt := range tests {
		got, ok := TypeForMime(tt.mime)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("TypeForMime(%q) = (%q, %v), want (%q, %v)", tt.mime, got, ok, tt.want, tt.wantOK)
		}
	}
}
