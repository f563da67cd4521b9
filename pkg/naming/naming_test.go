package naming

import "testing"

func TestNormalizeStage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"prod", "live"},
		{"production", "live"},
		{"live", "live"},
		{"dev", "dev"},
		{"development", "dev"},
		{"stg", "stage"},
		{"staging", "stage"},
		{"stage", "stage"},
		{"test", "test"},
		{"testing", "test"},
		{"Local", "local"},
		{"My Env!", "my-env"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeStage(tt.in); got != tt.want {
			t.Fatalf("NormalizeStage(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFullDomain(t *testing.T) {
	tests := []struct {
		sub    string
		domain string
		want   string
	}{
		{"www", "example.com", "www.example.com"},
		{"www.", "example.com", "www.example.com"},
		{"www", ".example.com", "www.example.com"},
		{"www.", ".example.com.", "www.example.com"},
		{" WWW ", "Example.COM", "www.example.com"},
		{"docs.eu", "example.com", "docs.eu.example.com"},
		{"", "example.com", "example.com"},
		{"www", "", "www"},
	}
	for _, tt := range tests {
		if got := FullDomain(tt.sub, tt.domain); got != tt.want {
			t.Fatalf("FullDomain(%q, %q)=%q, want %q", tt.sub, tt.domain, got, tt.want)
		}
	}
}

func TestValidDomain(t *testing.T) {
	valid := []string{"example.com", "www.example.com", "a.b.c.example.co.uk", "x1-y2.example.com"}
	for _, name := range valid {
		if !ValidDomain(name) {
			t.Fatalf("expected %q to be valid", name)
		}
	}

	invalid := []string{"", "example..com", "-example.com", "example-.com", "exa mple.com", "under_score.com"}
	for _, name := range invalid {
		if ValidDomain(name) {
			t.Fatalf("expected %q to be invalid", name)
		}
	}

	long := ""
	for len(long) < 260 {
		long += "abcdefghij."
	}
	if ValidDomain(long + "com") {
		t.Fatal("expected over-long domain to be invalid")
	}
}

func TestStackName(t *testing.T) {
	if got := StackName("PdfSite", ""); got != "PdfSite" {
		t.Fatalf("StackName app: %q", got)
	}
	if got := StackName("PdfSite", "prod"); got != "PdfSite-live" {
		t.Fatalf("StackName app-stage: %q", got)
	}
	if got := StackName("Pdf Site_v2", "stg"); got != "Pdf-Site-v2-stage" {
		t.Fatalf("StackName sanitized: %q", got)
	}
}

func TestResourceName(t *testing.T) {
	if got := ResourceName("PdfSite", "Router", "stg"); got != "pdfsite-router-stage" {
		t.Fatalf("ResourceName app-resource-stage: %q", got)
	}
	if got := ResourceName("PdfSite", "Router", ""); got != "pdfsite-router" {
		t.Fatalf("ResourceName app-resource: %q", got)
	}
}
