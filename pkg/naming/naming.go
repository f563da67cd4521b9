package naming

import (
	"regexp"
	"strings"
)

var (
	nonAlnum    = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDash   = regexp.MustCompile(`-+`)
	dnsLabel    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	nonStackRun = regexp.MustCompile(`[^A-Za-z0-9-]+`)
)

const maxDomainLength = 253

func sanitizePart(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "_", "-")
	value = strings.ReplaceAll(value, " ", "-")
	value = nonAlnum.ReplaceAllString(value, "-")
	value = multiDash.ReplaceAllString(value, "-")
	value = strings.Trim(value, "-")
	return value
}

// NormalizeStage maps stage aliases to canonical values.
//
// Canonical stages are lowercased and safe for stack names and tag values.
func NormalizeStage(stage string) string {
	stage = sanitizePart(stage)
	switch stage {
	case "prod", "production", "live":
		return "live"
	case "dev", "development":
		return "dev"
	case "stg", "stage", "staging":
		return "stage"
	case "test", "testing":
		return "test"
	default:
		return stage
	}
}

// NormalizeDomain lowercases a domain and strips surrounding whitespace and dots.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.Trim(domain, ".")
}

// FullDomain joins a site subdomain and an apex domain with exactly one dot.
//
// An empty subdomain yields the apex domain itself.
func FullDomain(subdomain, domain string) string {
	subdomain = NormalizeDomain(subdomain)
	domain = NormalizeDomain(domain)
	switch {
	case subdomain == "":
		return domain
	case domain == "":
		return subdomain
	default:
		return subdomain + "." + domain
	}
}

// ValidDomain reports whether name is a syntactically valid DNS host name.
func ValidDomain(name string) bool {
	if name == "" || len(name) > maxDomainLength {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if !dnsLabel.MatchString(label) {
			return false
		}
	}
	return true
}

// ValidLabel reports whether label is a single valid DNS label.
func ValidLabel(label string) bool {
	return dnsLabel.MatchString(label)
}

// StackName returns a deterministic CloudFormation stack name:
// - <App>
// - <App>-<stage> (when stage is provided)
func StackName(appName, stage string) string {
	app := nonStackRun.ReplaceAllString(strings.TrimSpace(appName), "-")
	app = strings.Trim(multiDash.ReplaceAllString(app, "-"), "-")
	stage = NormalizeStage(stage)
	if stage == "" {
		return app
	}
	return app + "-" + stage
}

// ResourceName returns a deterministic resource name:
// - <app>-<resource>-<stage>
func ResourceName(appName, resource, stage string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{sanitizePart(appName), sanitizePart(resource), NormalizeStage(stage)} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "-")
}
