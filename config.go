package pdfsite

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/theory-cloud/pdfsite/pkg/edge"
	"github.com/theory-cloud/pdfsite/pkg/naming"
	"github.com/theory-cloud/pdfsite/pkg/observability"
)

const (
	DefaultAppName       = "PdfSite"
	DefaultSiteSubdomain = "www"
	DefaultAssetDir      = "./site-contents"
	DefaultPriceClass    = "100"

	// EdgeCertificateRegion is the only region CloudFront accepts viewer certificates from.
	EdgeCertificateRegion = "us-east-1"

	// ApexSubdomain selects the apex domain itself as the site host.
	ApexSubdomain = "@"
)

var (
	accountPattern = regexp.MustCompile(`^[0-9]{12}$`)
	regionPattern  = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-[0-9]$`)
)

// SiteConfig is everything needed to declare a site. Identifying values (domain, account)
// have no defaults and must be supplied.
type SiteConfig struct {
	AppName   string `json:"app_name" yaml:"app_name" mapstructure:"app_name"`
	StackName string `json:"stack_name" yaml:"stack_name" mapstructure:"stack_name"`
	Stage     string `json:"stage" yaml:"stage" mapstructure:"stage"`

	DomainName    string `json:"domain_name" yaml:"domain_name" mapstructure:"domain_name"`
	SiteSubdomain string `json:"site_subdomain" yaml:"site_subdomain" mapstructure:"site_subdomain"`
	HostedZoneID  string `json:"hosted_zone_id" yaml:"hosted_zone_id" mapstructure:"hosted_zone_id"`

	Account string `json:"account" yaml:"account" mapstructure:"account"`
	Region  string `json:"region" yaml:"region" mapstructure:"region"`

	AssetDir string `json:"asset_dir" yaml:"asset_dir" mapstructure:"asset_dir"`
	Document string `json:"document" yaml:"document" mapstructure:"document"`

	PriceClass   string `json:"price_class" yaml:"price_class" mapstructure:"price_class"`
	DisableIPv6  bool   `json:"disable_ipv6" yaml:"disable_ipv6" mapstructure:"disable_ipv6"`
	DisablePrune bool   `json:"disable_prune" yaml:"disable_prune" mapstructure:"disable_prune"`

	Log observability.LoggerConfig `json:"log" yaml:"log" mapstructure:"log"`
}

// WithDefaults returns a copy of c with empty optional fields filled in.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.AppName = strings.TrimSpace(c.AppName)
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	c.Stage = naming.NormalizeStage(c.Stage)
	c.DomainName = naming.NormalizeDomain(c.DomainName)
	c.SiteSubdomain = strings.TrimSpace(c.SiteSubdomain)
	if c.SiteSubdomain == "" {
		c.SiteSubdomain = DefaultSiteSubdomain
	}
	c.HostedZoneID = strings.TrimSpace(c.HostedZoneID)
	c.Account = strings.TrimSpace(c.Account)
	c.Region = strings.ToLower(strings.TrimSpace(c.Region))
	c.AssetDir = strings.TrimSpace(c.AssetDir)
	if c.AssetDir == "" {
		c.AssetDir = DefaultAssetDir
	}
	c.Document = strings.TrimLeft(strings.TrimSpace(c.Document), "/")
	if c.Document == "" {
		c.Document = edge.DefaultDocument
	}
	c.PriceClass = strings.ToLower(strings.TrimSpace(c.PriceClass))
	if c.PriceClass == "" {
		c.PriceClass = DefaultPriceClass
	}
	return c
}

// FullDomain is the public host name: the site subdomain joined to the domain by a single dot.
func (c SiteConfig) FullDomain() string {
	sub := c.SiteSubdomain
	if strings.TrimSpace(sub) == ApexSubdomain {
		sub = ""
	}
	return naming.FullDomain(sub, c.DomainName)
}

// DocumentPath is the request path every viewer request is rewritten to.
func (c SiteConfig) DocumentPath() string {
	return edge.DocumentPath(c.Document)
}

// StackID is the construct id and stack name of the site stack.
func (c SiteConfig) StackID() string {
	if name := strings.TrimSpace(c.StackName); name != "" {
		return name
	}
	appName := c.AppName
	if strings.TrimSpace(appName) == "" {
		appName = DefaultAppName
	}
	return naming.StackName(appName, c.Stage)
}

// NeedsCertificateStack reports whether the edge certificate must live in its own
// us-east-1 stack.
func (c SiteConfig) NeedsCertificateStack() bool {
	return c.Region != EdgeCertificateRegion
}

// Validate checks c after defaults have been applied.
func (c SiteConfig) Validate() error {
	switch {
	case c.DomainName == "":
		return newSiteError(ErrorCodeInvalidConfig, errorMessageDomainRequired, nil)
	case !naming.ValidDomain(c.DomainName):
		return newSiteError(ErrorCodeInvalidConfig, errorMessageDomainInvalid+": "+c.DomainName, nil)
	case c.SiteSubdomain != ApexSubdomain && !validSubdomain(c.SiteSubdomain):
		return newSiteError(ErrorCodeInvalidConfig, errorMessageSubdomain+": "+c.SiteSubdomain, nil)
	case !naming.ValidDomain(c.FullDomain()):
		return newSiteError(ErrorCodeInvalidConfig, errorMessageDomainInvalid+": "+c.FullDomain(), nil)
	case c.Account == "":
		return newSiteError(ErrorCodeInvalidConfig, errorMessageAccountRequired, nil)
	case !accountPattern.MatchString(c.Account):
		return newSiteError(ErrorCodeInvalidConfig, errorMessageAccountInvalid, nil)
	case c.Region == "":
		return newSiteError(ErrorCodeInvalidConfig, errorMessageRegionRequired, nil)
	case !regionPattern.MatchString(c.Region):
		return newSiteError(ErrorCodeInvalidConfig, errorMessageRegionInvalid+": "+c.Region, nil)
	case c.AssetDir == "":
		return newSiteError(ErrorCodeInvalidConfig, errorMessageAssetDir, nil)
	case !validDocument(c.Document):
		return newSiteError(ErrorCodeInvalidConfig, errorMessageDocument+": "+c.Document, nil)
	}
	if _, ok := priceClasses[c.PriceClass]; !ok {
		return newSiteError(ErrorCodeInvalidConfig, errorMessagePriceClass, nil)
	}
	return nil
}

func validSubdomain(sub string) bool {
	sub = naming.NormalizeDomain(sub)
	if sub == "" {
		return false
	}
	for _, label := range strings.Split(sub, ".") {
		if !naming.ValidLabel(label) {
			return false
		}
	}
	return true
}

func validDocument(document string) bool {
	if document == "" || !utf8.ValidString(document) || strings.ContainsAny(document, "\\\x00") {
		return false
	}
	for _, segment := range strings.Split(document, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return path.Clean(document) == document
}
