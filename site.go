// Package pdfsite declares the infrastructure that serves a single PDF over HTTPS at a
// custom domain: an S3 origin, a CloudFront distribution with a viewer-request rewrite,
// a DNS-validated ACM certificate, Route 53 alias records and a one-shot bucket
// deployment that invalidates the distribution.
package pdfsite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/pdfsite/pkg/assets"
	"github.com/theory-cloud/pdfsite/pkg/logger"
	"github.com/theory-cloud/pdfsite/pkg/observability"
)

const projectTag = "pdfsite"

// Site holds the constructs declared for one site.
type Site struct {
	Config SiteConfig

	Stack            awscdk.Stack
	CertificateStack awscdk.Stack

	Zone         awsroute53.IHostedZone
	Bucket       awss3.Bucket
	Certificate  awscertificatemanager.ICertificate
	Router       awscloudfront.Function
	Distribution awscloudfront.Distribution
	AliasRecords []awsroute53.RecordSet
	Deployment   awss3deployment.BucketDeployment

	// Manifest is empty when the asset check was skipped.
	Manifest assets.Manifest
}

type Option func(*siteOptions)

type siteOptions struct {
	logger         observability.StructuredLogger
	skipAssetCheck bool
}

// WithLogger sets the logger used while declaring the site. Without it the global
// logger from pkg/logger is used.
func WithLogger(next observability.StructuredLogger) Option {
	return func(opts *siteOptions) {
		if next == nil {
			opts.logger = observability.NewNoOpLogger()
			return
		}
		opts.logger = next
	}
}

// WithoutAssetCheck skips the local asset preflight. The deployment still stages AssetDir.
func WithoutAssetCheck() Option {
	return func(opts *siteOptions) {
		opts.skipAssetCheck = true
	}
}

// NewSite declares the site stack (and, outside us-east-1, its certificate stack) under scope.
//
// An empty id uses cfg.StackID(). Configuration and asset problems are returned as
// *SiteError before any construct is created.
func NewSite(scope constructs.Construct, id string, cfg SiteConfig, opts ...Option) (*Site, error) {
	options := &siteOptions{logger: logger.Logger()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(options)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		id = cfg.StackID()
	}
	log := options.logger.WithStack(id)

	site := &Site{Config: cfg}
	if !options.skipAssetCheck {
		manifest, err := assets.Check(cfg.AssetDir, cfg.Document)
		if err != nil {
			return nil, newSiteError(ErrorCodeInvalidAssets, "asset check failed", err)
		}
		site.Manifest = manifest
		if !manifest.DocumentIsPDF {
			log.Warn("document does not start with a PDF header", map[string]any{
				"document": cfg.Document,
			})
		}
		log.Debug("assets checked", map[string]any{
			"asset_dir": cfg.AssetDir,
			"files":     len(manifest.Files),
			"bytes":     manifest.TotalSize(),
		})
	}

	site.Stack = awscdk.NewStack(scope, jsii.String(id), &awscdk.StackProps{
		StackName:             jsii.String(id),
		Description:           jsii.String("Serves " + cfg.DocumentPath() + " at https://" + cfg.FullDomain()),
		Env:                   environment(cfg.Account, cfg.Region),
		CrossRegionReferences: jsii.Bool(cfg.NeedsCertificateStack()),
	})
	tagStack(site.Stack, cfg)
	site.Zone = hostedZone(site.Stack, cfg)

	if cfg.NeedsCertificateStack() {
		certID := id + "-certificate"
		site.CertificateStack = awscdk.NewStack(scope, jsii.String(certID), &awscdk.StackProps{
			StackName:             jsii.String(certID),
			Description:           jsii.String("Edge certificate for " + cfg.FullDomain()),
			Env:                   environment(cfg.Account, EdgeCertificateRegion),
			CrossRegionReferences: jsii.Bool(true),
		})
		tagStack(site.CertificateStack, cfg)
		site.Certificate = newEdgeCertificate(site.CertificateStack, hostedZone(site.CertificateStack, cfg), cfg)
		site.Stack.AddDependency(site.CertificateStack, jsii.String("edge certificate is issued in "+EdgeCertificateRegion))
		log.Info("edge certificate placed in its own stack", map[string]any{
			"certificate_stack": certID,
			"region":            cfg.Region,
		})
	} else {
		site.Certificate = newEdgeCertificate(site.Stack, site.Zone, cfg)
	}

	site.Bucket = newOriginBucket(site.Stack)
	site.Router = newRequestRouter(site.Stack, cfg)
	site.Distribution = newDistribution(site.Stack, site, cfg)
	site.AliasRecords = newAliasRecords(site.Stack, site.Zone, site.Distribution, cfg)
	site.Deployment = newDeployment(site.Stack, site.Bucket, site.Distribution, cfg)
	addOutputs(site.Stack, site, cfg)

	log.Info("site declared", map[string]any{
		"full_domain": cfg.FullDomain(),
		"document":    cfg.DocumentPath(),
		"region":      cfg.Region,
		"ipv6":        !cfg.DisableIPv6,
	})
	return site, nil
}

// Stacks returns the declared stacks in deployment order.
func (s *Site) Stacks() []awscdk.Stack {
	if s.CertificateStack != nil {
		return []awscdk.Stack{s.CertificateStack, s.Stack}
	}
	return []awscdk.Stack{s.Stack}
}

func environment(account, region string) *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(account),
		Region:  jsii.String(region),
	}
}

func tagStack(stack awscdk.Stack, cfg SiteConfig) {
	tags := awscdk.Tags_Of(stack)
	tags.Add(jsii.String("Project"), jsii.String(projectTag), nil)
	tags.Add(jsii.String("Site"), jsii.String(cfg.FullDomain()), nil)
	if cfg.Stage != "" {
		tags.Add(jsii.String("Stage"), jsii.String(cfg.Stage), nil)
	}
}

// hostedZone imports the zone by id when one is configured and looks it up by name otherwise.
func hostedZone(stack awscdk.Stack, cfg SiteConfig) awsroute53.IHostedZone {
	if cfg.HostedZoneID != "" {
		return awsroute53.HostedZone_FromHostedZoneAttributes(stack, jsii.String("HostedZone"), &awsroute53.HostedZoneAttributes{
			HostedZoneId: jsii.String(cfg.HostedZoneID),
			ZoneName:     jsii.String(cfg.DomainName),
		})
	}
	return awsroute53.HostedZone_FromLookup(stack, jsii.String("HostedZone"), &awsroute53.HostedZoneProviderProps{
		DomainName: jsii.String(cfg.DomainName),
	})
}
