package pdfsite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/jsii-runtime-go"
)

var priceClasses = map[string]awscloudfront.PriceClass{
	"100": awscloudfront.PriceClass_PRICE_CLASS_100,
	"200": awscloudfront.PriceClass_PRICE_CLASS_200,
	"all": awscloudfront.PriceClass_PRICE_CLASS_ALL,
}

// newDistribution declares the edge distribution. The router runs at viewer-request,
// before the cache lookup, so every path shares one cache key. The default root object
// covers the bare-path request as well.
func newDistribution(stack awscdk.Stack, site *Site, cfg SiteConfig) awscloudfront.Distribution {
	return awscloudfront.NewDistribution(stack, jsii.String("SiteDistribution"), &awscloudfront.DistributionProps{
		Comment: jsii.String(cfg.FullDomain()),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(site.Bucket, nil),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD(),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_OPTIMIZED(),
			Compress:             jsii.Bool(true),
			FunctionAssociations: &[]*awscloudfront.FunctionAssociation{
				{
					EventType: awscloudfront.FunctionEventType_VIEWER_REQUEST,
					Function:  site.Router,
				},
			},
		},
		DefaultRootObject:      jsii.String(cfg.Document),
		DomainNames:            jsii.Strings(cfg.FullDomain()),
		Certificate:            site.Certificate,
		MinimumProtocolVersion: awscloudfront.SecurityPolicyProtocol_TLS_V1_2_2021,
		HttpVersion:            awscloudfront.HttpVersion_HTTP2_AND_3,
		EnableIpv6:             jsii.Bool(!cfg.DisableIPv6),
		PriceClass:             priceClasses[cfg.PriceClass],
	})
}
