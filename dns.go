package pdfsite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/jsii-runtime-go"
)

// newAliasRecords points the full domain at the distribution. An AAAA alias is added
// while the distribution serves IPv6.
func newAliasRecords(stack awscdk.Stack, zone awsroute53.IHostedZone, distribution awscloudfront.Distribution, cfg SiteConfig) []awsroute53.RecordSet {
	target := awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(distribution))

	records := []awsroute53.RecordSet{
		awsroute53.NewARecord(stack, jsii.String("AliasRecord"), &awsroute53.ARecordProps{
			Zone:       zone,
			RecordName: jsii.String(cfg.FullDomain()),
			Target:     target,
		}),
	}
	if !cfg.DisableIPv6 {
		records = append(records, awsroute53.NewAaaaRecord(stack, jsii.String("AliasRecordIPv6"), &awsroute53.AaaaRecordProps{
			Zone:       zone,
			RecordName: jsii.String(cfg.FullDomain()),
			Target:     target,
		}))
	}
	return records
}
