package pdfsite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

func addOutputs(stack awscdk.Stack, site *Site, cfg SiteConfig) {
	awscdk.NewCfnOutput(stack, jsii.String("SiteURL"), &awscdk.CfnOutputProps{
		Value:       jsii.String("https://" + cfg.FullDomain()),
		Description: jsii.String("Public URL of the document"),
	})
	awscdk.NewCfnOutput(stack, jsii.String("DistributionId"), &awscdk.CfnOutputProps{
		Value: site.Distribution.DistributionId(),
	})
	awscdk.NewCfnOutput(stack, jsii.String("DistributionDomainName"), &awscdk.CfnOutputProps{
		Value: site.Distribution.DistributionDomainName(),
	})
	awscdk.NewCfnOutput(stack, jsii.String("BucketName"), &awscdk.CfnOutputProps{
		Value: site.Bucket.BucketName(),
	})
}
