package pdfsite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/jsii-runtime-go"
)

// invalidateAll is the invalidation issued after every upload.
const invalidateAll = "/*"

// newDeployment uploads AssetDir into the bucket and invalidates every cached path.
func newDeployment(stack awscdk.Stack, bucket awss3.Bucket, distribution awscloudfront.Distribution, cfg SiteConfig) awss3deployment.BucketDeployment {
	return awss3deployment.NewBucketDeployment(stack, jsii.String("DeployPDF"), &awss3deployment.BucketDeploymentProps{
		Sources: &[]awss3deployment.ISource{
			awss3deployment.Source_Asset(jsii.String(cfg.AssetDir), nil),
		},
		DestinationBucket: bucket,
		Distribution:      distribution,
		DistributionPaths: jsii.Strings(invalidateAll),
		Prune:             jsii.Bool(!cfg.DisablePrune),
	})
}
