package pdfsite

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/jsii-runtime-go"
)

// newEdgeCertificate declares the DNS-validated certificate for the full domain.
// stack must be in us-east-1.
func newEdgeCertificate(stack awscdk.Stack, zone awsroute53.IHostedZone, cfg SiteConfig) awscertificatemanager.Certificate {
	return awscertificatemanager.NewCertificate(stack, jsii.String("SiteCert"), &awscertificatemanager.CertificateProps{
		DomainName: jsii.String(cfg.FullDomain()),
		Validation: awscertificatemanager.CertificateValidation_FromDns(zone),
	})
}
