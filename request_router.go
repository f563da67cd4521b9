package pdfsite

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/pdfsite/pkg/edge"
	"github.com/theory-cloud/pdfsite/pkg/naming"
)

// CloudFront Function names are account-global and limited to 64 characters.
const maxFunctionNameLength = 64

func newRequestRouter(stack awscdk.Stack, cfg SiteConfig) awscloudfront.Function {
	return awscloudfront.NewFunction(stack, jsii.String("RedirectToPDF"), &awscloudfront.FunctionProps{
		FunctionName: jsii.String(routerFunctionName(cfg)),
		Code:         awscloudfront.FunctionCode_FromInline(jsii.String(edge.FunctionCode(cfg.Document))),
		Runtime:      awscloudfront.FunctionRuntime_JS_2_0(),
		Comment:      jsii.String("Rewrites every viewer request to " + cfg.DocumentPath()),
	})
}

// routerFunctionName is <app>-<full domain>-redirect-<stage>, so sites sharing an
// account get distinct functions.
func routerFunctionName(cfg SiteConfig) string {
	name := naming.ResourceName(cfg.AppName, cfg.FullDomain()+"-redirect", cfg.Stage)
	if len(name) > maxFunctionNameLength {
		name = strings.TrimRight(name[:maxFunctionNameLength], "-")
	}
	return name
}
