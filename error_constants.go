package pdfsite

const (
	ErrorCodeInvalidConfig = "site.invalid_config"
	ErrorCodeInvalidAssets = "site.invalid_assets"
	ErrorCodeUnresolvedEnv = "site.unresolved_env"
	ErrorCodeSynthesis     = "site.synthesis"
)

const (
	errorMessageDomainRequired  = "domain name is required"
	errorMessageDomainInvalid   = "domain name is not a valid host name"
	errorMessageSubdomain       = "site subdomain is not a valid host name prefix"
	errorMessageAccountRequired = "account is required"
	errorMessageAccountInvalid  = "account must be a 12 digit AWS account id"
	errorMessageRegionRequired  = "region is required"
	errorMessageRegionInvalid   = "region is not a valid AWS region name"
	errorMessageDocument        = "document must be a relative UTF-8 file name without .. segments"
	errorMessagePriceClass      = "price class must be one of 100, 200, all"
	errorMessageAssetDir        = "asset directory is required"
)
