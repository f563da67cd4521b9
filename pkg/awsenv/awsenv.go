// Package awsenv fills in the deploy account and region from the caller's AWS credentials
// when configuration leaves them empty.
package awsenv

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/theory-cloud/pdfsite"
)

// Env is a concrete deploy target.
type Env struct {
	Account string `json:"account"`
	Region  string `json:"region"`
}

// IdentityAPI is the STS subset used to discover the caller's account.
type IdentityAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

type resolveOptions struct {
	identity IdentityAPI
	awsCfg   *aws.Config
	loadOpts []func(*awsconfig.LoadOptions) error
}

type Option func(*resolveOptions)

// WithIdentityAPI replaces the STS client.
func WithIdentityAPI(api IdentityAPI) Option {
	return func(opts *resolveOptions) {
		opts.identity = api
	}
}

// WithAWSConfig uses cfg instead of loading the shared config.
func WithAWSConfig(cfg aws.Config) Option {
	return func(opts *resolveOptions) {
		cfgCopy := cfg
		opts.awsCfg = &cfgCopy
	}
}

// WithProfile selects a named profile from the shared config files.
func WithProfile(profile string) Option {
	return func(opts *resolveOptions) {
		profile = strings.TrimSpace(profile)
		if profile == "" {
			return
		}
		opts.loadOpts = append(opts.loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
}

// WithCredentials overrides the default credential chain.
func WithCredentials(provider aws.CredentialsProvider) Option {
	return func(opts *resolveOptions) {
		if provider == nil {
			return
		}
		opts.loadOpts = append(opts.loadOpts, awsconfig.WithCredentialsProvider(provider))
	}
}

// Resolve returns account and region unchanged when both are set. Otherwise a missing
// region comes from the AWS shared config and environment, and a missing account from
// STS GetCallerIdentity. Failures carry the site.unresolved_env code.
func Resolve(ctx context.Context, account, region string, options ...Option) (Env, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	env := Env{Account: strings.TrimSpace(account), Region: strings.ToLower(strings.TrimSpace(region))}
	if env.Account != "" && env.Region != "" {
		return env, nil
	}

	opts := &resolveOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}

	var cfg aws.Config
	if opts.awsCfg != nil {
		cfg = *opts.awsCfg
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, opts.loadOpts...)
		if err != nil {
			return env, unresolved("load AWS config", err)
		}
		cfg = loaded
	}

	if env.Region == "" {
		env.Region = strings.ToLower(strings.TrimSpace(cfg.Region))
		if env.Region == "" {
			return env, unresolved("region is not configured", nil)
		}
	}

	if env.Account == "" {
		api := opts.identity
		if api == nil {
			cfg.Region = env.Region
			api = sts.NewFromConfig(cfg)
		}
		out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return env, unresolved("get caller identity", err)
		}
		if out == nil || strings.TrimSpace(aws.ToString(out.Account)) == "" {
			return env, unresolved("get caller identity", errors.New("awsenv: empty account in response"))
		}
		env.Account = strings.TrimSpace(aws.ToString(out.Account))
	}
	return env, nil
}

func unresolved(message string, err error) error {
	return &pdfsite.SiteError{
		Code:    pdfsite.ErrorCodeUnresolvedEnv,
		Message: message,
		Err:     err,
	}
}
