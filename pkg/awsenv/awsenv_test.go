package awsenv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/require"

	"github.com/theory-cloud/pdfsite"
)

type fakeIdentity struct {
	calls   int
	account *string
	err     error
}

func (f *fakeIdentity) GetCallerIdentity(
	_ context.Context,
	_ *sts.GetCallerIdentityInput,
	_ ...func(*sts.Options),
) (*sts.GetCallerIdentityOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: f.account}, nil
}

// isolate points the SDK at empty shared config files and clears region variables.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
}

func staticCredentials() Option {
	return WithCredentials(credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""))
}

func TestResolve_ReturnsConfiguredValues(t *testing.T) {
	fake := &fakeIdentity{err: errors.New("must not be called")}

	env, err := Resolve(context.Background(), " 123456789012 ", "EU-WEST-1", WithIdentityAPI(fake))
	require.NoError(t, err)
	require.Equal(t, Env{Account: "123456789012", Region: "eu-west-1"}, env)
	require.Zero(t, fake.calls)
}

func TestResolve_RegionFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("AWS_REGION", "ap-southeast-2")

	env, err := Resolve(context.Background(), "123456789012", "", staticCredentials())
	require.NoError(t, err)
	require.Equal(t, "ap-southeast-2", env.Region)
}

func TestResolve_AccountFromIdentity(t *testing.T) {
	fake := &fakeIdentity{account: aws.String("210987654321")}

	env, err := Resolve(context.Background(), "", "us-east-1", WithIdentityAPI(fake), WithAWSConfig(aws.Config{}))
	require.NoError(t, err)
	require.Equal(t, "210987654321", env.Account)
	require.Equal(t, 1, fake.calls)
}

func TestResolve_AWSConfigRegion(t *testing.T) {
	fake := &fakeIdentity{account: aws.String("210987654321")}

	env, err := Resolve(context.Background(), "", "", WithIdentityAPI(fake), WithAWSConfig(aws.Config{Region: "ca-central-1"}))
	require.NoError(t, err)
	require.Equal(t, Env{Account: "210987654321", Region: "ca-central-1"}, env)
}

func TestResolve_Failures(t *testing.T) {
	isolate(t)

	_, err := Resolve(context.Background(), "123456789012", "", staticCredentials(), WithProfile(""))
	require.Equal(t, pdfsite.ErrorCodeUnresolvedEnv, pdfsite.ErrorCode(err))

	cause := errors.New("expired token")
	_, err = Resolve(context.Background(), "", "us-east-1", WithIdentityAPI(&fakeIdentity{err: cause}), WithAWSConfig(aws.Config{}))
	require.Equal(t, pdfsite.ErrorCodeUnresolvedEnv, pdfsite.ErrorCode(err))
	require.ErrorIs(t, err, cause)

	_, err = Resolve(context.Background(), "", "us-east-1", WithIdentityAPI(&fakeIdentity{}), WithAWSConfig(aws.Config{}))
	require.Equal(t, pdfsite.ErrorCodeUnresolvedEnv, pdfsite.ErrorCode(err))

	_, err = Resolve(context.Background(), "", "", WithProfile("missing-profile"), staticCredentials())
	require.Equal(t, pdfsite.ErrorCodeUnresolvedEnv, pdfsite.ErrorCode(err))
}
