package pdfsite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSiteError_FormatsAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := newSiteError(ErrorCodeInvalidAssets, "asset check failed", cause)

	require.Equal(t, "site.invalid_assets: asset check failed: boom", err.Error())
	require.ErrorIs(t, err, cause)

	bare := newSiteError(ErrorCodeInvalidConfig, errorMessageDomainRequired, nil)
	require.Equal(t, "site.invalid_config: domain name is required", bare.Error())
	require.Nil(t, bare.Unwrap())
}

func TestErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("declare: %w", newSiteError(ErrorCodeUnresolvedEnv, "no region", nil))
	require.Equal(t, ErrorCodeUnresolvedEnv, ErrorCode(wrapped))
	require.Equal(t, "", ErrorCode(errors.New("plain")))
	require.Equal(t, "", ErrorCode(nil))
}
