package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theory-cloud/pdfsite"
	"github.com/theory-cloud/pdfsite/testkit"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PDFSITE_CONFIG", "CDK_DEFAULT_ACCOUNT", "CDK_DEFAULT_REGION",
		"PDFSITE_DOMAIN_NAME", "PDFSITE_ACCOUNT", "PDFSITE_REGION", "PDFSITE_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func stubRunID(t *testing.T) {
	t.Helper()
	ids := testkit.NewManualIDGenerator()
	previous := newRunID
	newRunID = ids.NewID
	t.Cleanup(func() { newRunID = previous })
}

func TestSynth_DeclaresAndSynthesizesSite(t *testing.T) {
	clearEnv(t)
	stubRunID(t)

	app := testkit.NewApp(t, map[string]any{
		"domainName":   testkit.DomainName,
		"hostedZoneId": testkit.HostedZoneID,
		"account":      testkit.Account,
		"region":       testkit.Region,
		"assetDir":     testkit.PDFAssets(t),
		"logFormat":    "json",
		"logLevel":     "debug",
	})

	var out bytes.Buffer
	require.NoError(t, synth(context.Background(), app, &out))

	logs := out.String()
	require.Contains(t, logs, `"run_id":"test-run-1"`)
	require.Contains(t, logs, "configuration loaded")
	require.Contains(t, logs, "site declared")
	require.Contains(t, logs, "provisioning order")
	require.Contains(t, logs, `"full_domain":"www.example.com"`)
}

func TestSynth_RejectsMissingDomain(t *testing.T) {
	clearEnv(t)
	stubRunID(t)

	app := testkit.NewApp(t, map[string]any{
		"account":   testkit.Account,
		"region":    testkit.Region,
		"logFormat": "json",
	})

	var out bytes.Buffer
	err := synth(context.Background(), app, &out)
	require.Equal(t, pdfsite.ErrorCodeInvalidConfig, pdfsite.ErrorCode(err))
	require.Contains(t, out.String(), "site rejected")
}

func TestSynth_RejectsUnknownLogFormat(t *testing.T) {
	clearEnv(t)

	app := testkit.NewApp(t, map[string]any{"logFormat": "xml"})
	require.Error(t, synth(context.Background(), app, &bytes.Buffer{}))
}
