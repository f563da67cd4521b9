package testkit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/theory-cloud/pdfsite"
	"github.com/theory-cloud/pdfsite/pkg/assets"
	"github.com/theory-cloud/pdfsite/testkit"
)

func TestPDFAssetsPassesAssetCheck(t *testing.T) {
	dir := testkit.PDFAssets(t)

	manifest, err := assets.Check(dir, "index.pdf")
	require.NoError(t, err)
	require.True(t, manifest.DocumentIsPDF)
	require.Len(t, manifest.Files, 1)
}

func TestWriteAssetsCreatesNestedFiles(t *testing.T) {
	dir := testkit.WriteAssets(t, map[string][]byte{
		"docs/guide.pdf": testkit.MinimalPDF,
		"robots.txt":     []byte("User-agent: *\n"),
	})

	content, err := os.ReadFile(filepath.Join(dir, "docs", "guide.pdf"))
	require.NoError(t, err)
	require.Equal(t, testkit.MinimalPDF, content)
	require.FileExists(t, filepath.Join(dir, "robots.txt"))
}

func TestConfigIsValidAndMutable(t *testing.T) {
	cfg := testkit.Config(t, func(c *pdfsite.SiteConfig) {
		c.SiteSubdomain = "cv"
	})

	require.Equal(t, "cv", cfg.SiteSubdomain)
	require.NoError(t, cfg.WithDefaults().Validate())
	require.Equal(t, "cv.example.com", cfg.WithDefaults().FullDomain())
}

func TestHostedZoneLookupKey(t *testing.T) {
	ctx := testkit.HostedZoneLookup("111111111111", "eu-west-1", "example.org", "ZABC")

	value, ok := ctx["hosted-zone:account=111111111111:domainName=example.org:region=eu-west-1"]
	require.True(t, ok)
	require.Equal(t, map[string]any{"Id": "/hostedzone/ZABC", "Name": "example.org."}, value)
}

func TestManualIDGenerator(t *testing.T) {
	ids := testkit.NewManualIDGenerator()
	require.Equal(t, "test-run-1", ids.NewID())

	ids.Queue("a", "b")
	require.Equal(t, "a", ids.NewID())
	require.Equal(t, "b", ids.NewID())
	require.Equal(t, "test-run-2", ids.NewID())

	ids.Reset()
	require.Equal(t, "test-run-1", ids.NewID())
}
