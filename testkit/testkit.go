// Package testkit holds deterministic fixtures for declaring and inspecting sites in tests.
package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/pdfsite"
)

const (
	Account      = "123456789012"
	Region       = "us-east-1"
	DomainName   = "example.com"
	HostedZoneID = "Z0123456789EXAMPLE"
)

// MinimalPDF is a tiny document with a valid PDF header.
var MinimalPDF = []byte("%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n" +
	"2 0 obj<</Type/Pages/Kids[]/Count 0>>endobj\ntrailer<</Root 1 0 R>>\n%%EOF\n")

// WriteAssets writes files (relative path to content) into a fresh temporary directory.
func WriteAssets(t testing.TB, files map[string][]byte) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("create asset dir: %v", err)
		}
		if err := os.WriteFile(target, content, 0o600); err != nil {
			t.Fatalf("write asset %s: %v", name, err)
		}
	}
	return dir
}

// PDFAssets is an asset directory holding only index.pdf.
func PDFAssets(t testing.TB) string {
	t.Helper()
	return WriteAssets(t, map[string][]byte{"index.pdf": MinimalPDF})
}

// Config returns a valid us-east-1 site config with an imported hosted zone and a
// temporary asset directory. mutate runs before defaults are applied.
func Config(t testing.TB, mutate ...func(*pdfsite.SiteConfig)) pdfsite.SiteConfig {
	t.Helper()

	cfg := pdfsite.SiteConfig{
		DomainName:   DomainName,
		HostedZoneID: HostedZoneID,
		Account:      Account,
		Region:       Region,
		AssetDir:     PDFAssets(t),
	}
	for _, fn := range mutate {
		if fn != nil {
			fn(&cfg)
		}
	}
	return cfg
}

// NewApp returns a CDK app writing into a per-test output directory.
func NewApp(t testing.TB, context map[string]any) awscdk.App {
	t.Helper()

	props := &awscdk.AppProps{Outdir: jsii.String(t.TempDir())}
	if len(context) > 0 {
		ctx := make(map[string]any, len(context))
		for k, v := range context {
			ctx[k] = v
		}
		props.Context = &ctx
	}
	return awscdk.NewApp(props)
}

// HostedZoneLookup is the context entry that satisfies a hosted zone lookup without AWS calls.
func HostedZoneLookup(account, region, domainName, zoneID string) map[string]any {
	key := fmt.Sprintf("hosted-zone:account=%s:domainName=%s:region=%s", account, domainName, region)
	return map[string]any{
		key: map[string]any{
			"Id":   "/hostedzone/" + zoneID,
			"Name": domainName + ".",
		},
	}
}

// Template synthesizes stack and returns its assertion template.
func Template(stack awscdk.Stack) assertions.Template {
	return assertions.Template_FromStack(stack, nil)
}

// ManualIDGenerator is a deterministic, predictable ID generator for tests.
type ManualIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int64
	queue  []string
}

func NewManualIDGenerator() *ManualIDGenerator {
	return &ManualIDGenerator{prefix: "test-run", next: 1}
}

func (g *ManualIDGenerator) Queue(ids ...string) {
	g.mu.Lock()
	g.queue = append(g.queue, ids...)
	g.mu.Unlock()
}

func (g *ManualIDGenerator) Reset() {
	g.mu.Lock()
	g.queue = nil
	g.next = 1
	g.mu.Unlock()
}

func (g *ManualIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.queue) > 0 {
		out := g.queue[0]
		g.queue = g.queue[1:]
		return out
	}

	out := fmt.Sprintf("%s-%s", g.prefix, strconv.FormatInt(g.next, 10))
	g.next++
	return out
}
