// Command pdfsite is the CDK app entry point. It reads configuration from CDK context,
// PDFSITE_* variables and pdfsite.yaml, declares the site and synthesizes it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/oklog/ulid/v2"

	"github.com/theory-cloud/pdfsite"
	"github.com/theory-cloud/pdfsite/pkg/awsenv"
	"github.com/theory-cloud/pdfsite/pkg/config"
	"github.com/theory-cloud/pdfsite/pkg/logger"
	zaplog "github.com/theory-cloud/pdfsite/pkg/observability/zap"
)

var newRunID = func() string {
	return ulid.Make().String()
}

func main() {
	os.Exit(run())
}

func run() int {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	if err := synth(context.Background(), app, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pdfsite: FAIL: %v\n", err)
		return 1
	}
	return 0
}

func synth(ctx context.Context, app awscdk.App, out io.Writer) error {
	cfg, err := config.Load(config.WithContext(func(key string) any {
		return app.Node().TryGetContext(jsii.String(key))
	}))
	if err != nil {
		return err
	}

	log, err := zaplog.NewZapLogger(cfg.Log, zaplog.WithOutput(out))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	log = log.WithRunID(newRunID())
	logger.SetLogger(log)
	defer func() {
		_ = log.Flush(ctx)
		logger.SetLogger(nil)
	}()

	env, err := awsenv.Resolve(ctx, cfg.Account, cfg.Region)
	if err != nil {
		log.Error("deploy environment unresolved", map[string]any{"error": err.Error()})
		return err
	}
	cfg.Account, cfg.Region = env.Account, env.Region
	log.Info("configuration loaded", config.Describe(cfg))

	site, err := pdfsite.NewSite(app, "", cfg)
	if err != nil {
		log.Error("site rejected", map[string]any{
			"code":  pdfsite.ErrorCode(err),
			"error": err.Error(),
		})
		return err
	}

	plans, err := site.Plans(app.Synth(nil))
	if err != nil {
		return err
	}
	for _, plan := range plans {
		order := make([]string, 0, len(plan.Steps))
		for _, step := range plan.Steps {
			order = append(order, step.ID)
		}
		log.Debug("provisioning order", map[string]any{
			"stack":     plan.Stack,
			"resources": len(plan.Steps),
			"order":     order,
		})
	}
	log.Info("synthesized", map[string]any{"stacks": len(plans)})
	return nil
}
