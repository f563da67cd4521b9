// Package config loads a pdfsite.SiteConfig from CDK context, the environment and an
// optional YAML file.
//
// Precedence, highest first: CDK context, PDFSITE_* environment variables (account and
// region also fall back to CDK_DEFAULT_ACCOUNT and CDK_DEFAULT_REGION), the YAML file,
// then defaults.
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/pdfsite"
)

const (
	EnvPrefix = "PDFSITE"

	// ConfigFileEnv names an explicit config file. A missing explicit file is an error.
	ConfigFileEnv = "PDFSITE_CONFIG"

	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "pdfsite.yaml"
)

// contextKeys maps config keys to the CDK context keys that override them.
var contextKeys = map[string]string{
	"app_name":         "appName",
	"stack_name":       "stackName",
	"stage":            "stage",
	"domain_name":      "domainName",
	"site_subdomain":   "siteSubdomain",
	"hosted_zone_id":   "hostedZoneId",
	"account":          "account",
	"region":           "region",
	"asset_dir":        "assetDir",
	"document":         "document",
	"price_class":      "priceClass",
	"disable_ipv6":     "disableIpv6",
	"disable_prune":    "disablePrune",
	"log.format":       "logFormat",
	"log.level":        "logLevel",
	"log.enable_stack": "logEnableStack",
}

var envFallbacks = map[string][]string{
	"account": {"PDFSITE_ACCOUNT", "CDK_DEFAULT_ACCOUNT"},
	"region":  {"PDFSITE_REGION", "CDK_DEFAULT_REGION"},
}

var extraKeys = []string{"log.enable_caller"}

type LoadOption func(*loadOptions)

type loadOptions struct {
	context    func(key string) any
	configFile string
}

// WithContext reads overrides from a CDK context lookup such as Node().TryGetContext.
func WithContext(lookup func(key string) any) LoadOption {
	return func(opts *loadOptions) {
		opts.context = lookup
	}
}

// WithConfigFile reads path instead of PDFSITE_CONFIG or pdfsite.yaml. The file must exist.
func WithConfigFile(path string) LoadOption {
	return func(opts *loadOptions) {
		opts.configFile = strings.TrimSpace(path)
	}
}

// Load merges every source into a SiteConfig. The result has defaults applied but is
// not validated; NewSite validates it.
func Load(opts ...LoadOption) (pdfsite.SiteConfig, error) {
	options := &loadOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return pdfsite.SiteConfig{}, invalid("bind environment", err)
	}

	path, strict := configFilePath(options.configFile)
	if err := mergeFile(v, path, strict); err != nil {
		return pdfsite.SiteConfig{}, err
	}

	if options.context != nil {
		for key, contextKey := range contextKeys {
			value := options.context(contextKey)
			if value == nil {
				continue
			}
			if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
			v.Set(key, value)
		}
	}

	var cfg pdfsite.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return pdfsite.SiteConfig{}, invalid("decode configuration", err)
	}
	return cfg.WithDefaults(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", pdfsite.DefaultAppName)
	v.SetDefault("site_subdomain", pdfsite.DefaultSiteSubdomain)
	v.SetDefault("asset_dir", pdfsite.DefaultAssetDir)
	v.SetDefault("price_class", pdfsite.DefaultPriceClass)
	v.SetDefault("log.format", "console")
	v.SetDefault("log.level", "info")
}

// bindEnv registers every key so Unmarshal sees values that only exist in the environment.
func bindEnv(v *viper.Viper) error {
	keys := make([]string, 0, len(contextKeys)+len(extraKeys))
	for key := range contextKeys {
		keys = append(keys, key)
	}
	keys = append(keys, extraKeys...)

	for _, key := range keys {
		names := append([]string{key}, envFallbacks[key]...)
		if err := v.BindEnv(names...); err != nil {
			return err
		}
	}
	return nil
}

func configFilePath(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if fromEnv := strings.TrimSpace(os.Getenv(ConfigFileEnv)); fromEnv != "" {
		return fromEnv, true
	}
	return DefaultConfigFile, false
}

// mergeFile decodes the YAML file strictly and merges it under environment and context.
func mergeFile(v *viper.Viper, path string, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !strict {
			return nil
		}
		return invalid("read config file "+path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var typed pdfsite.SiteConfig
	if err := dec.Decode(&typed); err != nil {
		return invalid("parse config file "+path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return invalid("parse config file "+path, err)
	}
	keepNumbersAsText(&doc)
	var raw map[string]any
	if err := doc.Decode(&raw); err != nil {
		return invalid("parse config file "+path, err)
	}
	if err := v.MergeConfigMap(raw); err != nil {
		return invalid("merge config file "+path, err)
	}
	return nil
}

// keepNumbersAsText retags numeric scalars as strings so values such as an account id
// with a leading zero reach viper exactly as written. Every numeric-looking field in a
// SiteConfig is a string.
func keepNumbersAsText(node *yaml.Node) {
	if node == nil {
		return
	}
	if node.Kind == yaml.ScalarNode && (node.Tag == "!!int" || node.Tag == "!!float") {
		node.Tag = "!!str"
		return
	}
	for _, child := range node.Content {
		keepNumbersAsText(child)
	}
}

func invalid(message string, err error) error {
	return &pdfsite.SiteError{
		Code:    pdfsite.ErrorCodeInvalidConfig,
		Message: message,
		Err:     err,
	}
}

// Describe renders the resolved values of cfg as log fields.
func Describe(cfg pdfsite.SiteConfig) map[string]any {
	return map[string]any{
		"app_name":    cfg.AppName,
		"stack":       cfg.StackID(),
		"full_domain": cfg.FullDomain(),
		"document":    cfg.DocumentPath(),
		"account":     cfg.Account,
		"region":      cfg.Region,
		"asset_dir":   cfg.AssetDir,
		"price_class": cfg.PriceClass,
		"ipv6":        !cfg.DisableIPv6,
		"prune":       !cfg.DisablePrune,
	}
}
