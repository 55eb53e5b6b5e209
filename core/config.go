package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultServiceName           = "odoo"
	defaultRequestTimeoutSeconds = 30
	defaultCompanyID             = 1
	defaultMaxConcurrency        = 4
	defaultImageDir              = "static/images"
	defaultReportDir             = "static/reports"
	defaultReportPath            = "/api/v2/report"
	defaultLeadNamePrefix        = "WhatsApp"
)

// CustomFieldsConfig names instance specific (studio) fields.
type CustomFieldsConfig struct {
	Brand          string `koanf:"brand" mapstructure:"brand"`
	Marketplace    string `koanf:"marketplace" mapstructure:"marketplace"`
	OrderReference string `koanf:"order_reference" mapstructure:"order_reference"`
}

type Config struct {
	ServiceName           string             `koanf:"service_name" mapstructure:"service_name"`
	BaseURL               string             `koanf:"base_url" mapstructure:"base_url"`
	ClientID              string             `koanf:"client_id" mapstructure:"client_id"`
	ClientSecret          string             `koanf:"client_secret" mapstructure:"client_secret"`
	TokenPath             string             `koanf:"token_path" mapstructure:"token_path"`
	SearchPath            string             `koanf:"search_path" mapstructure:"search_path"`
	CreatePath            string             `koanf:"create_path" mapstructure:"create_path"`
	ReportPath            string             `koanf:"report_path" mapstructure:"report_path"`
	RequestTimeoutSeconds int                `koanf:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	CompanyID             int64              `koanf:"company_id" mapstructure:"company_id"`
	MaxConcurrency        int                `koanf:"max_concurrency" mapstructure:"max_concurrency"`
	ImageDir              string             `koanf:"image_dir" mapstructure:"image_dir"`
	ReportDir             string             `koanf:"report_dir" mapstructure:"report_dir"`
	LeadNamePrefix        string             `koanf:"lead_name_prefix" mapstructure:"lead_name_prefix"`
	CustomFields          CustomFieldsConfig `koanf:"custom_fields" mapstructure:"custom_fields"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:           defaultServiceName,
		ReportPath:            defaultReportPath,
		RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		CompanyID:             defaultCompanyID,
		MaxConcurrency:        defaultMaxConcurrency,
		ImageDir:              defaultImageDir,
		ReportDir:             defaultReportDir,
		LeadNamePrefix:        defaultLeadNamePrefix,
		CustomFields: CustomFieldsConfig{
			Brand:          "x_studio_marca",
			Marketplace:    "biomag_marketplace",
			OrderReference: "reference_request",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("core: request_timeout_seconds must be >= 0")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("core: max_concurrency must be >= 0")
	}
	if c.CompanyID < 0 {
		return fmt.Errorf("core: company_id must be >= 0")
	}
	return nil
}

// ValidateRemote checks the settings needed to reach the remote ERP.
func (c Config) ValidateRemote() error {
	if err := c.Validate(); err != nil {
		return err
	}
	required := map[string]string{
		"base_url":      c.BaseURL,
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"token_path":    c.TokenPath,
		"search_path":   c.SearchPath,
		"create_path":   c.CreatePath,
	}
	for _, key := range []string{"base_url", "client_id", "client_secret", "token_path", "search_path", "create_path"} {
		if strings.TrimSpace(required[key]) == "" {
			return fmt.Errorf("core: %s is required", key)
		}
	}
	return nil
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return defaultRequestTimeoutSeconds * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) Concurrency() int {
	if c.MaxConcurrency <= 0 {
		return defaultMaxConcurrency
	}
	return c.MaxConcurrency
}

func (c Config) TokenURL() string  { return joinURL(c.BaseURL, c.TokenPath) }
func (c Config) SearchURL() string { return joinURL(c.BaseURL, c.SearchPath) }
func (c Config) CreateURL() string { return joinURL(c.BaseURL, c.CreatePath) }

// ReportURL points at a named report under report_path.
func (c Config) ReportURL(report string) string {
	path := c.ReportPath
	if strings.TrimSpace(path) == "" {
		path = defaultReportPath
	}
	return joinURL(c.BaseURL, strings.TrimSuffix(path, "/")+"/"+strings.TrimPrefix(report, "/"))
}

func joinURL(base string, path string) string {
	return strings.TrimSuffix(strings.TrimSpace(base), "/") + "/" + strings.TrimPrefix(strings.TrimSpace(path), "/")
}
