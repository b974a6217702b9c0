package commerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mwc/backend/internal/infrastructure/config"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxResponseSize = 10 * 1024 * 1024
)

// ClientConfig holds the settings of the catalog API client
type ClientConfig struct {
	// BaseURL is the commerce API root, e.g. https://api.mwc.secureserver.net/v1/commerce
	BaseURL string `validate:"required,url"`
	// APIToken is sent as a bearer token when set
	APIToken        string
	Timeout         time.Duration `validate:"gt=0"`
	MaxResponseSize int64         `validate:"gt=0"`
	UserAgent       string
}

// ClientConfigFrom builds a client configuration from the application config
func ClientConfigFrom(cfg config.CommerceConfig, appName, appVersion string) ClientConfig {
	return ClientConfig{
		BaseURL:         cfg.APIBaseURL,
		APIToken:        cfg.APIToken,
		Timeout:         cfg.Timeout,
		MaxResponseSize: cfg.MaxResponseSize,
		UserAgent:       appName + "/" + appVersion,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate fills defaults and checks the configuration
func (c *ClientConfig) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseSize <= 0 {
		c.MaxResponseSize = defaultMaxResponseSize
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("commerce: invalid client config: %w", err)
	}
	return nil
}
