/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/wacul/ptr"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT                 = "5001"
	DEFAULT_DOCUMENT_SERVICE_URL = "http://localhost:5000"
	DEFAULT_DOCUMENT_TIMEOUT     = 30
	DEFAULT_DOCUMENT_RETRIES     = 3
	DEFAULT_DRAFT_TTL            = 86400
	DEFAULT_DRAFT_LOCK_TIMEOUT   = 5000
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"PAYDOCS_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"PAYDOCS_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"PAYDOCS_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"PAYDOCS_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"PAYDOCS_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"PAYDOCS_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"PAYDOCS_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"PAYDOCS_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"PAYDOCS_REDIS_SKIP_TLS_VERIFY"`
}

// DocumentServiceConfig points at the remote service that renders statements and payslips.
type DocumentServiceConfig struct {
	Url        string            `json:"url" envconfig:"PAYDOCS_DOCUMENT_SERVICE_URL"`
	Timeout    int               `json:"timeout" envconfig:"PAYDOCS_DOCUMENT_SERVICE_TIMEOUT"`
	MaxRetries int               `json:"max_retries" envconfig:"PAYDOCS_DOCUMENT_SERVICE_MAX_RETRIES"`
	Headers    map[string]string `json:"headers"`
}

type DraftConfig struct {
	TTLSeconds    int    `json:"ttl_seconds" envconfig:"PAYDOCS_DRAFT_TTL_SECONDS"`
	LockTimeoutMs int    `json:"lock_timeout_ms" envconfig:"PAYDOCS_DRAFT_LOCK_TIMEOUT_MS"`
	IDScheme      string `json:"transaction_id_scheme" envconfig:"PAYDOCS_TRANSACTION_ID_SCHEME"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"PAYDOCS_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"PAYDOCS_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"PAYDOCS_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"PAYDOCS_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName     string                `json:"project_name" envconfig:"PAYDOCS_PROJECT_NAME"`
	CompanyName     string                `json:"company_name" envconfig:"PAYDOCS_COMPANY_NAME"`
	Server          ServerConfig          `json:"server"`
	DataSource      DataSourceConfig      `json:"data_source"`
	Redis           RedisConfig           `json:"redis"`
	DocumentService DocumentServiceConfig `json:"document_service"`
	Drafts          DraftConfig           `json:"drafts"`
	Notification    Notification          `json:"notification"`
	RateLimit       RateLimitConfig       `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("paydocs", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called paydocs.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Paydocs Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.DocumentService.Url = strings.TrimRight(strings.TrimSpace(cnf.DocumentService.Url), "/")

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.DocumentService.Url == "" {
		cnf.DocumentService.Url = DEFAULT_DOCUMENT_SERVICE_URL
		log.Printf("Warning: Document service url not specified. Setting default url: %s", DEFAULT_DOCUMENT_SERVICE_URL)
	}
	if cnf.DocumentService.Timeout <= 0 {
		cnf.DocumentService.Timeout = DEFAULT_DOCUMENT_TIMEOUT
	}
	if cnf.DocumentService.MaxRetries < 0 {
		return errors.New("document service max retries cannot be negative")
	}
	if cnf.DocumentService.MaxRetries == 0 {
		cnf.DocumentService.MaxRetries = DEFAULT_DOCUMENT_RETRIES
	}

	if cnf.Drafts.TTLSeconds <= 0 {
		cnf.Drafts.TTLSeconds = DEFAULT_DRAFT_TTL
	}
	if cnf.Drafts.LockTimeoutMs <= 0 {
		cnf.Drafts.LockTimeoutMs = DEFAULT_DRAFT_LOCK_TIMEOUT
	}
	cnf.Drafts.IDScheme = strings.ToLower(strings.TrimSpace(cnf.Drafts.IDScheme))
	switch cnf.Drafts.IDScheme {
	case "", "timestamp", "uuid":
	default:
		return fmt.Errorf("unknown transaction id scheme %q", cnf.Drafts.IDScheme)
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = ptr.Int(defaultBurst)
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = ptr.Float64(defaultRPS)
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = ptr.Int(defaultCleanup)
		log.Printf("Warning: Rate limit cleanup interval not specified. Setting default value: %d seconds", defaultCleanup)
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
