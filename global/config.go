package global

import (
	"github.com/go-redis/redis_rate/v10"
	cfg "github.com/mailio/go-web3-kit/config"
)

// Conf global config
var Conf Config

// Global rate limiter
var RateLimiter *redis_rate.Limiter

type Config struct {
	cfg.YamlConfig `yaml:",inline"`
	CouchDB        CouchDBConfig    `yaml:"couchdb"`
	Twilio         TwilioConfig     `yaml:"twilio"`
	App            AppConfig        `yaml:"app"`
	Prometheus     PrometheusConfig `yaml:"prometheus"`
	Redis          RedisConfig      `yaml:"redis"`
	Queue          Queue            `yaml:"queue"`
	Mailgun        MailgunConfig    `yaml:"mailgun"`
	Storage        StorageConfig    `yaml:"storage"`
}

type CouchDBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Scheme   string `yaml:"scheme"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type TwilioConfig struct {
	AccountSid  string `yaml:"accountSid"`
	AuthToken   string `yaml:"authToken"`
	PhoneNumber string `yaml:"phoneNumber"` // the Twilio number calls get forwarded to, E.164
	LookupURL   string `yaml:"lookupUrl"`   // base URL of the Lookup API (override in tests)
}

type AppConfig struct {
	PublicURL            string   `yaml:"publicUrl"` // externally reachable base URL for webhooks and media
	DefaultRegionCode    string   `yaml:"defaultRegionCode"`
	Commands             []string `yaml:"commands"`             // enabled special SMS commands
	ContactInfoDelaySecs int      `yaml:"contactInfoDelaySecs"` // delay before texting the owner their own info
	QrDecodeURL          string   `yaml:"qrDecodeUrl"`          // base URL of the QR read API (override in tests)
}

type PrometheusConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	Username string `yaml:"username"`
}

type Queue struct {
	Concurrency int `yaml:"concurrency"`
}

type MailgunConfig struct {
	Enabled bool   `yaml:"enabled"`
	Domain  string `yaml:"domain"`
	ApiKey  string `yaml:"apikey"`
	Sender  string `yaml:"sender"`
	BaseURL string `yaml:"baseUrl"` // override in tests
}

type StorageConfig struct {
	ArchiveRecordings bool   `yaml:"archiveRecordings"`
	Key               string `yaml:"key"`
	Secret            string `yaml:"secret"`
	Bucket            string `yaml:"bucket"`
	Region            string `yaml:"region"`
}
