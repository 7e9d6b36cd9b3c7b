package config

import "time"

// ConfigProvider defines the interface for configuration access
type ConfigProvider interface {
	GetProvider() string
	GetSender() string
	GetSenderName() string
	GetSubject() string
	GetTemplatePath() string
	GetRecipientsPath() string
	GetBodyFormat() string
	GetCredentialsPath() string
	GetTokenPath() string
	GetServer() string
	GetPort() int
	GetPassword() string
	GetAwsRegion() string
	GetResendAPIKey() string
	GetSendTimeout() time.Duration
	GetLedgerDir() string
	GetCheckInterval() int
	IsDaemonEnabled() bool
	GetLogPath() string
	GetPidFile() string
	GetMetricsAddr() string
}

// ConfigImpl implements ConfigProvider interface
type ConfigImpl struct {
	cfg *config
}

// NewConfigProvider creates a new ConfigProvider instance
func NewConfigProvider(cfg *config) ConfigProvider {
	return &ConfigImpl{cfg: cfg}
}

func (c *ConfigImpl) GetProvider() string {
	return c.cfg.Provider
}

func (c *ConfigImpl) GetSender() string {
	return c.cfg.Sender
}

func (c *ConfigImpl) GetSenderName() string {
	return c.cfg.SenderName
}

func (c *ConfigImpl) GetSubject() string {
	return c.cfg.Subject
}

func (c *ConfigImpl) GetTemplatePath() string {
	return c.cfg.TemplatePath
}

func (c *ConfigImpl) GetRecipientsPath() string {
	return c.cfg.RecipientsPath
}

func (c *ConfigImpl) GetBodyFormat() string {
	return c.cfg.BodyFormat
}

func (c *ConfigImpl) GetCredentialsPath() string {
	return c.cfg.CredentialsPath
}

func (c *ConfigImpl) GetTokenPath() string {
	return c.cfg.TokenPath
}

func (c *ConfigImpl) GetServer() string {
	return c.cfg.Server
}

func (c *ConfigImpl) GetPort() int {
	return c.cfg.Port
}

func (c *ConfigImpl) GetPassword() string {
	return c.cfg.Password
}

func (c *ConfigImpl) GetAwsRegion() string {
	return c.cfg.AwsRegion
}

func (c *ConfigImpl) GetResendAPIKey() string {
	return c.cfg.ResendAPIKey
}

// GetSendTimeout bounds a single send; zero means no bound.
func (c *ConfigImpl) GetSendTimeout() time.Duration {
	return time.Duration(c.cfg.SendTimeout) * time.Second
}

func (c *ConfigImpl) GetLedgerDir() string {
	return c.cfg.LedgerDir
}

func (c *ConfigImpl) GetCheckInterval() int {
	return c.cfg.CheckInterval
}

func (c *ConfigImpl) IsDaemonEnabled() bool {
	return c.cfg.DaemonEnabled
}

func (c *ConfigImpl) GetLogPath() string {
	return c.cfg.LogPath
}

func (c *ConfigImpl) GetPidFile() string {
	return c.cfg.PidFile
}

func (c *ConfigImpl) GetMetricsAddr() string {
	return c.cfg.MetricsAddr
}
