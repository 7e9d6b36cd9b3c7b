package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ryan-gang/mail-blast/internal/util"
)

type config struct {
	Provider   string `json:"provider" validate:"required,oneof=gmail smtp ses resend"`
	Sender     string `json:"sender" validate:"required,email"`
	SenderName string `json:"sender_name"`

	Subject        string `json:"subject"`
	TemplatePath   string `json:"template_path"`
	RecipientsPath string `json:"recipients_path"`
	BodyFormat     string `json:"body_format" validate:"omitempty,oneof=text markdown html"`

	CredentialsPath string `json:"credentials_path" validate:"required_if=Provider gmail"`
	TokenPath       string `json:"token_path"`
	Server          string `json:"server" validate:"required_if=Provider smtp"`
	Port            int    `json:"port" validate:"omitempty,min=1,max=65535"`
	Password        string `json:"password"`
	AwsRegion       string `json:"aws_region"`
	ResendAPIKey    string `json:"resend_api_key" validate:"required_if=Provider resend"`
	SendTimeout     int    `json:"send_timeout_seconds" validate:"min=0"`

	LedgerDir     string `json:"ledger_dir"`
	CheckInterval int    `json:"check_interval_minutes" validate:"min=1"`
	DaemonEnabled bool   `json:"daemon_enabled"`
	LogPath       string `json:"log_path"`
	PidFile       string `json:"pid_file"`
	MetricsAddr   string `json:"metrics_addr" validate:"omitempty,hostname_port"`
}

const DefaultTimeout = 120
const XdgConfigHome = "XDG_CONFIG_HOME"
const ConfigFolderName = "mail-blast"

// Environment variables that take precedence over the config file.
const (
	EnvSMTPPassword = "MAILBLAST_SMTP_PASSWORD"
	EnvResendAPIKey = "MAILBLAST_RESEND_API_KEY"
	EnvAwsRegion    = "MAILBLAST_AWS_REGION"
)

func isGmail(mail string) bool {
	return strings.HasSuffix(strings.ToLower(mail), "@gmail.com")
}

func DefaultConfigPath() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("couldn't get current user: %w", err)
	}
	xdgConfigHome := os.Getenv(XdgConfigHome)
	var configFolder string
	if len(xdgConfigHome) == 0 {
		configFolder = path.Join(user.HomeDir, ".config")
		configFolder = path.Join(configFolder, ConfigFolderName)
	} else {
		configFolder = path.Join(xdgConfigHome, ConfigFolderName)
	}
	if err := os.MkdirAll(configFolder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return path.Join(configFolder, "config.json"), nil
}

// SetDefaults fills unset paths with files next to the config file.
func SetDefaults(c *config, configDir string) {
	if c.TokenPath == "" {
		c.TokenPath = path.Join(configDir, "token.json")
	}
	if c.LedgerDir == "" {
		c.LedgerDir = path.Join(configDir, "ledger")
	}
	if c.LogPath == "" {
		c.LogPath = path.Join(configDir, "mail-blast.log")
	}
	if c.PidFile == "" {
		c.PidFile = path.Join(configDir, "mail-blast.pid")
	}
	if c.BodyFormat == "" {
		c.BodyFormat = "text"
	}
	if c.Provider == "smtp" && c.Port == 0 {
		c.Port = 465
	}
	if c.CheckInterval == 0 {
		c.CheckInterval = 60
	}
}

// applyEnv lets secrets and region come from the environment, and from a
// .env file loaded by the caller.
func applyEnv(c *config) {
	if v := os.Getenv(EnvSMTPPassword); v != "" {
		c.Password = v
	}
	if v := os.Getenv(EnvResendAPIKey); v != "" {
		c.ResendAPIKey = v
	}
	if v := os.Getenv(EnvAwsRegion); v != "" {
		c.AwsRegion = v
	}
}

func Validate(c *config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

func NewConfig() *config {
	config := config{}
	config.Provider = "gmail"
	config.Server = "smtp.gmail.com"
	config.Port = 465
	config.BodyFormat = "text"
	config.SendTimeout = DefaultTimeout

	config.CheckInterval = 60
	config.DaemonEnabled = false
	return &config
}

func scanInt(prompt string, def int) int {
	for {
		util.Cyan.Printf("%s (default %d) : ", prompt, def)
		s := util.ScanlineTrim()
		if s == "" {
			return def
		}
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			util.Red.Println("Entered value is either invalid or not a positive integer, please try again")
			continue
		}
		return v
	}
}

func CreateConfig() (*config, error) {
	util.CyanBold.Println("CONFIGURE MAIL-BLAST")

	configuration := NewConfig()
	util.Cyan.Printf("Email that'll send the campaign (eg. yourname@gmail.com) : ")
	configuration.Sender = util.ScanlineTrim()
	util.Cyan.Printf("Display name for the sender (empty is ok) : ")
	configuration.SenderName = util.ScanlineTrim()

	def := "smtp"
	if isGmail(configuration.Sender) {
		def = "gmail"
	}
	for {
		util.Cyan.Printf("Mail provider, one of gmail, smtp, ses, resend (default %s) : ", def)
		configuration.Provider = strings.ToLower(util.ScanlineDefault(def))
		switch configuration.Provider {
		case "gmail", "smtp", "ses", "resend":
		default:
			util.Red.Println("Unknown provider, please try again")
			continue
		}
		break
	}

	switch configuration.Provider {
	case "gmail":
		util.Cyan.Printf("Path to the OAuth client secrets JSON downloaded from Google Cloud : ")
		configuration.CredentialsPath = util.ScanlineTrim()
	case "smtp":
		util.Cyan.Println("Search SMTP settings for <your email domain>.com on internet if unsure")
		util.Cyan.Printf("Enter SMTP Server Address (default %s) : ", configuration.Server)
		configuration.Server = util.ScanlineDefault(configuration.Server)
		configuration.Port = scanInt("Enter SMTP port (usually 587 or 465)", configuration.Port)
		util.Cyan.Printf("Enter password for Sender %s (password remains encrypted in your machine) : ", configuration.Sender)
		configuration.Password = util.ScanlineTrim()
	case "ses":
		util.Cyan.Printf("AWS region (empty uses the AWS environment) : ")
		configuration.AwsRegion = util.ScanlineTrim()
	case "resend":
		util.Cyan.Printf("Resend API key (remains encrypted in your machine) : ")
		configuration.ResendAPIKey = util.ScanlineTrim()
	}

	util.CyanBold.Println("\nCAMPAIGN")
	util.Cyan.Printf("Default subject (empty is ok) : ")
	configuration.Subject = util.ScanlineTrim()
	util.Cyan.Printf("Path to the body template (empty is ok) : ")
	configuration.TemplatePath = util.ScanlineTrim()
	util.Cyan.Printf("Body format, one of text, markdown, html (default text) : ")
	configuration.BodyFormat = strings.ToLower(util.ScanlineDefault("text"))
	util.Cyan.Printf("Path to the recipients CSV (empty is ok) : ")
	configuration.RecipientsPath = util.ScanlineTrim()

	util.CyanBold.Println("\nDAEMON CONFIGURATION")
	util.Cyan.Printf("Send the campaign periodically in the background? (y/N) : ")
	if strings.EqualFold(util.ScanlineTrim(), "y") {
		configuration.DaemonEnabled = true
		configuration.CheckInterval = scanInt("Check interval in minutes", configuration.CheckInterval)
		util.Cyan.Printf("Address to serve Prometheus metrics on (eg. 127.0.0.1:9464, empty to disable) : ")
		configuration.MetricsAddr = util.ScanlineTrim()
	}

	return configuration, nil
}

func handleCreation(filename string) error {
	util.Red.Println("Configuration file doesn't exist\n Answer next few questions to create config file")
	configuration, err := CreateConfig()
	if err != nil {
		return fmt.Errorf("failed to create configuration: %w", err)
	}
	err = Save(*configuration, filename)
	if err != nil {
		util.Red.Println("Error while writing config to ", filename, err)
		return err
	}
	util.Green.Printf("Config created successfully and stored at %s, you can directly edit it later on \n", filename)
	return nil
}

// LoadProvider loads filename, asking for a new configuration when it is missing.
func LoadProvider(filename string) (ConfigProvider, error) {
	if !exists(filename) {
		if err := handleCreation(filename); err != nil {
			return nil, err
		}
	}
	cfg, err := Read(filename)
	if err != nil {
		return nil, err
	}
	return NewConfigProvider(cfg), nil
}

// Read decodes, decrypts and validates filename without prompting.
func Read(filename string) (*config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c := NewConfig()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", filename, err)
	}
	if c.Password, err = Decrypt(c.Sender, c.Password); err != nil {
		return nil, fmt.Errorf("error decrypting password: %w", err)
	}
	if c.ResendAPIKey, err = Decrypt(c.Sender, c.ResendAPIKey); err != nil {
		return nil, fmt.Errorf("error decrypting resend api key: %w", err)
	}

	applyEnv(c)
	SetDefaults(c, path.Dir(filename))
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c to filename with its secrets encrypted.
func Save(c config, filename string) error {
	var err error
	if c.Password, err = Encrypt(c.Sender, c.Password); err != nil {
		return fmt.Errorf("error encrypting password: %w", err)
	}
	if c.ResendAPIKey, err = Encrypt(c.Sender, c.ResendAPIKey); err != nil {
		return fmt.Errorf("error encrypting resend api key: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "	")
	if err != nil {
		return fmt.Errorf("error parsing configuration for writing: %w", err)
	}
	if err := os.MkdirAll(path.Dir(filename), 0700); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}
