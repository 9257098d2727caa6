package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/logging"
)

// Config holds the project config values
type Config struct {
	URL          string `koanf:"-"`
	DatabaseName string `koanf:"-"`
	BaseURL      string `koanf:"-"`
	Port         string `koanf:"-"`
	Env          string `koanf:"-"`
	LogFile      string `koanf:"-"`
	JWTSecret    string `koanf:"-"`

	Blob   BlobConfig   `koanf:"-"`
	Notify NotifyConfig `koanf:"-"`

	Upload UploadConfig `koanf:"upload"`
	HTTP   HTTPConfig   `koanf:"http"`
	Sweep  SweepConfig  `koanf:"sweep"`

	Logger *zap.SugaredLogger `koanf:"-"`
}

// BlobConfig selects and configures the blob store evidence is uploaded to
type BlobConfig struct {
	Backend                string
	CloudinaryURL          string
	CloudinaryUploadPreset string
	CloudinaryAPISecret    string
	S3Bucket               string
	S3Region               string
	S3Endpoint             string
	S3PublicBaseURL        string
}

// NotifyConfig holds the decision notification settings. An empty APIKey disables sending.
type NotifyConfig struct {
	SendGridAPIKey      string
	DecisionNotifyEmail string
}

// UploadConfig bounds evidence payloads and their uploads
type UploadConfig struct {
	MaxImageBytes    int           `koanf:"maxImageBytes"`
	MaxDocumentBytes int           `koanf:"maxDocumentBytes"`
	Timeout          time.Duration `koanf:"timeout"`
	Concurrency      int           `koanf:"concurrency"`
}

// HTTPConfig holds server tunables
type HTTPConfig struct {
	RequestTimeout time.Duration `koanf:"requestTimeout"`
}

// SweepConfig drives the orphan upload sweep
type SweepConfig struct {
	Schedule string        `koanf:"schedule"`
	MinAge   time.Duration `koanf:"minAge"`
}

// New sets up all config related services
func New() *Config {
	env := getEnv("ENV", "local")
	logFile := os.Getenv("LOG_FILE")

	//setup zap logger and replace default logger
	logger, err := logging.New(env, logFile)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	conf, err := Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		zap.S().Errorw("failed to load config file, using defaults", "error", err)
		conf, _ = Load("")
	}

	conf.URL = os.Getenv("DB_URI")
	conf.DatabaseName = os.Getenv("DB_NAME")
	conf.BaseURL = os.Getenv("BASE_URL")
	conf.Port = getEnv("PORT", "8080")
	conf.Env = env
	conf.LogFile = logFile
	conf.JWTSecret = os.Getenv("JWT_SECRET")
	conf.Blob = BlobConfig{
		Backend:                getEnv("BLOB_BACKEND", "cloudinary"),
		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryUploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		S3Bucket:               os.Getenv("S3_BUCKET"),
		S3Region:               os.Getenv("S3_REGION"),
		S3Endpoint:             os.Getenv("S3_ENDPOINT"),
		S3PublicBaseURL:        os.Getenv("S3_PUBLIC_BASE_URL"),
	}
	conf.Notify = NotifyConfig{
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		DecisionNotifyEmail: os.Getenv("DECISION_NOTIFY_EMAIL"),
	}
	conf.Logger = logger.Sugar()

	return conf
}

// Load reads the tunables from an optional YAML file and fills in defaults for anything
// the file leaves out
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	}

	applyDefaults(k)

	var conf Config
	if err := k.UnmarshalWithConf("", &conf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &conf, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "upload.maxImageBytes", 512000)
	setDefault(k, "upload.maxDocumentBytes", 5242880)
	setDefault(k, "upload.timeout", 30*time.Second)
	setDefault(k, "upload.concurrency", 4)

	setDefault(k, "http.requestTimeout", 30*time.Second)

	setDefault(k, "sweep.schedule", "0 * * * *")
	setDefault(k, "sweep.minAge", 24*time.Hour)
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		_ = k.Set(key, value)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	body, _ := json.Marshal(fmt.Sprintf("%s, %v", message, err))
	_, _ = w.Write([]byte(fmt.Sprintf(`{"response": %s}`, body)))
}
