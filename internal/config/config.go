package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Vision   VisionConfig   `yaml:"vision"`
	OCR      OCRConfig      `yaml:"ocr"`
	Liveness LivenessConfig `yaml:"liveness"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// VisionConfig locates the ONNX model files and sets detection/embedding
// thresholds for the face portrait pipeline (C4).
type VisionConfig struct {
	ModelsDir            string  `yaml:"models_dir"`
	DetectorAccurateFile string  `yaml:"detector_accurate_file"`
	DetectorFastFile     string  `yaml:"detector_fast_file"`
	LandmarkFile         string  `yaml:"landmark_file"`
	EmbedderFile         string  `yaml:"embedder_file"`
	DetectionThreshold   float64 `yaml:"detection_threshold"`
	WorkerCount          int     `yaml:"worker_count"`
	IntraOpThreads       int     `yaml:"intra_op_threads"`
	InterOpThreads       int     `yaml:"inter_op_threads"`
}

// OCRConfig configures the tesseract-backed MRZ OCR driver (C2).
type OCRConfig struct {
	TessDataDir string `yaml:"tessdata_dir"`
	Language    string `yaml:"language"`
	DPI         int    `yaml:"dpi"`
}

// LivenessConfig holds the match, fusion and static-suspect thresholds. They
// are loaded and defaulted here, but match.Compare and liveness.Analyze use
// their own package constants and do not read these values.
type LivenessConfig struct {
	MatchThreshold       float64 `yaml:"match_threshold"`
	FusionThreshold      float64 `yaml:"fusion_threshold"`
	StaticSuspectWeight  float64 `yaml:"static_suspect_weight"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Vision.WorkerCount == 0 {
		cfg.Vision.WorkerCount = 4
	}
	if cfg.Vision.DetectionThreshold == 0 {
		cfg.Vision.DetectionThreshold = 0.3
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "eng"
	}
	if cfg.OCR.DPI == 0 {
		cfg.OCR.DPI = 300
	}
	if cfg.Liveness.MatchThreshold == 0 {
		cfg.Liveness.MatchThreshold = 0.6
	}
	if cfg.Liveness.FusionThreshold == 0 {
		cfg.Liveness.FusionThreshold = 0.7
	}
	if cfg.Liveness.StaticSuspectWeight == 0 {
		cfg.Liveness.StaticSuspectWeight = 0.5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ID_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ID_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("ID_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("ID_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("ID_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("ID_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("ID_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("ID_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("ID_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("ID_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("ID_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("ID_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("ID_MODELS_DIR"); v != "" {
		cfg.Vision.ModelsDir = v
	}
	if v := os.Getenv("ID_VISION_WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Vision.WorkerCount = n
		}
	}
	if v := os.Getenv("ID_TESSDATA_DIR"); v != "" {
		cfg.OCR.TessDataDir = v
	}
	if v := os.Getenv("ID_VISION_INTRA_OP_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Vision.IntraOpThreads = n
		}
	}
	if v := os.Getenv("ID_VISION_INTER_OP_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Vision.InterOpThreads = n
		}
	}
}
