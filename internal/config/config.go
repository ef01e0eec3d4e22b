// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ArtifactsConfig 描述预计算工件（排名 CSV、性能指标 CSV、知识图谱 HTML）的存放位置。
// backend 为 "filesystem" 时从本地目录读取，为 "minio" 时从对象存储读取。
type ArtifactsConfig struct {
	Backend   string `mapstructure:"backend"`
	ModelsDir string `mapstructure:"models_dir"`
	GraphsDir string `mapstructure:"graphs_dir"`
}

// SessionConfig 存储会话（聊天记录）相关的配置。
// backend 为 "memory" 时聊天记录仅驻留进程内，为 "redis" 时写入 Redis。
type SessionConfig struct {
	Backend      string `mapstructure:"backend"`
	Secret       string `mapstructure:"secret"`
	CookieName   string `mapstructure:"cookie_name"`
	ExpireHours  int    `mapstructure:"expire_hours"`
	MaxChatTurns int    `mapstructure:"max_chat_turns"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// GeminiConfig 存储 Google Gemini 文本生成服务相关的配置。
// APIKey 只从环境变量 GOOGLE_API_KEY 读取，不写入配置文件。
type GeminiConfig struct {
	APIKey         string                 `mapstructure:"-"`
	BaseURL        string                 `mapstructure:"base_url"`
	Model          string                 `mapstructure:"model"`
	TimeoutSeconds int                    `mapstructure:"timeout_seconds"`
	Generation     GeminiGenerationConfig `mapstructure:"generation"`
}

// GeminiGenerationConfig 配置生成相关参数（可选）。
type GeminiGenerationConfig struct {
	Temperature     float64 `mapstructure:"temperature"`
	TopP            float64 `mapstructure:"top_p"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
// GOOGLE_API_KEY 缺失属于致命的启动错误：没有它聊天网关无法工作。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		panic(fmt.Errorf("环境变量 GOOGLE_API_KEY 未设置"))
	}
	Conf.Gemini.APIKey = apiKey

	ApplyDefaults(&Conf)
}

// ApplyDefaults 为未配置的字段填充默认值。
func ApplyDefaults(c *Config) {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Artifacts.Backend == "" {
		c.Artifacts.Backend = "filesystem"
	}
	if c.Artifacts.ModelsDir == "" {
		c.Artifacts.ModelsDir = "embedding_models"
	}
	if c.Artifacts.GraphsDir == "" {
		c.Artifacts.GraphsDir = "graphs"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "kg_session"
	}
	if c.Session.ExpireHours <= 0 {
		c.Session.ExpireHours = 24
	}
	if c.Session.MaxChatTurns <= 0 {
		c.Session.MaxChatTurns = 40
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-pro"
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = 60
	}
}
