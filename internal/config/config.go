package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	GitHub struct {
		APIBase     string `mapstructure:"api_base"`
		GraphQLBase string `mapstructure:"graphql_base"`
		Token       string `mapstructure:"token"`
	} `mapstructure:"github"`
	Judge struct {
		PrimaryBase    string        `mapstructure:"primary_base"`
		FallbackBase   string        `mapstructure:"fallback_base"`
		CodeforcesBase string        `mapstructure:"codeforces_base"`
		Timeout        time.Duration `mapstructure:"timeout"`
	} `mapstructure:"judge"`
	Groq struct {
		APIKey     string        `mapstructure:"api_key"`
		BaseURL    string        `mapstructure:"base_url"`
		ScanModel  string        `mapstructure:"scan_model"`
		WriteModel string        `mapstructure:"write_model"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"groq"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
}

func LoadConfig() (cfg Config, err error) {

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("redis.cache_ttl", 10*time.Minute)
	viper.SetDefault("github.api_base", "https://api.github.com")
	viper.SetDefault("github.graphql_base", "https://api.github.com/graphql")
	viper.SetDefault("judge.primary_base", "https://alfa-leetcode-api.onrender.com")
	viper.SetDefault("judge.fallback_base", "https://leetcode-stats-api.herokuapp.com")
	viper.SetDefault("judge.codeforces_base", "https://codeforces.com")
	viper.SetDefault("judge.timeout", 4*time.Second)
	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.scan_model", "llama-3.3-70b-versatile")
	viper.SetDefault("groq.write_model", "llama-3.1-8b-instant")
	viper.SetDefault("groq.timeout", 60*time.Second)

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.cache_ttl", "REDIS_CACHE_TTL")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("github.token", "GITHUB_TOKEN")
	viper.BindEnv("github.api_base", "GITHUB_API_BASE")
	viper.BindEnv("github.graphql_base", "GITHUB_GRAPHQL_BASE")
	viper.BindEnv("judge.primary_base", "JUDGE_PRIMARY_BASE")
	viper.BindEnv("judge.fallback_base", "JUDGE_FALLBACK_BASE")
	viper.BindEnv("judge.codeforces_base", "JUDGE_CODEFORCES_BASE")
	viper.BindEnv("judge.timeout", "JUDGE_TIMEOUT")
	viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	viper.BindEnv("groq.base_url", "GROQ_BASE_URL")
	viper.BindEnv("groq.scan_model", "GROQ_SCAN_MODEL")
	viper.BindEnv("groq.write_model", "GROQ_WRITE_MODEL")
	viper.BindEnv("groq.timeout", "GROQ_TIMEOUT")

	viper.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	viper.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	viper.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	err = viper.Unmarshal(&cfg)
	return
}
