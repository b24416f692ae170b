package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LLMConfig holds the completion capability settings. One OpenAI-compatible
// endpoint serves both the generation and the judge model.
type LLMConfig struct {
	BaseURL         string
	APIKey          string
	GenerationModel string
	JudgeModel      string
	RequestTimeout  time.Duration
}

// PushoverConfig holds the notification sink credentials. Empty credentials
// disable outbound pushes without disabling the rest of the agent.
type PushoverConfig struct {
	UserKey  string
	APIToken string
	Endpoint string
}

// ProfileConfig points at the grounding documents loaded at startup.
type ProfileConfig struct {
	Name          string
	SummaryPath   string
	NarrativePath string
}

// Config is the process-wide configuration, read once in main and passed
// into components at construction time.
type Config struct {
	LLM      LLMConfig
	Pushover PushoverConfig
	Profile  ProfileConfig

	ListenAddr     string
	AllowedOrigins []string
	AuditLogPath   string
	DBPath         string

	// MaxAttempts bounds the refinement loop. Floor of 1.
	MaxAttempts int
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		LLM: LLMConfig{
			BaseURL:         getEnv("AGENT_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:          os.Getenv("AGENT_LLM_API_KEY"),
			GenerationModel: getEnv("AGENT_GENERATION_MODEL", "llama-3.3-70b-versatile"),
			JudgeModel:      getEnv("AGENT_JUDGE_MODEL", "openai/gpt-oss-120b"),
			RequestTimeout:  getDurationEnv("AGENT_LLM_TIMEOUT", 60*time.Second),
		},
		Pushover: PushoverConfig{
			UserKey:  os.Getenv("PUSHOVER_USER"),
			APIToken: os.Getenv("PUSHOVER_TOKEN"),
			Endpoint: getEnv("PUSHOVER_URL", "https://api.pushover.net/1/messages.json"),
		},
		Profile: ProfileConfig{
			Name:          getEnv("AGENT_PERSONA_NAME", "Yunus Emre Balcı"),
			SummaryPath:   getEnv("AGENT_PROFILE_SUMMARY", "me/summary.txt"),
			NarrativePath: getEnv("AGENT_PROFILE_NARRATIVE", "me/linkedin.txt"),
		},
		ListenAddr:     getEnv("AGENT_LISTEN_ADDR", ":8080"),
		AllowedOrigins: []string{getEnv("AGENT_ALLOWED_ORIGIN", "http://localhost:5173")},
		AuditLogPath:   getEnv("AGENT_AUDIT_LOG", "conversation_log.json"),
		DBPath:         getEnv("AGENT_DB_PATH", "agent.db"),
		MaxAttempts:    getIntEnv("AGENT_MAX_ATTEMPTS", 2),
	}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.LLM.BaseURL == "" {
		return nil, fmt.Errorf("AGENT_LLM_BASE_URL cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
