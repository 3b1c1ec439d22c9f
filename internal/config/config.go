package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string

	// DeepSeek upstream
	DeepSeekBaseURL string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	ChatMaxTokens   int
	ChatTemperature float64

	// external search tool
	PythonBin    string
	SearchScript string
	PublicDir    string

	CacheTTLDays      int
	FetchTimeoutSecs  int
	RateLimit         int
	RateWindowSeconds int
}

func Load() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		// sqlite file path by default; for mysql use the usual
		// user:pass@tcp(host:port)/dbname?parseTime=true form
		dsn = "database/gpu_database.db"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" && os.Getenv("ADMIN_PASSWORD_HASH") == "" {
		adminPassword = "admin123"
	}

	baseURL := os.Getenv("DEEPSEEK_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	model := os.Getenv("DEEPSEEK_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}

	temperature := 0.7
	if v := os.Getenv("CHAT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			temperature = f
		}
	}

	pythonBin := os.Getenv("PYTHON_BIN")
	if pythonBin == "" {
		pythonBin = "python3"
	}
	script := os.Getenv("SEARCH_SCRIPT")
	if script == "" {
		script = "tools/gpu_search.py"
	}
	publicDir := os.Getenv("PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "public"
	}

	return Config{
		HTTPAddr: addr,

		DBDriver: driver,
		DBDSN:    dsn,

		JWTSecret:         secret,
		AdminPassword:     adminPassword,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		DeepSeekBaseURL: baseURL,
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekModel:   model,
		ChatMaxTokens:   envInt("CHAT_MAX_TOKENS", 2000),
		ChatTemperature: temperature,

		PythonBin:    pythonBin,
		SearchScript: script,
		PublicDir:    publicDir,

		CacheTTLDays:      envInt("CACHE_TTL_DAYS", 30),
		FetchTimeoutSecs:  envInt("FETCH_TIMEOUT_SECONDS", 15),
		RateLimit:         envInt("RATE_LIMIT", 10),
		RateWindowSeconds: envInt("RATE_WINDOW_SECONDS", 180),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
