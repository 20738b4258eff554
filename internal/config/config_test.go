package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	for _, k := range []string{
		"PORT", "API_BASE_PATH", "QUESTIONS_PATH", "ANSWERS_PATH",
		"IDEMPOTENCY_DSN", "LOG_LEVEL", "GIN_MODE", "CORS_ALLOWED_ORIGINS",
	} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3030", cfg.Port)
	assert.Equal(t, "/", cfg.APIBasePath)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.QuestionsPath)
	assert.Empty(t, cfg.AnswersPath)
	assert.True(t, cfg.LogRedact)
	assert.False(t, cfg.GzipEnabled)
	assert.Contains(t, cfg.IdempotencyDSN, "mode=memory")
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 20.0, cfg.RateRPS)
	assert.Equal(t, 40, cfg.RateBurst)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "go-qa-backend", cfg.OTEL.ServiceName)
	assert.Equal(t, 1.0, cfg.OTEL.SampleRatio)
}

func TestLoad_Overrides(t *testing.T) {
	env := map[string]string{
		"PORT":                        "8088",
		"READ_TIMEOUT":                "2s",
		"READ_HEADER_TIMEOUT":         "1s",
		"WRITE_TIMEOUT":               "3s",
		"IDLE_TIMEOUT":                "4s",
		"SHUTDOWN_TIMEOUT":            "5s",
		"MAX_HEADER_BYTES":            "8192",
		"MAX_BODY_BYTES":              "4096",
		"GIN_MODE":                    "weird",
		"LOG_LEVEL":                   "WARNING",
		"LOG_PRETTY":                  "yes",
		"LOG_REDACT":                  "off",
		"SWAGGER_ENABLED":             "On",
		"GZIP_ENABLED":                "1",
		"API_BASE_PATH":               "api/v1/",
		"QUESTIONS_PATH":              "data/questions.json",
		"ANSWERS_PATH":                "data/answers.json",
		"IDEMPOTENCY_DSN":             "file:ledger.db",
		"IDEMPOTENCY_TTL":             "48h",
		"RATE_RPS":                    "2.5",
		"RATE_BURST":                  "3",
		"CORS_ALLOWED_ORIGINS":        " https://a.com , , http://b ",
		"ENABLE_HSTS":                 "TRUE",
		"HSTS_MAX_AGE":                "24h",
		"OTEL_ENABLED":                "y",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "otel:4317",
		"OTEL_EXPORTER_OTLP_INSECURE": "n",
		"OTEL_SERVICE_NAME":           "svc",
		"OTEL_TRACES_SAMPLER_ARG":     "0.75",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		Port:              "8088",
		ReadTimeout:       2 * time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      3 * time.Second,
		IdleTimeout:       4 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxHeaderBytes:    8192,
		MaxBodyBytes:      4096,
		GinMode:           "release",
		LogLevel:          "warn",
		LogPretty:         true,
		LogRedact:         false,
		SwaggerEnabled:    true,
		GzipEnabled:       true,
		APIBasePath:       "/api/v1",
		QuestionsPath:     "data/questions.json",
		AnswersPath:       "data/answers.json",
		IdempotencyDSN:    "file:ledger.db",
		IdempotencyTTL:    48 * time.Hour,
		RateRPS:           2.5,
		RateBurst:         3,
		CORS:              CORSConfig{AllowedOrigins: []string{"https://a.com", "http://b"}},
		Security:          SecurityConfig{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour},
		OTEL: OTELConfig{
			Enabled:     true,
			Endpoint:    "otel:4317",
			Insecure:    false,
			ServiceName: "svc",
			SampleRatio: 0.75,
		},
	}, cfg)
}

func TestLoad_UnparsableValues(t *testing.T) {
	t.Setenv("RATE_RPS", "x")
	t.Setenv("RATE_BURST", "nope")
	t.Setenv("IDLE_TIMEOUT", "soon")
	t.Setenv("GZIP_ENABLED", "maybe")

	cfg, err := Load()
	require.Error(t, err)
	for _, want := range []string{`RATE_RPS="x"`, `RATE_BURST="nope"`, `IDLE_TIMEOUT="soon"`, `GZIP_ENABLED="maybe"`} {
		assert.Contains(t, err.Error(), want)
	}
	// fields keep their defaults
	assert.Equal(t, 20.0, cfg.RateRPS)
	assert.Equal(t, 40, cfg.RateBurst)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.False(t, cfg.GzipEnabled)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		key, val, want string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"PORT", "   ", "PORT must not be empty"},
		{"READ_TIMEOUT", "0s", "timeouts must be positive"},
		{"MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"MAX_BODY_BYTES", "-5", "MAX_BODY_BYTES"},
		{"IDEMPOTENCY_DSN", "   ", "IDEMPOTENCY_DSN"},
		{"RATE_RPS", "-1", "RATE_RPS"},
		{"RATE_BURST", "0", "RATE_BURST"},
		{"HSTS_MAX_AGE", "-1s", "HSTS_MAX_AGE"},
		{"IDEMPOTENCY_TTL", "0s", "IDEMPOTENCY_TTL"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("RATE_BURST", "0")
	t.Setenv("IDEMPOTENCY_TTL", "0s")
	t.Setenv("MAX_BODY_BYTES", "big")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_BURST must be >= 1")
	assert.Contains(t, err.Error(), "IDEMPOTENCY_TTL must be > 0")
	assert.Contains(t, err.Error(), `MAX_BODY_BYTES="big"`)
}

func TestMustLoad(t *testing.T) {
	assert.NotPanics(t, func() { _ = MustLoad() })

	t.Setenv("LOG_LEVEL", "verbose")
	assert.Panics(t, func() { _ = MustLoad() })
}

func TestEnv_Bool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "Y", "on"} {
		t.Setenv("B", v)
		var e env
		assert.True(t, e.bool("B", false), v)
		assert.Empty(t, e.errs, v)
	}
	for _, v := range []string{"0", "false", " no ", "N", "Off"} {
		t.Setenv("B", v)
		var e env
		assert.False(t, e.bool("B", true), v)
		assert.Empty(t, e.errs, v)
	}

	t.Setenv("B", "")
	var e env
	assert.True(t, e.bool("B", true), "empty takes the default")
	assert.Empty(t, e.errs)
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Nil(t, splitCSV(" , ,"))
	assert.Equal(t, []string{"a", "b", "c"}, splitCSV(" a, ,b ,  c  ,"))
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		" / ":      "/",
		"v1":       "/v1",
		"/v1/":     "/v1",
		"//api//":  "/api",
		"api/v2/x": "/api/v2/x",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeBasePath(in), "input %q", in)
	}
}
