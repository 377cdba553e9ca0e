package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range []string{
		"SERVICE_NAME", "BROKER", "AMQP_URL", "HTTP_ADDR", "LOG_FORMAT", "LOG_LEVEL",
		"PUBSUB_TRACING_ENABLED", "PUBSUB_TRACING_SERVICE_NAME", "PUBSUB_TRACING_ZIPKIN_URL",
		"PUBSUB_TRACING_SERVICE_VERSION", "PUBSUB_TRACING_SAMPLE_RATIO",
	} {
		t.Setenv(key, vars[key])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"SERVICE_NAME": "billing-service"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing-service", cfg.ServiceName)
	assert.Equal(t, BrokerAMQP, cfg.Broker)
	assert.Equal(t, defaultAMQPURL, cfg.AMQPURL)
	assert.Equal(t, defaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "dev", cfg.Tracing.ServiceVersion)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.Equal(t, "billing-service", cfg.Tracing.ServiceName)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"SERVICE_NAME":                "  shipping  ",
		"BROKER":                      "memory",
		"HTTP_ADDR":                   ":9090",
		"LOG_FORMAT":                  "json",
		"LOG_LEVEL":                   "debug",
		"PUBSUB_TRACING_ENABLED":      "true",
		"PUBSUB_TRACING_SERVICE_NAME": "shipping-traces",
		"PUBSUB_TRACING_ZIPKIN_URL":   "http://zipkin:9411/api/v2/spans",

		"PUBSUB_TRACING_SERVICE_VERSION": "1.4.2",
		"PUBSUB_TRACING_SAMPLE_RATIO":    "0.25",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shipping", cfg.ServiceName)
	assert.Equal(t, BrokerMemory, cfg.Broker)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "shipping-traces", cfg.Tracing.ServiceName)
	assert.Equal(t, "http://zipkin:9411/api/v2/spans", cfg.Tracing.ZipkinURL)
	assert.Equal(t, "1.4.2", cfg.Tracing.ServiceVersion)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRatio, 1e-9)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing service name", map[string]string{}},
		{"blank service name", map[string]string{"SERVICE_NAME": "   "}},
		{"unknown broker", map[string]string{"SERVICE_NAME": "svc", "BROKER": "kafka"}},
		{"bad amqp url", map[string]string{"SERVICE_NAME": "svc", "AMQP_URL": "http://localhost"}},
		{"bad log format", map[string]string{"SERVICE_NAME": "svc", "LOG_FORMAT": "xml"}},
		{"bad log level", map[string]string{"SERVICE_NAME": "svc", "LOG_LEVEL": "trace"}},
		{"sample ratio above one", map[string]string{"SERVICE_NAME": "svc", "PUBSUB_TRACING_SAMPLE_RATIO": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.vars)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_AMQPURLIgnoredForMemoryBroker(t *testing.T) {
	setEnv(t, map[string]string{"SERVICE_NAME": "svc", "BROKER": "memory", "AMQP_URL": "not a url"})

	_, err := Load()
	assert.Error(t, err, "a set AMQP_URL is still validated")

	setEnv(t, map[string]string{"SERVICE_NAME": "svc", "BROKER": "memory"})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BrokerMemory, cfg.Broker)
}

func TestLoad_InvalidTracingFlagIgnored(t *testing.T) {
	setEnv(t, map[string]string{"SERVICE_NAME": "svc", "PUBSUB_TRACING_ENABLED": "maybe"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Tracing.Enabled)
}
