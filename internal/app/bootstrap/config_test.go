package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "leaguehub",
		AuthSecret:    "0123456789abcdef0123456789abcdef",
		StorageType:   "local",
	}
}

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()

	if err := ValidateConfig(nil, validAppConfig(), logger); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "not-a-uri" }},
		{"missing auth secret", func(c *AppConfig) { c.AuthSecret = "" }},
		{"unknown storage type", func(c *AppConfig) { c.StorageType = "ftp" }},
		{"s3 without bucket", func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Region = "us-east-1" }},
		{"s3 without region", func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Bucket = "b" }},
	}
	for _, tc := range cases {
		cfg := validAppConfig()
		tc.mutate(&cfg)
		if err := ValidateConfig(nil, cfg, logger); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
