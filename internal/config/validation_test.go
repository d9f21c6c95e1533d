package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validSettings() *Settings {
	return &Settings{Env: EnvSettings{APIKey: secretKey, BaseURL: "https://api.anthropic.com"}}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		reason string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"valid with http proxy", func(s *Settings) { s.Env.HTTPSProxy = "http://proxy.example.com:8080" }, ""},
		{"valid plain http base", func(s *Settings) { s.Env.BaseURL = "http://localhost:3000" }, ""},
		{"empty key", func(s *Settings) { s.Env.APIKey = "" }, "API key is required"},
		{"empty base url", func(s *Settings) { s.Env.BaseURL = "" }, "invalid base URL"},
		{"no scheme", func(s *Settings) { s.Env.BaseURL = "api.anthropic.com" }, "invalid base URL"},
		{"scheme only", func(s *Settings) { s.Env.BaseURL = "https://" }, "invalid base URL"},
		{"uppercase scheme", func(s *Settings) { s.Env.BaseURL = "HTTPS://api.anthropic.com" }, "invalid base URL"},
		{"socks proxy", func(s *Settings) { s.Env.HTTPSProxy = "socks5://proxy:1080" }, "invalid proxy URL"},
		{"key checked first", func(s *Settings) { s.Env.APIKey = ""; s.Env.BaseURL = "" }, "API key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.EqualError(t, err, "invalid settings: "+tt.reason)
		})
	}
}

func TestSettings_NeverPrintsKey(t *testing.T) {
	s := validSettings()
	s.Env.HTTPSProxy = "http://proxy:3128"

	for _, out := range []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%+v", *s),
		fmt.Sprintf("%#v", *s),
		s.Redacted().Env.APIKey,
	} {
		assert.NotContains(t, out, secretKey)
	}
	assert.Contains(t, s.String(), "https://api.anthropic.com")
	assert.Equal(t, secretKey, s.Env.APIKey, "Redacted must not modify the receiver")
}

func TestSettings_RedactedEmptyKeyStaysEmpty(t *testing.T) {
	s := Settings{}
	assert.Empty(t, s.Redacted().Env.APIKey)
}

func validBootstrap() *Bootstrap {
	b := DefaultBootstrap()
	b.InstallDir = "/tmp/mentat"
	return b
}

func TestBootstrapValidate_Defaults_Pass(t *testing.T) {
	assert.NoError(t, validBootstrap().Validate())
}

func TestBootstrapValidate_DefaultInstallDirRequired(t *testing.T) {
	err := DefaultBootstrap().Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "install dir")
}

func TestBootstrapValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Bootstrap)
		want   string
	}{
		{"empty name", func(b *Bootstrap) { b.ArtifactName = "" }, "artifact name is required"},
		{"name with slash", func(b *Bootstrap) { b.ArtifactName = "../evil" }, "plain file name"},
		{"bad version", func(b *Bootstrap) { b.Version = "latest" }, "semantic version"},
		{"bad host", func(b *Bootstrap) { b.ReleaseHost = "github.com" }, "release host"},
		{"bad repo", func(b *Bootstrap) { b.Repo = "mentat" }, "owner/name"},
		{"zero download timeout", func(b *Bootstrap) { b.DownloadTimeout = 0 }, "download timeout"},
		{"zero wait", func(b *Bootstrap) { b.WaitTimeout = 0 }, "wait timeout"},
		{"zero poll", func(b *Bootstrap) { b.PollInterval = 0 }, "poll interval must be > 0"},
		{"poll exceeds wait", func(b *Bootstrap) { b.PollInterval = time.Minute }, "poll interval must be <= wait timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBootstrap()
			tt.mutate(b)
			err := b.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBootstrapValidate_AcceptsLeadingV(t *testing.T) {
	b := validBootstrap()
	b.Version = "v1.2.3"
	assert.NoError(t, b.Validate())
}

func TestBootstrapValidate_MultipleErrors_ReportsAll(t *testing.T) {
	b := validBootstrap()
	b.ArtifactName = ""
	b.Version = "nope"
	b.WaitTimeout = 0

	err := b.Validate()
	assert.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "artifact name")
	assert.Contains(t, msg, "version")
	assert.Contains(t, msg, "wait timeout")
}

func TestBootstrapManifest(t *testing.T) {
	b := validBootstrap()
	assert.Equal(t, "/tmp/mentat/checksums.json", b.Manifest())

	b.ManifestPath = "/etc/mentat/sums.json"
	assert.Equal(t, "/etc/mentat/sums.json", b.Manifest())
}

func TestToolsConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultTools().Validate())

	c := DefaultTools()
	c.MaxFileSize = 0
	err := c.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tools validation failed")
	assert.Contains(t, err.Error(), "max_file_size")
	assert.NotContains(t, err.Error(), "config validation failed")
}
