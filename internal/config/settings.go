package config

import "fmt"

// DefaultModel is used when the settings file does not name a model.
const DefaultModel = "claude-opus-4-5-20251101"

// Settings holds the validated process settings.
// It is loaded once at startup and passed by value afterwards.
type Settings struct {
	Env   EnvSettings   `mapstructure:"env"`
	Model ModelSettings `mapstructure:"model"`
}

type EnvSettings struct {
	APIKey     string `mapstructure:"api_key"`     // Required, secret
	BaseURL    string `mapstructure:"base_url"`    // Required, http(s)
	HTTPSProxy string `mapstructure:"https_proxy"` // Optional, http(s)
}

type ModelSettings struct {
	Name string `mapstructure:"name"` // Optional, see DefaultModel
}

// ModelName returns the configured model or DefaultModel.
func (s Settings) ModelName() string {
	if s.Model.Name == "" {
		return DefaultModel
	}
	return s.Model.Name
}

// HasProxy reports whether an https proxy is configured.
func (s Settings) HasProxy() bool {
	return s.Env.HTTPSProxy != ""
}

// Redacted returns a copy safe to print or log.
func (s Settings) Redacted() Settings {
	out := s
	if out.Env.APIKey != "" {
		out.Env.APIKey = redactedKey
	}
	return out
}

const redactedKey = "[redacted]"

// String never includes the API key.
func (s Settings) String() string {
	r := s.Redacted()
	proxy := r.Env.HTTPSProxy
	if proxy == "" {
		proxy = "none"
	}
	return fmt.Sprintf("api_key=%s base_url=%s https_proxy=%s model=%s",
		r.Env.APIKey, r.Env.BaseURL, proxy, r.ModelName())
}

// GoString keeps %#v from printing the key.
func (s Settings) GoString() string {
	return "config.Settings{" + s.String() + "}"
}
