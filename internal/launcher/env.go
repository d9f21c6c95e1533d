package launcher

import (
	"strings"

	"github.com/Cyclone1070/mentat/internal/config"
)

// Variables the child reads its settings from.
const (
	EnvAuthToken  = "ANTHROPIC_AUTH_TOKEN"
	EnvBaseURL    = "ANTHROPIC_BASE_URL"
	EnvHTTPSProxy = "HTTPS_PROXY"
	EnvModel      = "ANTHROPIC_MODEL"
)

// ChildEnv returns base with the settings exported on top of it.
// Existing entries for the exported names are replaced. HTTPS_PROXY is only
// overridden when a proxy is configured.
func ChildEnv(base []string, s config.Settings) []string {
	set := map[string]string{
		EnvAuthToken: s.Env.APIKey,
		EnvBaseURL:   s.Env.BaseURL,
		EnvModel:     s.ModelName(),
	}
	if s.HasProxy() {
		set[EnvHTTPSProxy] = s.Env.HTTPSProxy
	}

	out := make([]string, 0, len(base)+len(set))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := set[name]; ok {
			continue
		}
		out = append(out, kv)
	}
	for _, name := range []string{EnvAuthToken, EnvBaseURL, EnvHTTPSProxy, EnvModel} {
		if v, ok := set[name]; ok {
			out = append(out, name+"="+v)
		}
	}
	return out
}
