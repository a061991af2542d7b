// Package datasource resolves and connects to the voice-agent backend.
package datasource

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/daviddao/voiceagent_viewer/internal/client"
)

// EnvAPIURL names the environment variable holding the backend address.
const EnvAPIURL = "VAV_API_URL"

// Discover finds the backend base address.
// Priority: explicit address (--api flag) > VAV_API_URL env var > http://localhost:5001.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		return validate(explicit, "--api")
	}
	if env := os.Getenv(EnvAPIURL); env != "" {
		return validate(env, EnvAPIURL)
	}
	return client.DefaultBaseURL, nil
}

func validate(raw, source string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s=%q: %w", source, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%s=%q: scheme must be http or https", source, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%s=%q: missing host", source, raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("%s=%q: base address takes no query or fragment", source, raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Open discovers the backend address and returns a client for it.
func Open(explicit string, logger *slog.Logger) (*client.Client, string, error) {
	base, err := Discover(explicit)
	if err != nil {
		return nil, "", err
	}
	return client.New(base, client.WithLogger(logger)), base, nil
}
