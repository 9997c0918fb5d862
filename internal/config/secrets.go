package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSecrets is returned when required environment variables are unset.
var ErrMissingSecrets = errors.New("missing required environment variables")

// Environment variable names read by LoadSecrets.
const (
	EnvBotToken       = "BOT_TOKEN"
	EnvChatID         = "CHAT_ID"
	EnvPrivateChatID  = "PRIV_CHAT_ID"
	EnvGitHubToken    = "GH_TOKEN"
	EnvTelegraphToken = "TELEGRAPH_TOKEN" // optional
)

// Secrets are the credentials and chat identifiers supplied by the CI environment.
type Secrets struct {
	BotToken       string
	ChatID         string // public channel
	PrivateChatID  string // maintainers group
	GitHubToken    string
	TelegraphToken string
}

// LoadSecrets reads secrets through getenv (normally os.Getenv). Every
// missing required variable is named in the returned error.
func LoadSecrets(getenv func(string) string) (*Secrets, error) {
	s := &Secrets{
		BotToken:       strings.TrimSpace(getenv(EnvBotToken)),
		ChatID:         strings.TrimSpace(getenv(EnvChatID)),
		PrivateChatID:  strings.TrimSpace(getenv(EnvPrivateChatID)),
		GitHubToken:    strings.TrimSpace(getenv(EnvGitHubToken)),
		TelegraphToken: strings.TrimSpace(getenv(EnvTelegraphToken)),
	}

	var missing []string
	for _, req := range []struct{ name, val string }{
		{EnvBotToken, s.BotToken},
		{EnvChatID, s.ChatID},
		{EnvPrivateChatID, s.PrivateChatID},
		{EnvGitHubToken, s.GitHubToken},
	} {
		if req.val == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingSecrets, strings.Join(missing, ", "))
	}
	return s, nil
}
