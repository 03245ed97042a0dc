package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/alethic/forumdigest/internal/models"
)

const (
	defaultDigestDays = 7
	defaultOutputDir  = "digests"
)

// Error reports a malformed or invalid configuration value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Telegram holds optional digest delivery settings.
type Telegram struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

// Config is the validated, immutable run configuration. Loaded once at process
// start; operations receive it explicitly and never mutate it.
type Config struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
	DigestDays    int                   `json:"digest_days"`
	OutputDir     string                `json:"output_dir"`
	Auth          map[string]string     `json:"auth,omitempty"`
	Telegram      *Telegram             `json:"telegram,omitempty"`
	OpenAIAPIKey  string                `json:"openai_api_key,omitempty"`

	path string
}

type rawSubscription struct {
	Type  string `json:"type"`
	Forum string `json:"forum"`
	Slug  string `json:"slug"`
}

type rawConfig struct {
	Subscriptions []rawSubscription `json:"subscriptions"`
	DigestDays    *int              `json:"digest_days"`
	OutputDir     string            `json:"output_dir"`
	Auth          map[string]string `json:"auth"`
	Telegram      *Telegram         `json:"telegram"`
	OpenAIAPIKey  string            `json:"openai_api_key"`
}

// Load reads and validates the configuration file. A missing file yields the
// defaults (no subscriptions, 7-day window, "digests" output dir) so read-only
// commands work without any setup.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DigestDays: defaultDigestDays,
		OutputDir:  defaultOutputDir,
		Auth:       map[string]string{},
		path:       path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Field: path, Reason: err.Error()}
	}

	for i, sub := range raw.Subscriptions {
		parsed, err := parseSubscription(sub)
		if err != nil {
			return nil, &Error{Field: fmt.Sprintf("subscriptions[%d]", i), Reason: err.Error()}
		}
		cfg.Subscriptions = append(cfg.Subscriptions, parsed)
	}

	if raw.DigestDays != nil {
		if *raw.DigestDays <= 0 {
			return nil, &Error{Field: "digest_days", Reason: "must be a positive integer"}
		}
		cfg.DigestDays = *raw.DigestDays
	}
	if raw.OutputDir != "" {
		cfg.OutputDir = raw.OutputDir
	}
	if raw.Auth != nil {
		cfg.Auth = raw.Auth
	}
	cfg.Telegram = raw.Telegram
	cfg.OpenAIAPIKey = raw.OpenAIAPIKey

	cfg.applyEnv()
	return cfg, nil
}

func parseSubscription(raw rawSubscription) (models.Subscription, error) {
	if raw.Type == "" {
		return models.Subscription{}, errors.New("missing type")
	}
	if raw.Forum == "" {
		return models.Subscription{}, errors.New("missing forum")
	}
	if raw.Slug == "" {
		return models.Subscription{}, errors.New("missing slug")
	}

	subType, err := models.ParseSubscriptionType(raw.Type)
	if err != nil {
		return models.Subscription{}, err
	}
	forum, err := models.ParseForum(raw.Forum)
	if err != nil {
		return models.Subscription{}, err
	}

	return models.Subscription{Type: subType, Forum: forum, Slug: raw.Slug}, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAIAPIKey = key
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		if c.Telegram == nil {
			c.Telegram = &Telegram{}
		}
		c.Telegram.Token = token
	}
}

// AuthToken returns the loginToken for a forum, or "" when none is configured.
// Alignment Forum shares the LessWrong account, so its token maps there.
func (c *Config) AuthToken(forum models.Forum) string {
	return c.Auth[string(authForum(forum))]
}

// SetAuthToken stores a loginToken for a forum.
func (c *Config) SetAuthToken(forum models.Forum, token string) {
	if c.Auth == nil {
		c.Auth = map[string]string{}
	}
	c.Auth[string(authForum(forum))] = token
}

func authForum(forum models.Forum) models.Forum {
	if forum == models.ForumAlignmentForum {
		return models.ForumLessWrong
	}
	return forum
}

// AuthTokens returns the token map keyed by forum, with the Alignment Forum
// entry resolved from the shared LessWrong token.
func (c *Config) AuthTokens() map[models.Forum]string {
	tokens := map[models.Forum]string{}
	for _, forum := range models.Forums() {
		if token := c.AuthToken(forum); token != "" {
			tokens[forum] = token
		}
	}
	return tokens
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	data = append(data, '\n')

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating config dir %s", dir)
		}
	}
	return errors.Wrapf(os.WriteFile(c.path, data, 0o600), "writing config %s", c.path)
}
