package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for otabot.
// Secrets are never stored here; see Secrets.
type Config struct {
	Flavors           []FlavorConfig     `toml:"flavors"`
	MetadataExt       string             `toml:"metadata_ext"`
	Ignore            []string           `toml:"ignore"`
	HashLog           HashLogConfig      `toml:"hash_log"`
	CommitMessagePath string             `toml:"commit_message_path"`
	LogDir            string             `toml:"log_dir"`
	LogLevel          string             `toml:"log_level"` // debug, info, warn or error
	HTTPTimeout       Duration           `toml:"http_timeout"`
	Banner            BannerConfig       `toml:"banner"`
	Announcement      AnnouncementConfig `toml:"announcement"`
	Digest            DigestConfig       `toml:"digest"`
	Telegram          TelegramConfig     `toml:"telegram"`
	Upstream          UpstreamConfig     `toml:"upstream"`
	Telegraph         TelegraphConfig    `toml:"telegraph"`
}

// FlavorConfig names one build variant and the directory holding its metadata files.
type FlavorConfig struct {
	Name string `toml:"name"`
	Dir  string `toml:"dir"`
}

// HashLogConfig represents configuration for the announced-hash log.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type HashLogConfig struct {
	Type string `toml:"type"`           // "file" (default) or "memory"
	Path string `toml:"path,omitempty"` // only used for type=file
}

// BannerConfig locates the banner template and fonts.
type BannerConfig struct {
	TemplatePath string `toml:"template_path"`
	FontDir      string `toml:"font_dir"`
	TitleFont    string `toml:"title_font"`    // vendor and device name
	CodenameFont string `toml:"codename_font"` // codename line
	OutputDir    string `toml:"output_dir"`
}

// AnnouncementConfig holds the branding of channel posts.
// Link templates may reference {codename} and {maintainer}.
type AnnouncementConfig struct {
	Heading        string   `toml:"heading"`
	VersionLabel   string   `toml:"version_label"`
	ScreenshotsURL string   `toml:"screenshots_url"`
	ChangelogURL   string   `toml:"changelog_url"`
	MaintainerURL  string   `toml:"maintainer_url"`
	Hashtags       []string `toml:"hashtags"`
	CommitTitle    string   `toml:"commit_title"`
}

// DigestConfig holds the branding of the private status digest.
type DigestConfig struct {
	ROMName       string `toml:"rom_name"`
	PageTitle     string `toml:"page_title"`
	ButtonText    string `toml:"button_text"`
	MaintainerURL string `toml:"maintainer_url"`
}

// TelegramConfig configures the bot API client.
type TelegramConfig struct {
	APIEndpoint string   `toml:"api_endpoint"` // format string with bot token and method, e.g. https://api.telegram.org/bot%s/%s
	PostDelay   Duration `toml:"post_delay"`
}

// UpstreamConfig locates the version file of the ROM vendor repository.
type UpstreamConfig struct {
	APIURL      string `toml:"api_url,omitempty"` // empty means api.github.com
	Owner       string `toml:"owner"`
	Repo        string `toml:"repo"`
	Ref         string `toml:"ref,omitempty"` // empty means the default branch
	VersionPath string `toml:"version_path"`
	MajorKey    string `toml:"major_key"`
	MinorKey    string `toml:"minor_key"`
}

// TelegraphConfig configures the page publishing service.
type TelegraphConfig struct {
	APIURL     string `toml:"api_url"`
	ShortName  string `toml:"short_name"`
	AuthorName string `toml:"author_name"`
	AuthorURL  string `toml:"author_url"`
}

// NewConfig creates a Config with the DroidX-UI defaults. Relative paths are
// resolved against the working directory, normally the OTA repository root.
func NewConfig() *Config {
	return &Config{
		Flavors: []FlavorConfig{
			{Name: "Gapps", Dir: filepath.Join("builds", "gapps")},
			{Name: "Vanilla", Dir: filepath.Join("builds", "vanilla")},
		},
		MetadataExt:       ".json",
		HashLog:           HashLogConfig{Type: "file", Path: filepath.Join(".github", "scripts", "file_ids.txt")},
		CommitMessagePath: "commit_mesg.txt",
		LogLevel:          "info",
		HTTPTimeout:       Duration(30 * time.Second),
		Banner: BannerConfig{
			TemplatePath: filepath.Join("assets", "banners", "template.png"),
			FontDir:      filepath.Join("assets", "fonts"),
			TitleFont:    "GENERALSANS-MEDIUM.OTF",
			CodenameFont: "CONFIG-MEDIUM.OTF",
			OutputDir:    "assets",
		},
		Announcement: AnnouncementConfig{
			Heading:        "DXUI Mars",
			VersionLabel:   "DXUI Version",
			ScreenshotsURL: "https://t.me/droidxui_screenshots",
			ChangelogURL:   "https://raw.githubusercontent.com/DroidX-UI-Devices/vendor_droidxOTA/14/changelogs/{codename}.txt",
			MaintainerURL:  "https://t.me/{maintainer}",
			Hashtags:       []string{"Mars", "{codename}", "Android14", "Official"},
			CommitTitle:    "DroidX: Update new IDs and push OTA [BOT]",
		},
		Digest: DigestConfig{
			ROMName:       "DroidX-UI",
			PageTitle:     "Device Update Status",
			ButtonText:    "More Info",
			MaintainerURL: "https://t.me/{maintainer}",
		},
		Telegram: TelegramConfig{
			APIEndpoint: "https://api.telegram.org/bot%s/%s",
			PostDelay:   Duration(5 * time.Second),
		},
		Upstream: UpstreamConfig{
			Owner:       "DroidX-UI",
			Repo:        "vendor_droidx",
			VersionPath: "config/version.mk",
			MajorKey:    "PRODUCT_VERSION_MAJOR",
			MinorKey:    "PRODUCT_VERSION_MINOR",
		},
		Telegraph: TelegraphConfig{
			APIURL:     "https://api.graph.org",
			ShortName:  "droidx-ui-bot",
			AuthorName: "DroidX-UI Bot",
			AuthorURL:  "https://t.me/droidxui_bot",
		},
	}
}

// Validate reports configuration that cannot produce a run.
func (c *Config) Validate() error {
	if len(c.Flavors) == 0 {
		return fmt.Errorf("no flavors configured")
	}
	for i, f := range c.Flavors {
		if f.Name == "" || f.Dir == "" {
			return fmt.Errorf("flavor %d: name and dir are required", i)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Telegram.PostDelay < 0 {
		return fmt.Errorf("telegram.post_delay must not be negative")
	}
	if c.Upstream.Owner == "" || c.Upstream.Repo == "" || c.Upstream.VersionPath == "" {
		return fmt.Errorf("upstream owner, repo and version_path are required")
	}
	return nil
}

// SlogLevel parses LogLevel. An empty level means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys absent from the
// input keep their NewConfig defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := NewConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
