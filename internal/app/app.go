package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"otabot/internal/banner"
	"otabot/internal/config"
	"otabot/internal/fs"
	"otabot/internal/github"
	"otabot/internal/hashlog"
	"otabot/internal/ota"
	"otabot/internal/registry"
	"otabot/internal/telegram"
	"otabot/internal/telegraph"
)

// ErrNoSecrets is returned by operations that post to Telegram when the app
// was created without secrets.
var ErrNoSecrets = errors.New("operation needs bot secrets")

// OTAApp is the application layer between the CLI and OTAService.
// It constructs all dependencies from config and secrets, scans the registry
// for each operation, and records the operation outcome on Close.
type OTAApp struct {
	cfg     *config.Config
	fsmgr   ota.FilesystemManager
	scanner *registry.Scanner
	service *ota.OTAService
	logger  *slog.Logger
	op      *Operation
	logFile *os.File
}

// NewOTAApp creates a fully wired OTAApp from the given config.
// operation identifies the CLI command being run (e.g. "run", "digest").
// secrets may be nil for local-only operations such as Devices.
// The caller must call Close when done.
func NewOTAApp(cfg *config.Config, secrets *config.Secrets, operation string) (*OTAApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	op := NewOperation(operation, ota.UUIDGenerator{}.New())
	logger, logFile, err := newLogger(cfg.LogDir, op.RunID, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager()
	flavors := make([]ota.Flavor, len(cfg.Flavors))
	for i, f := range cfg.Flavors {
		flavors[i] = ota.Flavor{Name: f.Name, Dir: f.Dir}
	}

	a := &OTAApp{
		cfg:     cfg,
		fsmgr:   fsmgr,
		scanner: registry.NewScanner(fsmgr, flavors, cfg.MetadataExt, cfg.Ignore),
		logger:  logger,
		op:      op,
		logFile: logFile,
	}

	if secrets != nil {
		svc, err := newService(cfg, secrets, fsmgr, &slogAdapter{l: logger})
		if err != nil {
			a.closeLog()
			return nil, err
		}
		a.service = svc
	}

	logger.Info("operation started", "operation", operation)
	return a, nil
}

func newService(cfg *config.Config, secrets *config.Secrets, fsmgr ota.FilesystemManager, logger ota.Logger) (*ota.OTAService, error) {
	hashLog, err := hashlog.NewHashLogFromConfig(cfg.HashLog, fsmgr)
	if err != nil {
		return nil, fmt.Errorf("creating hash log: %w", err)
	}

	banners, err := banner.NewRendererFromConfig(cfg.Banner, fsmgr)
	if err != nil {
		return nil, fmt.Errorf("loading banner assets: %w", err)
	}

	timeout := cfg.HTTPTimeout.Std()
	versions, err := github.NewVersionSource(cfg.Upstream, secrets.GitHubToken, timeout)
	if err != nil {
		return nil, fmt.Errorf("creating version source: %w", err)
	}

	settings := ota.Settings{
		PublicChat:        secrets.ChatID,
		PrivateChat:       secrets.PrivateChatID,
		PostDelay:         cfg.Telegram.PostDelay.Std(),
		CommitMessagePath: cfg.CommitMessagePath,
		Announcement: ota.AnnouncementTemplate{
			Heading:        cfg.Announcement.Heading,
			VersionLabel:   cfg.Announcement.VersionLabel,
			ScreenshotsURL: cfg.Announcement.ScreenshotsURL,
			ChangelogURL:   cfg.Announcement.ChangelogURL,
			MaintainerURL:  cfg.Announcement.MaintainerURL,
			Hashtags:       cfg.Announcement.Hashtags,
			CommitTitle:    cfg.Announcement.CommitTitle,
		},
		Digest: ota.DigestTemplate{
			ROMName:       cfg.Digest.ROMName,
			PageTitle:     cfg.Digest.PageTitle,
			ButtonText:    cfg.Digest.ButtonText,
			MaintainerURL: cfg.Digest.MaintainerURL,
		},
	}

	return ota.NewOTAService(
		settings,
		hashLog,
		fsmgr,
		banners,
		telegram.NewMessengerFromConfig(cfg.Telegram, secrets.BotToken, timeout),
		versions,
		telegraph.NewPublisherFromConfig(cfg.Telegraph, secrets.TelegraphToken, timeout),
		logger,
		ota.RealClock{},
	), nil
}

// Operation returns the record of the operation being run.
func (a *OTAApp) Operation() *Operation {
	return a.op
}

// Scan reads the build registry once.
func (a *OTAApp) Scan() (*ota.Catalog, error) {
	catalog, err := a.scanner.Scan()
	if err != nil {
		return nil, a.fail(fmt.Errorf("scanning registry: %w", err))
	}
	a.logger.Info("registry scanned", "builds", catalog.Len())
	return catalog, nil
}

// Devices returns a summary of every build in the registry.
func (a *OTAApp) Devices() ([]ota.DeviceSummary, error) {
	catalog, err := a.Scan()
	if err != nil {
		return nil, err
	}
	return catalog.Summaries(), nil
}

// Announce posts every build not yet in the hash log.
// ota.ErrNothingToAnnounce is returned unchanged when there is nothing new.
func (a *OTAApp) Announce(ctx context.Context) (*ota.AnnounceResult, error) {
	if a.service == nil {
		return nil, a.fail(ErrNoSecrets)
	}
	catalog, err := a.Scan()
	if err != nil {
		return nil, err
	}
	return a.announce(ctx, catalog)
}

// Digest sends the device update status to the private chat.
func (a *OTAApp) Digest(ctx context.Context) (*ota.DigestReport, error) {
	if a.service == nil {
		return nil, a.fail(ErrNoSecrets)
	}
	catalog, err := a.Scan()
	if err != nil {
		return nil, err
	}
	return a.digest(ctx, catalog)
}

// Run announces new builds and then sends the digest, both from a single
// registry scan. The digest is skipped when there was nothing to announce.
func (a *OTAApp) Run(ctx context.Context) (*ota.AnnounceResult, *ota.DigestReport, error) {
	if a.service == nil {
		return nil, nil, a.fail(ErrNoSecrets)
	}
	catalog, err := a.Scan()
	if err != nil {
		return nil, nil, err
	}

	result, err := a.announce(ctx, catalog)
	if err != nil {
		return result, nil, err
	}
	report, err := a.digest(ctx, catalog)
	return result, report, err
}

func (a *OTAApp) announce(ctx context.Context, catalog *ota.Catalog) (*ota.AnnounceResult, error) {
	result, err := a.service.Announce(ctx, catalog)
	if errors.Is(err, ota.ErrNothingToAnnounce) {
		a.op.Status = StatusNothingNew
		return result, err
	}
	if err != nil {
		return result, a.fail(err)
	}
	return result, nil
}

func (a *OTAApp) digest(ctx context.Context, catalog *ota.Catalog) (*ota.DigestReport, error) {
	report, err := a.service.Digest(ctx, catalog)
	if err != nil {
		return report, a.fail(err)
	}
	return report, nil
}

func (a *OTAApp) fail(err error) error {
	a.op.Status = StatusError
	a.logger.Error("operation failed", "error", err)
	return err
}

// Close logs the operation outcome and closes the log file.
func (a *OTAApp) Close() error {
	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"duration", time.Since(a.op.StartedAt).Truncate(time.Millisecond),
	)
	return a.closeLog()
}

func (a *OTAApp) closeLog() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}
