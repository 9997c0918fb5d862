package ota

import "time"

// Settings carries the per-deployment values the service needs.
type Settings struct {
	PublicChat  string // channel receiving build announcements
	PrivateChat string // group receiving the status digest

	// PostDelay is waited between successive announcements to stay under the
	// messaging platform's rate limits.
	PostDelay time.Duration

	CommitMessagePath string

	Announcement AnnouncementTemplate
	Digest       DigestTemplate
}

// OTAService coordinates the registry catalog, hash log and outbound
// collaborators to perform one notification run.
type OTAService struct {
	settings  Settings
	hashLog   HashLog
	fsmgr     FilesystemManager
	banners   BannerRenderer
	messenger Messenger
	versions  VersionSource
	pages     PagePublisher
	logger    Logger
	clock     Clock
}

// NewOTAService creates a new OTAService with the provided dependencies.
func NewOTAService(settings Settings, hashLog HashLog, fsmgr FilesystemManager, banners BannerRenderer, messenger Messenger, versions VersionSource, pages PagePublisher, logger Logger, clock Clock) *OTAService {
	return &OTAService{
		settings:  settings,
		hashLog:   hashLog,
		fsmgr:     fsmgr,
		banners:   banners,
		messenger: messenger,
		versions:  versions,
		pages:     pages,
		logger:    logger,
		clock:     clock,
	}
}
