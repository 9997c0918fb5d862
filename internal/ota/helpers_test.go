package ota_test

import (
	"testing"
	"time"

	"otabot/internal/hashlog"
	"otabot/internal/ota"
	"otabot/internal/testutil"
)

const (
	publicChat   = "@droidxui"
	privateChat  = "-1001234"
	commitPath   = "commit_mesg.txt"
	bannerDir    = "/repo/assets"
	testPostWait = 5 * time.Second
)

func catalogOf(t *testing.T, builds ...testutil.Build) *ota.Catalog {
	t.Helper()
	var entries []ota.CatalogEntry
	for _, b := range builds {
		rec, err := ota.ParseMetadata(testutil.MetadataJSON(b))
		if err != nil {
			t.Fatalf("ParseMetadata(%s) error = %v", b.Codename, err)
		}
		entries = append(entries, ota.CatalogEntry{
			Flavor:   "Gapps",
			Filename: b.Codename + ".json",
			Codename: b.Codename,
			Record:   *rec,
		})
	}
	return ota.NewCatalog(entries)
}

func testSettings() ota.Settings {
	return ota.Settings{
		PublicChat:        publicChat,
		PrivateChat:       privateChat,
		PostDelay:         testPostWait,
		CommitMessagePath: commitPath,
		Announcement: ota.AnnouncementTemplate{
			Heading:        "DXUI Mars",
			VersionLabel:   "DXUI Version",
			ScreenshotsURL: "https://t.me/shots",
			ChangelogURL:   "https://cl.example/{codename}.txt",
			MaintainerURL:  "https://t.me/{maintainer}",
			Hashtags:       []string{"Mars", "{codename}"},
			CommitTitle:    "DroidX: Update new IDs and push OTA [BOT]",
		},
		Digest: ota.DigestTemplate{
			ROMName:       "DroidX-UI",
			PageTitle:     "Device Update Status",
			ButtonText:    "More Info",
			MaintainerURL: "https://t.me/{maintainer}",
		},
	}
}

type fixture struct {
	svc       *ota.OTAService
	fsmgr     *testutil.MockFilesystemManager
	hashLog   *hashlog.MemoryHashLog
	banners   *testutil.StubBannerRenderer
	messenger *testutil.RecordingMessenger
	versions  *testutil.StubVersionSource
	pages     *testutil.MemoryPagePublisher
	clock     *testutil.StubClock
}

func newFixture(t *testing.T, settings ota.Settings, logged ...string) *fixture {
	t.Helper()
	f := &fixture{
		fsmgr:     testutil.NewMockFilesystemManager(),
		hashLog:   hashlog.NewMemoryHashLog(logged...),
		messenger: testutil.NewRecordingMessenger(),
		versions:  &testutil.StubVersionSource{Version: "14.2"},
		pages:     testutil.NewMemoryPagePublisher(),
		clock:     testutil.FixedClock(),
	}
	f.banners = testutil.NewStubBannerRenderer(f.fsmgr, bannerDir)
	f.svc = ota.NewOTAService(settings, f.hashLog, f.fsmgr, f.banners, f.messenger, f.versions, f.pages, ota.NewNopLogger(), f.clock)
	return f
}
