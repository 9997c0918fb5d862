package ota

import (
	"context"
	"errors"
	"fmt"
)

// ErrNothingToAnnounce is returned by Announce when every build in the
// catalog has already been announced.
var ErrNothingToAnnounce = errors.New("nothing to announce")

// AnnounceResult reports what a run posted.
type AnnounceResult struct {
	Changed   []string     // hashes new since the previous run
	Announced []*BuildInfo // builds posted to the channel, in order
	Skipped   []string     // changed hashes with no metadata file
}

// Announce posts a banner and caption for every build whose hash is not in
// the hash log, then records the catalog's hashes and the commit message.
//
// The hash log is only persisted after every post succeeded. A failure part
// way through leaves the log untouched, so the next run re-announces the
// whole batch (at-least-once delivery).
func (s *OTAService) Announce(ctx context.Context, catalog *Catalog) (*AnnounceResult, error) {
	current := catalog.Hashes()

	previous, err := s.hashLog.Load()
	if err != nil {
		return nil, fmt.Errorf("loading hash log: %w", err)
	}
	if len(previous) == 0 {
		s.logger.Warn("hash log is empty, every build counts as new")
	}

	changed := Diff(current, previous)
	if len(changed) == 0 {
		s.logger.Info("all builds already announced", "builds", len(current))
		return &AnnounceResult{}, ErrNothingToAnnounce
	}
	s.logger.Info("builds changed", "count", len(changed), "hashes", changed)

	result := &AnnounceResult{Changed: changed}
	commit := NewCommitMessage(s.settings.Announcement.CommitTitle)

	for _, hash := range changed {
		info, err := catalog.InfoFor(hash)
		if err != nil {
			if errors.Is(err, ErrBuildNotFound) {
				s.logger.Warn("changed build has no metadata, skipping", "hash", hash)
				result.Skipped = append(result.Skipped, hash)
				continue
			}
			return result, err
		}

		if len(result.Announced) > 0 {
			if err := s.clock.Sleep(ctx, s.settings.PostDelay); err != nil {
				return result, fmt.Errorf("waiting between posts: %w", err)
			}
		}

		if err := s.announceOne(ctx, info); err != nil {
			return result, fmt.Errorf("announcing %s: %w", info.Codename, err)
		}
		commit.Add(info)
		result.Announced = append(result.Announced, info)
	}

	if err := s.hashLog.Persist(current); err != nil {
		return result, fmt.Errorf("persisting hash log: %w", err)
	}

	if s.settings.CommitMessagePath != "" {
		if err := s.fsmgr.WriteFile(s.settings.CommitMessagePath, []byte(commit.String())); err != nil {
			return result, fmt.Errorf("writing commit message: %w", err)
		}
	}

	s.logger.Info("announce complete", "announced", len(result.Announced), "skipped", len(result.Skipped))
	return result, nil
}

// announceOne renders, posts and cleans up the banner for a single build.
func (s *OTAService) announceOne(ctx context.Context, info *BuildInfo) error {
	s.logger.Info("announcing build",
		"device", info.OEM+" "+info.DeviceName,
		"codename", info.Codename,
		"version", info.Version,
		"maintainer", info.Maintainer,
		"flavor", info.Flavor,
		"date", info.Time.Format("2006-01-02 15:04:05"),
		"size", info.SizeString()+"G",
		"md5", info.MD5,
		"sha256", info.SHA256,
	)

	bannerPath, err := s.banners.Render(info.OEM, info.DeviceName, info.Codename)
	if err != nil {
		return fmt.Errorf("rendering banner: %w", err)
	}
	defer func() {
		if err := s.fsmgr.Remove(bannerPath); err != nil {
			s.logger.Warn("removing banner", "path", bannerPath, "error", err)
		}
	}()

	caption := s.settings.Announcement.Caption(info)
	if err := s.messenger.SendPhoto(ctx, s.settings.PublicChat, bannerPath, caption); err != nil {
		return fmt.Errorf("sending post: %w", err)
	}
	return nil
}
