package ota

import (
	"fmt"
	"html"
	"strings"
)

// AnnouncementTemplate holds the branding of a channel announcement.
// Link fields may reference {codename} and {maintainer}.
type AnnouncementTemplate struct {
	Heading        string // e.g. "DXUI Mars"
	VersionLabel   string // e.g. "DXUI Version"
	ScreenshotsURL string
	ChangelogURL   string
	MaintainerURL  string
	Hashtags       []string // without '#'
	CommitTitle    string
}

func (t *AnnouncementTemplate) expand(s string, info *BuildInfo) string {
	return strings.NewReplacer(
		"{codename}", info.Codename,
		"{maintainer}", info.Maintainer,
	).Replace(s)
}

// Caption renders the HTML caption posted under a device banner.
func (t *AnnouncementTemplate) Caption(info *BuildInfo) string {
	esc := html.EscapeString
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s // %s %s (%s)</b>\n\n", esc(t.Heading), esc(info.OEM), esc(info.DeviceName), esc(info.Codename))
	fmt.Fprintf(&sb, "<u>Download (%s)</u>: <a href='%s'>Here</a>\n", esc(info.Flavor), esc(info.Download))
	fmt.Fprintf(&sb, "<u>Screenshots</u>: <a href='%s'>Here</a>\n\n", esc(t.ScreenshotsURL))
	fmt.Fprintf(&sb, "-> Maintainer: <a href='%s'>%s</a>\n", esc(t.expand(t.MaintainerURL, info)), esc(info.Maintainer))
	fmt.Fprintf(&sb, "-> %s: <code>%s</code>\n", esc(t.VersionLabel), esc(info.Version))
	fmt.Fprintf(&sb, "-> Changelog: <a href='%s'>Here</a>\n", esc(t.expand(t.ChangelogURL, info)))

	if len(t.Hashtags) > 0 {
		tags := make([]string, len(t.Hashtags))
		for i, tag := range t.Hashtags {
			tags[i] = "#" + esc(t.expand(tag, info))
		}
		sb.WriteString("\n" + strings.Join(tags, " "))
	}
	return sb.String()
}

// CommitMessage accumulates the message for the commit that records a run.
type CommitMessage struct {
	title string
	lines []string
}

// NewCommitMessage starts a commit message with the given title.
func NewCommitMessage(title string) *CommitMessage {
	return &CommitMessage{title: title}
}

// Add records one changed device.
func (m *CommitMessage) Add(info *BuildInfo) {
	m.lines = append(m.lines, fmt.Sprintf("- %s (%s)", info.DeviceName, info.Codename))
}

// String renders the title, a blank line and the device bullet list.
func (m *CommitMessage) String() string {
	var sb strings.Builder
	sb.WriteString(m.title)
	sb.WriteString("\n\nData for following device(s) were changed:\n")
	for _, l := range m.lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}
