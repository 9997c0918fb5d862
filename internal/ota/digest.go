package ota

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
)

// DigestTemplate holds the branding of the status digest.
type DigestTemplate struct {
	ROMName       string // e.g. "DroidX-UI"
	PageTitle     string
	ButtonText    string
	MaintainerURL string // may reference {maintainer}
}

// DigestReport is the partition of all known devices against the reference
// version at a point in time.
type DigestReport struct {
	Reference   string // "" when the reference version is unknown
	Updated     []DeviceSummary
	Pending     []DeviceSummary
	GeneratedAt time.Time
}

// Total returns the number of devices in the report.
func (r *DigestReport) Total() int {
	return len(r.Updated) + len(r.Pending)
}

// Partition splits devices by whether their version equals reference.
// Input order is preserved in both halves. An empty reference matches nothing.
func Partition(devices []DeviceSummary, reference string) (updated, pending []DeviceSummary) {
	for _, d := range devices {
		if reference != "" && d.Version == reference {
			updated = append(updated, d)
		} else {
			pending = append(pending, d)
		}
	}
	return updated, pending
}

// Digest fetches the reference version, publishes the full status page and
// sends the short status message with a link to it to the private chat.
func (s *OTAService) Digest(ctx context.Context, catalog *Catalog) (*DigestReport, error) {
	ref, err := s.versions.ReferenceVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching reference version: %w", err)
	}
	if ref == "" {
		s.logger.Warn("reference version unknown, every device counts as not updated")
	}

	updated, pending := Partition(catalog.Summaries(), ref)
	report := &DigestReport{
		Reference:   ref,
		Updated:     updated,
		Pending:     pending,
		GeneratedAt: s.clock.Now().UTC(),
	}

	t := &s.settings.Digest
	pageURL, err := s.pages.CreatePage(ctx, t.PageTitle, t.RenderPage(report))
	if err != nil {
		return report, fmt.Errorf("publishing status page: %w", err)
	}
	s.logger.Info("status page published", "url", pageURL)

	button := &Button{Text: t.ButtonText, URL: pageURL}
	if err := s.messenger.SendMessage(ctx, s.settings.PrivateChat, t.RenderMessage(report), button); err != nil {
		return report, fmt.Errorf("sending status message: %w", err)
	}

	s.logger.Info("digest sent", "reference", ref, "updated", len(updated), "pending", len(pending))
	return report, nil
}

func displayVersion(ref string) string {
	if ref == "" {
		return "None"
	}
	return ref
}

func digestTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04") + " hours (UTC)"
}

// RenderPage renders the long HTML report hosted on the status page.
func (t *DigestTemplate) RenderPage(r *DigestReport) string {
	esc := html.EscapeString
	ver := esc(displayVersion(r.Reference))
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s Update Status</b><br><br>", esc(t.ROMName))

	fmt.Fprintf(&sb, "<b>The following devices have been updated to the version</b> <code>%s</code> <b>in the current month:</b> ", ver)
	t.writeDeviceList(&sb, r.Updated)
	sb.WriteString("<br><br>")

	fmt.Fprintf(&sb, "<b>The following devices have not been updated to the version</b> <code>%s</code> <b>in the current month:</b> ", ver)
	t.writeDeviceList(&sb, r.Pending)
	sb.WriteString("<br><br>")

	fmt.Fprintf(&sb, "<b>Total Official Devices:</b> <code>%d</code><br>", r.Total())
	fmt.Fprintf(&sb, "<b>Updated during current month:</b> <code>%d</code><br>", len(r.Updated))
	fmt.Fprintf(&sb, "<b>Not Updated during current month:</b> <code>%d</code><br><br>", len(r.Pending))
	fmt.Fprintf(&sb, "<b>Information as on:</b> <code>%s</code>", digestTimestamp(r.GeneratedAt))
	return sb.String()
}

func (t *DigestTemplate) writeDeviceList(sb *strings.Builder, devices []DeviceSummary) {
	esc := html.EscapeString
	if len(devices) == 0 {
		sb.WriteString("<code>None</code>")
		return
	}
	for i, d := range devices {
		link := strings.ReplaceAll(t.MaintainerURL, "{maintainer}", d.Maintainer)
		fmt.Fprintf(sb, "<br><b>%d.</b> <code>%s (%s)</code> <b>-</b> <a href='%s'>%s</a>",
			i+1, esc(d.DeviceName), esc(d.Codename), esc(link), esc(d.Maintainer))
	}
}

// RenderMessage renders the short status message for the private chat.
func (t *DigestTemplate) RenderMessage(r *DigestReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s Devices (v%s) Update Status</b>\n\n", html.EscapeString(t.ROMName), html.EscapeString(displayVersion(r.Reference)))
	fmt.Fprintf(&sb, "<b>Total Official Devices:</b> <code>%d</code>\n", r.Total())
	fmt.Fprintf(&sb, "<b>Updated during current month:</b> <code>%d</code>\n", len(r.Updated))
	fmt.Fprintf(&sb, "<b>Not Updated during current month:</b> <code>%d</code>\n", len(r.Pending))
	fmt.Fprintf(&sb, "<b>Information as on:</b> <code>%s</code>", digestTimestamp(r.GeneratedAt))
	return sb.String()
}
