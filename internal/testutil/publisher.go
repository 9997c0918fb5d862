package testutil

import (
	"context"
	"fmt"

	"otabot/internal/ota"
)

// Page is one page created through MemoryPagePublisher.
type Page struct {
	Title string
	HTML  string
}

// MemoryPagePublisher keeps pages in memory and hands out sequential URLs.
type MemoryPagePublisher struct {
	Pages []Page
	Err   error
}

func NewMemoryPagePublisher() *MemoryPagePublisher {
	return &MemoryPagePublisher{}
}

func (p *MemoryPagePublisher) CreatePage(_ context.Context, title, html string) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	p.Pages = append(p.Pages, Page{Title: title, HTML: html})
	return fmt.Sprintf("https://graph.org/page-%d", len(p.Pages)), nil
}

var _ ota.PagePublisher = (*MemoryPagePublisher)(nil)
