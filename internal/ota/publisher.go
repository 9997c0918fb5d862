package ota

import "context"

// PagePublisher hosts an HTML document as a public page and returns its URL.
type PagePublisher interface {
	CreatePage(ctx context.Context, title, html string) (string, error)
}
