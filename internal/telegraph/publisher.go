// Package telegraph publishes HTML pages on a Telegraph-compatible service.
package telegraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"otabot/internal/config"
	"otabot/internal/ota"
)

// Publisher implements ota.PagePublisher. Without a preset access token an
// account is created on the first CreatePage call and reused afterwards.
type Publisher struct {
	apiURL     string
	shortName  string
	authorName string
	authorURL  string
	client     *http.Client

	mu    sync.Mutex
	token string
}

var _ ota.PagePublisher = (*Publisher)(nil)

// NewPublisher creates a Publisher. token may be empty.
func NewPublisher(cfg config.TelegraphConfig, token string, client *http.Client) *Publisher {
	if client == nil {
		client = &http.Client{}
	}
	return &Publisher{
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		shortName:  cfg.ShortName,
		authorName: cfg.AuthorName,
		authorURL:  cfg.AuthorURL,
		client:     client,
		token:      token,
	}
}

// NewPublisherFromConfig creates a Publisher with a client bounded by timeout.
func NewPublisherFromConfig(cfg config.TelegraphConfig, token string, timeout time.Duration) *Publisher {
	return NewPublisher(cfg, token, &http.Client{Timeout: timeout})
}

type envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type account struct {
	AccessToken string `json:"access_token"`
}

type page struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// CreatePage publishes the HTML body under title and returns the page URL.
func (p *Publisher) CreatePage(ctx context.Context, title, body string) (string, error) {
	nodes, err := HTMLToNodes(body)
	if err != nil {
		return "", err
	}
	content, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("encoding page content: %w", err)
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		return "", err
	}

	var pg page
	err = p.call(ctx, "createPage", url.Values{
		"access_token": {token},
		"title":        {title},
		"author_name":  {p.authorName},
		"author_url":   {p.authorURL},
		"content":      {string(content)},
	}, &pg)
	if err != nil {
		return "", err
	}
	if pg.URL == "" {
		return "", errors.New("telegraph: createPage returned no url")
	}
	return pg.URL, nil
}

func (p *Publisher) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" {
		return p.token, nil
	}

	var acc account
	err := p.call(ctx, "createAccount", url.Values{
		"short_name":  {p.shortName},
		"author_name": {p.authorName},
		"author_url":  {p.authorURL},
	}, &acc)
	if err != nil {
		return "", err
	}
	if acc.AccessToken == "" {
		return "", errors.New("telegraph: createAccount returned no access token")
	}
	p.token = acc.AccessToken
	return p.token, nil
}

func (p *Publisher) call(ctx context.Context, method string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/"+method, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("telegraph %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegraph %s: %w", method, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("telegraph %s: decoding response (HTTP %d): %w", method, resp.StatusCode, err)
	}
	if !env.OK {
		return fmt.Errorf("telegraph %s: %s", method, env.Error)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("telegraph %s: decoding result: %w", method, err)
	}
	return nil
}
