package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"otabot/internal/config"
)

const versionMk = `# DroidX-UI versioning
PRODUCT_VERSION_MAJOR = 14
PRODUCT_VERSION_MINOR := 2
PRODUCT_VERSION_PATCH = 0
`

type contentsServer struct {
	content    string
	lastRef    string
	lastAuth   string
	notFound   bool
	requestURI string
}

func (s *contentsServer) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requestURI = r.URL.Path
		s.lastRef = r.URL.Query().Get("ref")
		s.lastAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		if s.notFound || r.URL.Path != "/repos/DroidX-UI/vendor_droidx/contents/config/version.mk" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"name":     "version.mk",
			"path":     "config/version.mk",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(s.content)),
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func upstream(apiURL string) config.UpstreamConfig {
	cfg := config.NewConfig().Upstream
	cfg.APIURL = apiURL
	return cfg
}

func newSource(t *testing.T, cfg config.UpstreamConfig, token string) *VersionSource {
	t.Helper()
	vs, err := NewVersionSource(cfg, token, 5*time.Second)
	if err != nil {
		t.Fatalf("NewVersionSource() error = %v", err)
	}
	return vs
}

func TestVersionSource_ReferenceVersion(t *testing.T) {
	srv := &contentsServer{content: versionMk}
	vs := newSource(t, upstream(srv.start(t)), "ghp_secret")

	got, err := vs.ReferenceVersion(context.Background())
	if err != nil {
		t.Fatalf("ReferenceVersion() error = %v", err)
	}
	if got != "14.2" {
		t.Errorf("ReferenceVersion() = %q, want 14.2", got)
	}
	if srv.lastAuth != "Bearer ghp_secret" {
		t.Errorf("Authorization = %q, want Bearer ghp_secret", srv.lastAuth)
	}
	if srv.lastRef != "" {
		t.Errorf("ref = %q, want none", srv.lastRef)
	}
}

func TestVersionSource_ref(t *testing.T) {
	srv := &contentsServer{content: versionMk}
	cfg := upstream(srv.start(t))
	cfg.Ref = "14"
	vs := newSource(t, cfg, "")

	if _, err := vs.ReferenceVersion(context.Background()); err != nil {
		t.Fatalf("ReferenceVersion() error = %v", err)
	}
	if srv.lastRef != "14" {
		t.Errorf("ref = %q, want 14", srv.lastRef)
	}
	if srv.lastAuth != "" {
		t.Errorf("Authorization = %q, want none without a token", srv.lastAuth)
	}
}

func TestVersionSource_missingKeys(t *testing.T) {
	srv := &contentsServer{content: "PRODUCT_VERSION_MAJOR = 14\n"}
	vs := newSource(t, upstream(srv.start(t)), "")

	got, err := vs.ReferenceVersion(context.Background())
	if err != nil {
		t.Fatalf("ReferenceVersion() error = %v", err)
	}
	if got != "" {
		t.Errorf("ReferenceVersion() = %q, want unknown", got)
	}
}

func TestVersionSource_notFound(t *testing.T) {
	srv := &contentsServer{notFound: true}
	vs := newSource(t, upstream(srv.start(t)), "")

	_, err := vs.ReferenceVersion(context.Background())
	if err == nil {
		t.Fatal("ReferenceVersion() expected error")
	}
	if !strings.Contains(err.Error(), "vendor_droidx") {
		t.Errorf("error = %v, want it to name the repository", err)
	}
}
