package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
	"github.com/google/uuid"
)

// OwnerHeader carries the catalog owner id on registration requests.
const OwnerHeader = "X-EIO-USER-ID"

// Catalog registers connectors with a catalog endpoint.
type Catalog struct {
	// URL is the registration endpoint
	URL      string
	OwnerID  string
	Username string
	Password string
	// WebURL is the repository web root. Default: DefaultWebURL
	WebURL string
	// Client is the HTTP client. Default: http.DefaultClient
	Client *http.Client
	// Logger is the structured logger for progress output.
	// If nil, logging is disabled (default)
	Logger parser.Logger
}

// Registration is the body posted to the catalog.
type Registration struct {
	ComponentJSON json.RawMessage `json:"componentJson"`
	// Logo is the base64 encoded logo.png
	Logo    string `json:"logo"`
	RepoURL string `json:"repoUrl"`
}

// Register posts the component.json and logo.png found in dir, together
// with the GitHub URL of org/name.
func (c *Catalog) Register(ctx context.Context, org, name, dir string) error {
	if c.URL == "" {
		return &oaserrors.ConfigError{Option: "url", Message: "publish: catalog URL is required"}
	}
	reg, err := c.registration(org, name, dir)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	header := http.Header{}
	header.Set(OwnerHeader, c.OwnerID)
	header.Set("X-Request-ID", requestID)
	if c.Username != "" || c.Password != "" {
		token := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.Password))
		header.Set("Authorization", "Basic "+token)
	}

	log := parser.OrNop(c.Logger)
	log.Info("registering connector", "name", name, "repo", reg.RepoURL, "request_id", requestID)
	return do(ctx, c.Client, http.MethodPost, c.URL, header, reg, nil)
}

func (c *Catalog) registration(org, name, dir string) (*Registration, error) {
	component, err := os.ReadFile(filepath.Join(dir, "component.json"))
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	if !json.Valid(component) {
		return nil, &oaserrors.SpecFormatError{Path: filepath.Join(dir, "component.json"), Message: "component.json is not valid JSON"}
	}
	logo, err := os.ReadFile(filepath.Join(dir, "logo.png"))
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	return &Registration{
		ComponentJSON: component,
		Logo:          base64.StdEncoding.EncodeToString(logo),
		RepoURL:       RepoWebURL(c.WebURL, org, name),
	}, nil
}
