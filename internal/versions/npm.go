package versions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// DefaultNPMRegistry is the public npm registry.
const DefaultNPMRegistry = "https://registry.npmjs.org"

var versionPath = jp.MustParseString("$.version")

// NPM queries the `latest` dist-tag of an npm registry.
type NPM struct {
	BaseURL string
	Client  *http.Client
}

// NewNPM returns a client for baseURL, or the public registry when empty.
func NewNPM(baseURL string) *NPM {
	if baseURL == "" {
		baseURL = DefaultNPMRegistry
	}
	return &NPM{BaseURL: strings.TrimRight(baseURL, "/"), Client: http.DefaultClient}
}

// Latest fetches <base>/<name>/latest. Scoped names keep their @ and escape
// the slash.
func (n *NPM) Latest(ctx context.Context, name string) (string, error) {
	endpoint := n.BaseURL + "/" + url.PathEscape(name) + "/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("registry returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading registry response: %w", err)
	}
	doc, err := oj.Parse(body)
	if err != nil {
		return "", fmt.Errorf("decoding registry response: %w", err)
	}
	version, ok := versionPath.First(doc).(string)
	if !ok || version == "" {
		return "", fmt.Errorf("registry response has no version")
	}
	return version, nil
}

func (n *NPM) client() *http.Client {
	if n.Client != nil {
		return n.Client
	}
	return http.DefaultClient
}
