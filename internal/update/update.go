// Package update checks GitHub for newer spot-cli releases.
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	DefaultReleasesURL = "https://api.github.com/repos/thinkglobalschool/spot-cli/releases/latest"
	CheckTimeout       = 5 * time.Second
)

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
}

// Checker queries a releases endpoint. The zero value uses DefaultReleasesURL
// and http.DefaultClient.
type Checker struct {
	URL  string
	HTTP *http.Client
}

// Check reports whether a release newer than currentVersion exists.
// It returns nil on any failure so callers never block on it.
func (c Checker) Check(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}

	release, ok := c.latest(ctx)
	if !ok {
		return nil
	}

	result := &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}

	current, latest := normalizeVersion(currentVersion), normalizeVersion(release.TagName)
	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	return result
}

func (c Checker) latest(ctx context.Context) (Release, bool) {
	target := c.URL
	if target == "" {
		target = DefaultReleasesURL
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Release{}, false
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := client.Do(req)
	if err != nil {
		return Release{}, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Release{}, false
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, false
	}
	return release, release.TagName != ""
}

// CheckForUpdate runs a default Checker.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	return Checker{}.Check(ctx, currentVersion)
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
