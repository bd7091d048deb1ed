package instagramimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/orgball2608/insta-profile-viewer/internal/domain"
	"github.com/orgball2608/insta-profile-viewer/internal/instagram"
	"github.com/orgball2608/insta-profile-viewer/internal/metrics"
	"github.com/orgball2608/insta-profile-viewer/internal/ratelimit"
	"github.com/orgball2608/insta-profile-viewer/pkg/config"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"
	"go.uber.org/fx"
)

const profileInfoPath = "/api/v1/users/web_profile_info/"

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Limiter ratelimit.Limiter
}

// APIClient talks to the public web profile endpoint. The endpoint rejects
// requests without the mobile-browser headers set below.
type APIClient struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	userAgent  string
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

func New(opts Opts) *APIClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    opts.Config.Instagram.BaseURL,
		appID:      opts.Config.Instagram.AppID,
		userAgent:  opts.Config.Instagram.UserAgent,
		limiter:    opts.Limiter,
		logger:     opts.Logger.WithComponent("InstagramClient"),
	}
}

var _ instagram.Client = (*APIClient)(nil)

func (c *APIClient) FetchProfile(ctx context.Context, username string) (*domain.Profile, error) {
	if username == "" {
		return nil, instagram.ErrInvalidUsername
	}

	if err := c.limiter.Wait(ctx, username); err != nil {
		return nil, &instagram.TransportError{StatusCode: 0}
	}

	start := time.Now()
	profile, err := c.fetchOnce(ctx, username)
	metrics.ObserveFetch(start, err)
	return profile, err
}

func (c *APIClient) fetchOnce(ctx context.Context, username string) (*domain.Profile, error) {
	endpoint := fmt.Sprintf("%s%s?username=%s", c.baseURL, profileInfoPath, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, instagram.ErrInvalidUsername
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Referer", fmt.Sprintf("https://www.instagram.com/%s/", username))
	req.Header.Set("X-IG-App-ID", c.appID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Profile request failed", "username", username, "error", err)
		return nil, &instagram.TransportError{StatusCode: 0}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, instagram.ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("Profile request rejected", "username", username, "status", resp.StatusCode)
		return nil, &instagram.TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &instagram.TransportError{StatusCode: 0}
	}

	profile, err := decodeProfile(body)
	if err != nil {
		// A schema change and garbled bytes look the same to callers.
		c.logger.Warn("Failed to decode profile payload", "username", username, "error", err)
		return nil, err
	}

	c.logger.Debug("Fetched profile",
		"username", profile.User.Username,
		"posts", len(profile.Posts),
		"private", profile.User.IsPrivate,
	)
	return profile, nil
}
