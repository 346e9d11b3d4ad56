package app

import (
	"fmt"

	"github.com/samvad-hq/rover-photos/internal/config"
	"github.com/samvad-hq/rover-photos/internal/rover"
	"github.com/samvad-hq/rover-photos/pkg/httpclient"
	"github.com/samvad-hq/rover-photos/pkg/loader"
)

// NewRoverClient builds the production rover client: resty transport,
// HTTP loader, configured API root and key.
func NewRoverClient(cfg *config.Config) (*rover.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	base, err := rover.ParseBaseURL(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("api_base_url: %w", err)
	}
	l := loader.NewHTTPLoader(httpclient.NewRestyClient(cfg.HTTPTimeout))
	return rover.NewClient(l, rover.WithBaseURL(base), rover.WithAPIKey(cfg.APIKey)), nil
}
