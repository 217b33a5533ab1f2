package kml

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dpup/spherical/internal/lib/geo"
)

// FeedParser downloads remote KML documents
type FeedParser struct {
	httpClient *http.Client
	opts       []geo.Option
}

// NewFeedParser creates a parser with a 30 second request timeout. Line
// placemarks are measured on the sphere given by opts.
func NewFeedParser(opts ...geo.Option) *FeedParser {
	return &FeedParser{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		opts: opts,
	}
}

// FetchPlacemarks downloads the KML document at url and reads its placemarks
func (p *FeedParser) FetchPlacemarks(ctx context.Context, url string) ([]Placemark, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download KML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d downloading KML from %s", resp.StatusCode, url)
	}

	placemarks, err := Read(resp.Body, p.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read KML from %s: %w", url, err)
	}
	return placemarks, nil
}
