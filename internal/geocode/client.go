package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rookgm/ecobites/internal/models"
)

const userAgent = "EcoBites/1.0 (contact@example.com)"

// Client resolves street addresses to coordinates via a Nominatim-compatible API
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates new geocoder Client instance
func NewClient(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: baseURL,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns coordinates for street address
// 200 with empty result list means the address is unknown to the geocoder.
func (c *Client) Geocode(ctx context.Context, street, city, zipCode string) (*models.Coordinates, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u = u.JoinPath("search")

	q := u.Query()
	q.Set("format", "json")
	q.Set("q", fmt.Sprintf("%s, %s, %s", street, city, zipCode))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, models.ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, err
	}

	return &models.Coordinates{Lat: lat, Lng: lng}, nil
}
