package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/cache"
	"github.com/jotajotaz/bcn-flights/internal/models"
	"github.com/jotajotaz/bcn-flights/internal/ratelimit"
	"github.com/jotajotaz/bcn-flights/pkg/retry"
)

const DefaultAmadeusBaseURL = "https://test.api.amadeus.com"

var ErrMissingCredentials = errors.New("missing Amadeus credentials: set AMADEUS_API_KEY and AMADEUS_API_SECRET")

// tokenExpiryMargin renews the OAuth token slightly before Amadeus does.
const tokenExpiryMargin = 30 * time.Second

type AmadeusConfig struct {
	APIKey     string
	APISecret  string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
	Retry      retry.Policy
}

// AmadeusClient looks up one-way fares on the Amadeus flight-offers API.
// Raw per-leg responses are cached so the relaxation fallback does not pay
// for a second round of HTTP calls.
type AmadeusClient struct {
	cfg     AmadeusConfig
	http    *http.Client
	limiter *ratelimit.Limiter
	cache   cache.Cache
	log     *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewAmadeusClient(cfg AmadeusConfig, limiter *ratelimit.Limiter, c cache.Cache, log *slog.Logger) (*AmadeusClient, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAmadeusBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if limiter == nil {
		limiter = ratelimit.NewWithDefaults()
	}
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if log == nil {
		log = slog.Default()
	}

	return &AmadeusClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cache:   c,
		log:     log,
	}, nil
}

func (c *AmadeusClient) Name() string {
	return "amadeus"
}

// Search returns the window-filtered, price-sorted, capped listings for one
// leg lookup.
func (c *AmadeusClient) Search(ctx context.Context, q Query) ([]models.FareListing, error) {
	date := q.Date.Format("2006-01-02")

	raw, hit := c.cache.Get(ctx, q.Origin, q.Destination, date)
	if !hit {
		var err error
		raw, err = c.fetchOffers(ctx, q.Origin, q.Destination, date)
		if err != nil {
			return nil, NewProviderError(c.Name(), err)
		}
		if err := c.cache.Set(ctx, q.Origin, q.Destination, date, raw); err != nil {
			c.log.Warn("cache write failed", "error", err)
		}
	}

	listings := make([]models.FareListing, 0, len(raw))
	for _, l := range raw {
		if q.Window.Matches(l) {
			listings = append(listings, l)
		}
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].Price < listings[j].Price
	})
	if len(listings) > c.cfg.MaxResults {
		listings = listings[:c.cfg.MaxResults]
	}

	c.log.Info("leg lookup done",
		"origin", q.Origin, "destination", q.Destination, "date", date,
		"listings", len(listings), "cache_hit", hit)
	return listings, nil
}

type amadeusOffersResponse struct {
	Data []amadeusOffer `json:"data"`
}

type amadeusOffer struct {
	Price struct {
		Total string `json:"total"`
	} `json:"price"`
	Itineraries []struct {
		Segments []amadeusSegment `json:"segments"`
	} `json:"itineraries"`
}

type amadeusSegment struct {
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
	Departure   struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
}

func (c *AmadeusClient) fetchOffers(ctx context.Context, origin, destination, date string) ([]models.FareListing, error) {
	params := url.Values{}
	params.Set("originLocationCode", origin)
	params.Set("destinationLocationCode", destination)
	params.Set("departureDate", date)
	params.Set("adults", "1")
	params.Set("nonStop", "true")
	params.Set("currencyCode", "EUR")
	params.Set("max", strconv.Itoa(c.cfg.MaxResults))

	endpoint := c.cfg.BaseURL + "/v2/shopping/flight-offers?" + params.Encode()

	var resp amadeusOffersResponse
	err := c.cfg.Retry.Do(ctx, func() error {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		return c.doJSON(req, &resp)
	})
	if err != nil {
		return nil, err
	}

	listings := make([]models.FareListing, 0, len(resp.Data))
	for _, offer := range resp.Data {
		listing, err := normalizeOffer(offer)
		if err != nil {
			c.log.Warn("skipping malformed offer", "error", err)
			continue
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func normalizeOffer(offer amadeusOffer) (models.FareListing, error) {
	price, err := strconv.ParseFloat(offer.Price.Total, 64)
	if err != nil {
		return models.FareListing{}, fmt.Errorf("bad price %q: %w", offer.Price.Total, err)
	}
	if price < 0 {
		return models.FareListing{}, fmt.Errorf("negative price %q", offer.Price.Total)
	}
	if len(offer.Itineraries) == 0 {
		return models.FareListing{}, errors.New("offer has no itineraries")
	}

	segments := offer.Itineraries[0].Segments
	if len(segments) != 1 {
		return models.FareListing{}, fmt.Errorf("expected non-stop itinerary, got %d segments", len(segments))
	}
	seg := segments[0]

	departure, err := parseAmadeusTime(seg.Departure.At)
	if err != nil {
		return models.FareListing{}, fmt.Errorf("bad departure time: %w", err)
	}
	arrival, err := parseAmadeusTime(seg.Arrival.At)
	if err != nil {
		return models.FareListing{}, fmt.Errorf("bad arrival time: %w", err)
	}
	if arrival.Before(departure) {
		return models.FareListing{}, fmt.Errorf("arrival %s before departure %s", seg.Arrival.At, seg.Departure.At)
	}

	return models.FareListing{
		Origin:        seg.Departure.IataCode,
		Destination:   seg.Arrival.IataCode,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		Price:         price,
		Currency:      "EUR",
		CarrierCode:   seg.CarrierCode,
		CarrierName:   models.ResolveCarrierName(seg.CarrierCode),
		Mode:          models.CarrierMode(seg.CarrierCode),
		Number:        seg.Number,
	}, nil
}

// Amadeus reports local times without a UTC offset.
func parseAmadeusTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05", s)
}

func (c *AmadeusClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.APIKey)
	form.Set("client_secret", c.cfg.APISecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := c.doJSON(req, &tokenResp); err != nil {
		return "", fmt.Errorf("oauth token request: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("oauth token response has no access_token")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.token, nil
}

func (c *AmadeusClient) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	return json.Unmarshal(body, out)
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
