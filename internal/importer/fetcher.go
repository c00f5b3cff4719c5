package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Adzuna search API defaults.
const (
	DefaultAdzunaURL = "https://api.adzuna.com/v1/api/jobs"

	pageSize     = 50
	maxPages     = 3
	fetchTimeout = 15 * time.Second
	errBodyLimit = 512
)

// Offer is one external job advertisement, reduced to what the importer
// turns into a job posting.
type Offer struct {
	ExternalID  string
	Title       string
	Company     string
	Description string
	SalaryMin   float64
}

// AdzunaFetcher queries the Adzuna search API. With no credentials it is
// idle: Fetch returns no offers and no error.
type AdzunaFetcher struct {
	AppID   string
	AppKey  string
	Country string
	BaseURL string
	client  *http.Client
}

// NewAdzunaFetcher returns a fetcher for the given country endpoint.
func NewAdzunaFetcher(appID, appKey, country string) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		BaseURL: DefaultAdzunaURL,
		client:  &http.Client{Timeout: fetchTimeout},
	}
}

type searchPage struct {
	Results []struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		SalaryMin   float64 `json:"salary_min"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
	} `json:"results"`
}

// Fetch returns the newest offers for title in location (empty means
// nationwide). It stops at the first short page or after maxPages; offers
// gathered before a failing page are returned with the error.
func (f *AdzunaFetcher) Fetch(ctx context.Context, title, location string) ([]Offer, error) {
	if f.AppID == "" || f.AppKey == "" {
		log.Println("[importer] Adzuna credentials missing, fetch skipped")
		return nil, nil
	}

	var all []Offer
	for page := 1; page <= maxPages; page++ {
		got, err := f.page(ctx, title, location, page)
		all = append(all, got...)
		if err != nil {
			return all, fmt.Errorf("adzuna page %d: %w", page, err)
		}
		if len(got) < pageSize {
			break
		}
	}
	return all, nil
}

func (f *AdzunaFetcher) pageURL(title, location string, page int) (string, error) {
	u, err := url.Parse(strings.TrimRight(f.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	u = u.JoinPath(f.Country, "search", strconv.Itoa(page))

	q := url.Values{
		"app_id":           {f.AppID},
		"app_key":          {f.AppKey},
		"results_per_page": {strconv.Itoa(pageSize)},
		"what":             {title},
		"sort_by":          {"date"},
	}
	if location != "" {
		q.Set("where", location)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (f *AdzunaFetcher) page(ctx context.Context, title, location string, page int) ([]Offer, error) {
	target, err := f.pageURL(title, location, page)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var sp searchPage
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	offers := make([]Offer, len(sp.Results))
	for i, r := range sp.Results {
		offers[i] = Offer{
			ExternalID:  r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Description: r.Description,
			SalaryMin:   r.SalaryMin,
		}
	}
	return offers, nil
}
