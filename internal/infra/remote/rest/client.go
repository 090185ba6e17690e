// Package rest talks to the existing marketplace backend over its JSON
// API, preserving the wire field names (id, property_id, date, reason)
// the backend expects.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vacanza/internal/domain/availability"
	"vacanza/internal/domain/property"
)

// Client wraps the backend's /availability and /properties endpoints.
// Failures surface as plain errors; the engine maps them to its own
// taxonomy.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
}

func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTP: httpClient, BaseURL: strings.TrimRight(baseURL, "/"), Token: token}
}

type blockRecord struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

func (rec blockRecord) toDomain() availability.Block {
	return availability.Block{
		ID:         rec.ID,
		PropertyID: rec.PropertyID,
		Date:       availability.DateKey(rec.Date),
		Reason:     rec.Reason,
	}
}

type propertyRecord struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	Capacity      int      `json:"capacity"`
	PricePerNight float64  `json:"price_per_night"`
	CoverImage    string   `json:"cover_image"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
	OwnerEmail    string   `json:"owner_email"`
}

// listEnvelope matches the backend's habit of answering either a bare
// array or {"data": [...]}.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) ListBlocks(ctx context.Context, filter availability.ListFilter) ([]availability.Block, error) {
	params := url.Values{}
	if filter.PropertyID != "" {
		params.Set("property_id", filter.PropertyID)
	}
	if filter.Sort != "" {
		params.Set("sort", filter.Sort)
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	endpoint := "/availability"
	if filter.PropertyID != "" {
		endpoint = "/availability/filter"
	}
	body, err := c.do(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[blockRecord](body)
	if err != nil {
		return nil, fmt.Errorf("rest: decode blocks: %w", err)
	}
	blocks := make([]availability.Block, 0, len(records))
	for _, rec := range records {
		blocks = append(blocks, rec.toDomain())
	}
	return blocks, nil
}

func (c *Client) CreateBlock(ctx context.Context, propertyID string, date availability.DateKey, reason string) (availability.Block, error) {
	payload := blockRecord{PropertyID: propertyID, Date: string(date), Reason: reason}
	body, err := c.do(ctx, http.MethodPost, "/availability", nil, payload)
	if err != nil {
		return availability.Block{}, err
	}
	var rec blockRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return availability.Block{}, fmt.Errorf("rest: decode created block: %w", err)
	}
	return rec.toDomain(), nil
}

func (c *Client) DeleteBlock(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/availability/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) ByID(ctx context.Context, id string) (*property.Property, error) {
	body, err := c.do(ctx, http.MethodGet, "/properties/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var rec propertyRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("rest: decode property: %w", err)
	}
	return recToProperty(rec), nil
}

func (c *Client) ListProperties(ctx context.Context, filter property.Filter) ([]*property.Property, error) {
	params := url.Values{}
	if filter.Location != "" {
		params.Set("location", filter.Location)
	}
	if filter.MinCapacity > 0 {
		params.Set("capacity", strconv.Itoa(filter.MinCapacity))
	}
	endpoint := "/properties"
	if len(params) > 0 {
		endpoint = "/properties/filter"
	}
	body, err := c.do(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[propertyRecord](body)
	if err != nil {
		return nil, fmt.Errorf("rest: decode properties: %w", err)
	}
	props := make([]*property.Property, 0, len(records))
	for _, rec := range records {
		props = append(props, recToProperty(rec))
	}
	return props, nil
}

func (c *Client) Save(ctx context.Context, p *property.Property) error {
	rec := propertyRecord{
		ID:            p.ID,
		Title:         p.Title,
		Location:      p.Location,
		Capacity:      p.Capacity,
		PricePerNight: p.PricePerNight,
		CoverImage:    p.CoverImageURL,
		Images:        p.GalleryURLs,
		Amenities:     p.Amenities,
		OwnerEmail:    p.OwnerEmail,
	}
	method, endpoint := http.MethodPost, "/properties"
	if p.ID != "" {
		method, endpoint = http.MethodPut, "/properties/"+url.PathEscape(p.ID)
	}
	body, err := c.do(ctx, method, endpoint, nil, rec)
	if err != nil {
		return err
	}
	var saved propertyRecord
	if err := json.Unmarshal(body, &saved); err == nil && saved.ID != "" {
		p.ID = saved.ID
	}
	return nil
}

func recToProperty(rec propertyRecord) *property.Property {
	return &property.Property{
		ID:            rec.ID,
		Title:         rec.Title,
		Location:      rec.Location,
		Capacity:      rec.Capacity,
		PricePerNight: rec.PricePerNight,
		CoverImageURL: rec.CoverImage,
		GalleryURLs:   rec.Images,
		Amenities:     rec.Amenities,
		OwnerEmail:    strings.ToLower(rec.OwnerEmail),
	}
}

type apiError struct {
	Message string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	if c.BaseURL == "" {
		return nil, errors.New("rest: base url not configured")
	}
	target := c.BaseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("rest: encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("rest: %s %s: %s (status %d)", method, endpoint, apiErr.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("rest: %s %s: status %d", method, endpoint, resp.StatusCode)
	}
	return body, nil
}

var (
	_ availability.BlockStore = (*Client)(nil)
	_ property.Store          = (*Client)(nil)
)
