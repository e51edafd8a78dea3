// Package congress fetches bill metadata from the Congress.gov v3 API.
package congress

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openlegis/billtracker/go-engine/internal/store"
)

// #endregion

// #region types

// Client pages through /v3/bill/{congress} and maps responses to bill
// records for ingest.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
}

// billListResponse mirrors the subset of the v3 bill list payload the
// engine needs.
type billListResponse struct {
	Bills []struct {
		Type         string `json:"type"`
		Number       string `json:"number"`
		Congress     int    `json:"congress"`
		Title        string `json:"title"`
		LatestAction struct {
			ActionDate string `json:"actionDate"`
			Text       string `json:"text"`
		} `json:"latestAction"`
	} `json:"bills"`
	Pagination struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

// #endregion

// #region constructor

// NewClient builds a client; pageSize defaults to 250, the API maximum.
func NewClient(baseURL, apiKey string, pageSize int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 250
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: pageSize,
		client:   httpClient,
	}
}

// #endregion

// #region fetch

// FetchBills pages through the bill list for one congress, stopping after
// maxBills records (0 = no cap). Each record carries the latest action
// text that the reconciliation pass will classify.
func (c *Client) FetchBills(ctx context.Context, congressNum, maxBills int) ([]store.BillRecord, error) {
	var out []store.BillRecord
	offset := 0

	for {
		page, err := c.fetchPage(ctx, congressNum, offset)
		if err != nil {
			return nil, err
		}
		if len(page.Bills) == 0 {
			break
		}

		for _, b := range page.Bills {
			out = append(out, store.BillRecord{
				ID:               billID(b.Congress, b.Type, b.Number),
				Title:            b.Title,
				Congress:         b.Congress,
				LatestActionText: b.LatestAction.Text,
				LatestActionDate: b.LatestAction.ActionDate,
			})
			if maxBills > 0 && len(out) >= maxBills {
				return out, nil
			}
		}

		offset += len(page.Bills)
		if offset >= page.Pagination.Count {
			break
		}
	}

	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, congressNum, offset int) (billListResponse, error) {
	var page billListResponse

	endpoint, err := url.Parse(fmt.Sprintf("%s/bill/%d", c.baseURL, congressNum))
	if err != nil {
		return page, fmt.Errorf("invalid base url: %w", err)
	}
	q := endpoint.Query()
	q.Set("format", "json")
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(c.pageSize))
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return page, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "billtracker-engine/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return page, fmt.Errorf("request bills: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page, fmt.Errorf("congress api returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return page, fmt.Errorf("decode bills: %w", err)
	}

	return page, nil
}

// #endregion

// #region bill-id

// billID builds the stable external identifier, e.g. "119-hr-1234".
func billID(congress int, billType, number string) string {
	return fmt.Sprintf("%d-%s-%s", congress, strings.ToLower(billType), number)
}

// #endregion
