// Package likesclient is the consumer side of the likes API. It issues the
// toggle and listing requests and keeps the latest results in observable
// state cells for presentation code.
package likesclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"heartline/internal/models"
)

// PaginatedResult is one page of members plus the metadata read from the
// Pagination response header.
type PaginatedResult struct {
	Items      []models.MemberDTO
	Pagination *models.PaginationHeader
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the likes endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string

	// LikeIDs holds the ids the caller likes, replaced by GetLikeIDs.
	LikeIDs *State[[]uint]
	// Paginated holds the last page fetched by GetLikes.
	Paginated *State[*PaginatedResult]
}

// NewClient constructs a client for the API rooted at baseURL
// (e.g. "http://localhost:5001/api") authenticating with token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
		LikeIDs:    NewState[[]uint](nil),
		Paginated:  NewState[*PaginatedResult](nil),
	}
}

// ToggleLike likes or unlikes targetID. Local state is left untouched;
// callers refresh with GetLikeIDs when they need it.
func (c *Client) ToggleLike(ctx context.Context, targetID uint) error {
	path := fmt.Sprintf("%s/likes/%d", c.baseURL, targetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, nil)
	return err
}

// GetLikes fetches one page of members for predicate and replaces the
// Paginated state. Paging parameters are sent only when both are set.
func (c *Client) GetLikes(ctx context.Context, predicate models.LikesPredicate, pageNumber, pageSize int) (*PaginatedResult, error) {
	q := url.Values{}
	if pageNumber != 0 && pageSize != 0 {
		q.Set("pageNumber", strconv.Itoa(pageNumber))
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	q.Set("predicate", string(predicate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/likes?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var items []models.MemberDTO
	header, err := c.do(req, &items)
	if err != nil {
		return nil, err
	}

	result := &PaginatedResult{Items: items}
	if raw := header.Get("Pagination"); raw != "" {
		var p models.PaginationHeader
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode pagination header: %w", err)
		}
		result.Pagination = &p
	}
	c.Paginated.Set(result)
	return result, nil
}

// GetLikeIDs fetches the ids the caller likes and replaces the LikeIDs state.
func (c *Client) GetLikeIDs(ctx context.Context) ([]uint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/likes/list", nil)
	if err != nil {
		return nil, err
	}

	var ids []uint
	if _, err := c.do(req, &ids); err != nil {
		return nil, err
	}
	c.LikeIDs.Set(ids)
	return ids, nil
}

func (c *Client) do(req *http.Request, out any) (http.Header, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
	}
	if out == nil {
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}
