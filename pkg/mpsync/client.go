// Package mpsync is the offline-tolerant client for the band catalog API. It
// keeps a local mirror of the collection, applies mutations optimistically
// while the network or server is down, queues them durably, and replays the
// queue once connectivity returns.
package mpsync

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
)

// RemoteAPI is the CRUD surface the sync layer talks to. RemoteClient is the
// HTTP implementation; tests substitute their own.
type RemoteAPI interface {
	List(params ListParams) (*ListResult, error)
	Create(band *mpmodel.Band) (*mpmodel.Band, error)
	Update(bandID int, fields map[string]interface{}) (*mpmodel.Band, error)
	Delete(bandID int) error
	HealthCheck() bool
}

type ListParams struct {
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

type ListResult struct {
	Data  []mpmodel.Band `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// APIError is a non-2xx response from the remote. Network-level failures
// surface as the transport's own error types instead.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api (HTTP Status: %d): %s", e.StatusCode, e.Message)
}

func toErrorFromResponse(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    string(resp.Body()),
	}
}

// IsTransientErr reports whether a failed call is worth retrying later:
// network-level failures and 5xx responses are, 4xx rejections are not.
func IsTransientErr(err error) bool {
	if err == nil {
		return false
	}

	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode >= 500
	}

	return true
}

type RemoteClientOptionFN func(*RemoteClient)

type RemoteClient struct {
	c *resty.Client
}

func NewRemoteClient(baseURL string, optFNs ...RemoteClientOptionFN) *RemoteClient {
	client := &RemoteClient{
		c: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}

	for _, optfn := range optFNs {
		optfn(client)
	}

	return client
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) RemoteClientOptionFN {
	return func(c *RemoteClient) {
		c.c.SetAuthToken(token)
	}
}

func WithTimeout(timeout time.Duration) RemoteClientOptionFN {
	return func(c *RemoteClient) {
		c.c.SetTimeout(timeout)
	}
}

func (c *RemoteClient) List(params ListParams) (*ListResult, error) {
	var result ListResult

	req := c.c.R().SetResult(&result)

	queryParams := map[string]string{}
	if params.Search != "" {
		queryParams["search"] = params.Search
	}
	if params.Sort != "" {
		queryParams["sort"] = params.Sort
	}
	if params.Order != "" {
		queryParams["order"] = params.Order
	}
	if params.Page > 0 {
		queryParams["page"] = strconv.Itoa(params.Page)
	}
	if params.Limit > 0 {
		queryParams["limit"] = strconv.Itoa(params.Limit)
	}

	resp, err := req.SetQueryParams(queryParams).Get("/entities")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, toErrorFromResponse(resp)
	}

	return &result, nil
}

func (c *RemoteClient) Create(band *mpmodel.Band) (*mpmodel.Band, error) {
	var created mpmodel.Band

	resp, err := c.c.R().
		SetBody(band).
		SetResult(&created).
		Post("/entities")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, toErrorFromResponse(resp)
	}

	return &created, nil
}

func (c *RemoteClient) Update(bandID int, fields map[string]interface{}) (*mpmodel.Band, error) {
	var updated mpmodel.Band

	resp, err := c.c.R().
		SetBody(fields).
		SetResult(&updated).
		Put(fmt.Sprintf("/entities/%d", bandID))
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, toErrorFromResponse(resp)
	}

	return &updated, nil
}

func (c *RemoteClient) Delete(bandID int) error {
	resp, err := c.c.R().Delete(fmt.Sprintf("/entities/%d", bandID))
	if err != nil {
		return err
	}

	if resp.IsError() {
		return toErrorFromResponse(resp)
	}

	return nil
}

func (c *RemoteClient) HealthCheck() bool {
	resp, err := c.c.R().Get("/entities/health")
	if err != nil {
		return false
	}

	return resp.IsSuccess()
}
