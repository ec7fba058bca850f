// Package remote talks to the transcription and summarization service.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"minutemic/internal/domain"
	"minutemic/internal/errorsx"
	"minutemic/internal/ports"
)

// CredentialHeader carries the caller's API credential.
const CredentialHeader = "X-API-KEY"

const maxErrorExcerpt = 200

// Config controls the HTTP client.
type Config struct {
	BaseURL string
	// Timeout bounds a whole request. Zero means no limit.
	Timeout time.Duration
	Logger  resty.Logger
}

// Client implements ports.SummaryService over HTTP.
type Client struct {
	http *resty.Client
	now  func() time.Time
}

func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.Logger != nil {
		httpClient.SetLogger(cfg.Logger)
	}
	return &Client{http: httpClient, now: time.Now}
}

type summarizeTextRequest struct {
	Title        string   `json:"meeting_title"`
	Participants []string `json:"participants"`
	Text         string   `json:"text"`
}

type errorBody struct {
	Detail any `json:"detail"`
}

func (c *Client) Transcribe(ctx context.Context, credential string, audio ports.AudioUpload) (domain.Transcription, error) {
	var out domain.Transcription
	resp, err := c.request(ctx, credential).
		SetFileReader("file", audio.Filename, audio.Body).
		SetResult(&out).
		Post("/" + string(domain.EndpointAudioToText))
	if err := checkResponse(domain.EndpointAudioToText, resp, err); err != nil {
		return domain.Transcription{}, err
	}
	return out, nil
}

func (c *Client) SummarizeText(ctx context.Context, credential string, title string, participants []string, text string) (domain.SummaryResult, error) {
	if participants == nil {
		participants = []string{}
	}
	var out domain.SummaryResult
	resp, err := c.request(ctx, credential).
		SetHeader("Content-Type", "application/json").
		SetBody(summarizeTextRequest{Title: title, Participants: participants, Text: text}).
		SetResult(&out).
		Post("/" + string(domain.EndpointTextToSummary))
	if err := checkResponse(domain.EndpointTextToSummary, resp, err); err != nil {
		return domain.SummaryResult{}, err
	}
	return out, nil
}

func (c *Client) SummarizeAudio(ctx context.Context, credential string, audio ports.AudioUpload, title string, participants []string) (domain.SummaryResult, error) {
	var out domain.SummaryResult
	resp, err := c.request(ctx, credential).
		SetFileReader("file", audio.Filename, audio.Body).
		SetFormData(map[string]string{
			"meeting_title": title,
			"participants":  strings.Join(participants, ","),
		}).
		SetResult(&out).
		Post("/" + string(domain.EndpointAudioToSummary))
	if err := checkResponse(domain.EndpointAudioToSummary, resp, err); err != nil {
		return domain.SummaryResult{}, err
	}
	return out, nil
}

// Probe sends OPTIONS to every endpoint in parallel. An endpoint is available
// when it answers with a 2xx status.
func (c *Client) Probe(ctx context.Context, credential string) []domain.EndpointStatus {
	out := make([]domain.EndpointStatus, len(domain.Endpoints))
	var wg sync.WaitGroup
	for i, endpoint := range domain.Endpoints {
		wg.Add(1)
		go func(i int, endpoint domain.Endpoint) {
			defer wg.Done()
			resp, err := c.request(ctx, credential).Options("/" + string(endpoint))
			out[i] = domain.EndpointStatus{
				Endpoint:  endpoint,
				Available: err == nil && resp.IsSuccess(),
				CheckedAt: c.now(),
			}
		}(i, endpoint)
	}
	wg.Wait()
	return out
}

func (c *Client) request(ctx context.Context, credential string) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		ForceContentType("application/json")
	if credential != "" {
		req.SetHeader(CredentialHeader, credential)
	}
	return req
}

func checkResponse(endpoint domain.Endpoint, resp *resty.Response, err error) error {
	if err != nil {
		return errorsx.Wrap(fmt.Errorf("%s: %w", endpoint, err), errorsx.ReasonRemoteRequestFailed)
	}
	if resp.IsError() {
		return errorsx.Wrap(
			fmt.Errorf("%s: status %d: %s", endpoint, resp.StatusCode(), excerpt(resp.Body())),
			errorsx.ReasonRemoteRequestFailed,
		)
	}
	return nil
}

// excerpt prefers a JSON "detail" message and otherwise truncates the body.
func excerpt(body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != nil {
		if s, ok := parsed.Detail.(string); ok {
			return truncate(s)
		}
		if raw, err := json.Marshal(parsed.Detail); err == nil {
			return truncate(string(raw))
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxErrorExcerpt {
		return s
	}
	return string(runes[:maxErrorExcerpt]) + "…"
}
