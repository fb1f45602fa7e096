package srs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pixelcast/backend/internal/application/constant"
	"github.com/pixelcast/backend/internal/domain/models"
)

// Client talks to the SRS HTTP API. SRS is the source of truth for live
// stream state; this client is a thin I/O boundary around it.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

func NewClient(apiURL string, requestTimeout time.Duration) *Client {
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type streamsResponse struct {
	Streams []models.StreamSnapshot `json:"streams"`
}

// FetchStreams returns the current live streams. Any transport, status or
// decode failure degrades to an empty result: the next poll is the retry,
// and callers must treat an empty list as "no data", not as an error.
func (c *Client) FetchStreams(ctx context.Context) []models.StreamSnapshot {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/api/v1/streams/", nil)
	if err != nil {
		slog.Warn("build SRS streams request", slog.Any(constant.Error, err))
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("fetch SRS streams", slog.Any(constant.Error, err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("SRS streams request failed", slog.Int("status", resp.StatusCode))
		return nil
	}

	var body streamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.Warn("decode SRS streams response", slog.Any(constant.Error, err))
		return nil
	}

	return body.Streams
}

type rtcRequest struct {
	API       string `json:"api"`
	StreamURL string `json:"streamurl"`
	SDP       string `json:"sdp"`
}

type rtcResponse struct {
	Code      int    `json:"code"`
	SDP       string `json:"sdp"`
	SessionID string `json:"sessionid"`
}

// Publish forwards a WHIP SDP offer to SRS and returns the SDP answer.
func (c *Client) Publish(ctx context.Context, app, stream, sdpOffer string) (string, error) {
	return c.rtcExchange(ctx, "/rtc/v1/publish/", app, stream, sdpOffer)
}

// Play forwards a WHEP SDP offer to SRS and returns the SDP answer.
func (c *Client) Play(ctx context.Context, app, stream, sdpOffer string) (string, error) {
	return c.rtcExchange(ctx, "/rtc/v1/play/", app, stream, sdpOffer)
}

func (c *Client) rtcExchange(ctx context.Context, path, app, stream, sdpOffer string) (string, error) {
	endpoint := c.apiURL + path

	streamURL := fmt.Sprintf(
		"webrtc://%s/%s/%s",
		strings.TrimPrefix(strings.TrimPrefix(c.apiURL, "https://"), "http://"),
		app,
		stream,
	)

	payload, err := json.Marshal(rtcRequest{
		API:       endpoint,
		StreamURL: streamURL,
		SDP:       sdpOffer,
	})
	if err != nil {
		return "", fmt.Errorf("marshal rtc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build rtc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send rtc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", fmt.Errorf("SRS rtc request failed: %d %s", resp.StatusCode, string(body))
	}

	var rtcResp rtcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rtcResp); err != nil {
		return "", fmt.Errorf("decode rtc response: %w", err)
	}

	if rtcResp.Code != 0 {
		return "", fmt.Errorf("SRS returned error code %d", rtcResp.Code)
	}

	if rtcResp.SDP == "" {
		return "", fmt.Errorf("SRS rtc response missing SDP")
	}

	return rtcResp.SDP, nil
}

// KickClient drops a connected SRS client, which stops its stream.
func (c *Client) KickClient(ctx context.Context, clientID string) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.apiURL+"/api/v1/clients/"+clientID,
		nil,
	)
	if err != nil {
		return fmt.Errorf("build kick request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send kick request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SRS kick request failed: %d", resp.StatusCode)
	}

	return nil
}

// Summaries proxies the SRS monitoring summary as raw JSON.
func (c *Client) Summaries(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/api/v1/summaries", nil)
	if err != nil {
		return nil, fmt.Errorf("build summaries request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send summaries request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SRS summaries request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read summaries response: %w", err)
	}

	return body, nil
}
