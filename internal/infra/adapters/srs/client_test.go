package srs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchStreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/streams/", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 0,
			"streams": [
				{
					"id": "vid-1",
					"app": "live",
					"name": "alice",
					"clients": 3,
					"publish": {"active": true, "cid": "cid-42"},
					"video": {"codec": "H264", "width": 1280, "height": 720}
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	streams := c.FetchStreams(context.Background())
	require.Len(t, streams, 1)
	assert.Equal(t, "live", streams[0].App)
	assert.Equal(t, "alice", streams[0].Name)
	assert.Equal(t, 3, streams[0].Clients)
	assert.True(t, streams[0].Publish.Active)
	assert.Equal(t, "cid-42", streams[0].Publish.CID)
	require.NotNil(t, streams[0].Video)
	assert.Equal(t, "H264", streams[0].Video.Codec)
}

func TestClient_FetchStreamsDegradesToEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		assert.Empty(t, c.FetchStreams(context.Background()))
	})

	t.Run("garbage body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		assert.Empty(t, c.FetchStreams(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1", time.Second)
		assert.Empty(t, c.FetchStreams(context.Background()))
	})
}

func TestClient_PublishExchangesSDP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rtc/v1/publish/", r.URL.Path)

		var req rtcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "v=0 offer", req.SDP)
		assert.Contains(t, req.StreamURL, "/live/alice")

		_ = json.NewEncoder(w).Encode(rtcResponse{Code: 0, SDP: "v=0 answer", SessionID: "s1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	answer, err := c.Publish(context.Background(), "live", "alice", "v=0 offer")
	require.NoError(t, err)
	assert.Equal(t, "v=0 answer", answer)
}

func TestClient_PlayRejectsErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rtc/v1/play/", r.URL.Path)

		_ = json.NewEncoder(w).Encode(rtcResponse{Code: 400})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.Play(context.Background(), "live", "alice", "v=0 offer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_PlayRejectsEmptySDP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(rtcResponse{Code: 0})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.Play(context.Background(), "live", "alice", "v=0 offer")
	require.Error(t, err)
}

func TestClient_KickClient(t *testing.T) {
	var gotPath, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	require.NoError(t, c.KickClient(context.Background(), "client-7"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/clients/client-7", gotPath)
}

func TestClient_KickClientPropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	require.Error(t, c.KickClient(context.Background(), "gone"))
}

func TestClient_Summaries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/summaries", r.URL.Path)

		_, _ = w.Write([]byte(`{"code":0,"data":{"ok":true}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)

	raw, err := c.Summaries(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"data":{"ok":true}}`, string(raw))
}
