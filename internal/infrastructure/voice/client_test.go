package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.VoiceConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)
}

func TestClient_Transcribe(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/voice/transcribe", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "en", r.FormValue("language"))
		assert.Equal(t, "auto_vad", r.FormValue("mode"))

		_, _, err := r.FormFile("audio")
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TranscribeResult{Text: "two grams of blue dream"})
	}))

	result, err := client.Transcribe(context.Background(), []byte("audio-bytes"), "clip.webm", "", "")

	require.NoError(t, err)
	assert.Equal(t, "two grams of blue dream", result.Text)
}

func TestClient_TranscribeUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Transcribe(context.Background(), []byte("x"), "clip.webm", "en", "auto_vad")

	assert.ErrorIs(t, err, shared.ErrUpstreamFailure)
}

func TestClient_Synthesize(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/voice/synthesize", r.URL.Path)
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFF"))
	}))

	result, err := client.Synthesize(context.Background(), "welcome to the store", "en-CA-standard-a")

	require.NoError(t, err)
	assert.Equal(t, "audio/wav", result.ContentType)
	assert.Equal(t, []byte("RIFF"), result.Audio)
}

func TestClient_VoicesFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	voices := client.Voices(context.Background())

	require.Len(t, voices, 3)
	assert.Equal(t, "en-CA-standard-a", voices[0].ID)
}

func TestClient_VoicesUpstream(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Voice{
			{ID: "custom-1", Name: "Custom", Language: "en-US"},
		})
	}))

	voices := client.Voices(context.Background())

	require.Len(t, voices, 1)
	assert.Equal(t, "custom-1", voices[0].ID)
}
