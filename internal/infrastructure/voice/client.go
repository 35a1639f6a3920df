// Package voice proxies the upstream speech service used by the
// dashboard's voice smoke-test tool.
package voice

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Voice describes one synthesis voice offered by the upstream service.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// fallbackVoices is served when the upstream voice listing fails, so
// the synthesis form always has something to offer.
var fallbackVoices = []Voice{
	{ID: "en-CA-standard-a", Name: "Clara (Standard)", Language: "en-CA"},
	{ID: "en-CA-standard-b", Name: "Liam (Standard)", Language: "en-CA"},
	{ID: "fr-CA-standard-a", Name: "Chloé (Standard)", Language: "fr-CA"},
}

// TranscribeResult is the text returned for an audio clip.
type TranscribeResult struct {
	Text string `json:"text"`
}

// SynthesizeResult carries raw audio plus its content type.
type SynthesizeResult struct {
	Audio       []byte
	ContentType string
}

// Client calls the upstream speech service. Calls are single-shot; the
// dashboard tool surfaces upstream failures instead of retrying.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// NewClient builds a resty client from config.
func NewClient(cfg config.VoiceConfig, log *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: client, log: log}
}

// Transcribe forwards an audio clip and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, language, mode string) (*TranscribeResult, error) {
	if language == "" {
		language = "en"
	}
	if mode == "" {
		mode = "auto_vad"
	}

	var result TranscribeResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("audio", filename, bytes.NewReader(audio)).
		SetFormData(map[string]string{
			"language": language,
			"mode":     mode,
		}).
		SetResult(&result).
		Post("/voice/transcribe")
	if err != nil {
		c.log.Error("voice transcription failed", zap.Error(err))
		return nil, shared.ErrUpstreamFailure
	}
	if resp.IsError() {
		c.log.Warn("voice transcription rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, upstreamError(resp.StatusCode())
	}
	return &result, nil
}

// Synthesize converts text to speech with the selected voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) (*SynthesizeResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"text":  text,
			"voice": voiceID,
		}).
		Post("/voice/synthesize")
	if err != nil {
		c.log.Error("voice synthesis failed", zap.Error(err))
		return nil, shared.ErrUpstreamFailure
	}
	if resp.IsError() {
		c.log.Warn("voice synthesis rejected",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, upstreamError(resp.StatusCode())
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &SynthesizeResult{
		Audio:       resp.Body(),
		ContentType: contentType,
	}, nil
}

// Voices lists upstream voices, falling back to a fixed set on failure.
func (c *Client) Voices(ctx context.Context) []Voice {
	var voices []Voice
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&voices).
		Get("/voice/voices")
	if err != nil || resp.IsError() || len(voices) == 0 {
		c.log.Warn("voice listing unavailable, serving fallback set",
			zap.Error(err))
		return fallbackVoices
	}
	return voices
}

func upstreamError(status int) error {
	if status == http.StatusRequestEntityTooLarge {
		return shared.NewDomainError("AUDIO_TOO_LARGE", "Audio clip exceeds the upstream size limit")
	}
	return fmt.Errorf("%w: upstream returned %d", shared.ErrUpstreamFailure, status)
}
