// Package tts is the synthesis boundary: one narration request in, one
// complete audio-plus-alignment response out. The core never consumes
// partial or streamed alignment data.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voicecut/internal/domain"
)

// Request is one batch synthesis call covering the whole joined script.
type Request struct {
	Text    string
	VoiceID string
}

// Response carries the full synthesized audio and its character timing.
type Response struct {
	Audio      []byte
	SampleRate int
	Alignment  domain.Alignment
}

// Synthesizer produces narration audio with character-level timing.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Response, error)
}

// Client talks to an ElevenLabs-compatible timestamped synthesis endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	modelID    string
	sampleRate int
	httpClient *http.Client
}

// DefaultBaseURL is the hosted synthesis endpoint.
const DefaultBaseURL = "https://api.elevenlabs.io"

const (
	defaultModelID    = "eleven_multilingual_v2"
	defaultSampleRate = 16000
	requestTimeout    = 5 * time.Minute
)

// NewClient creates a synthesis client for the given endpoint and API key.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		modelID:    defaultModelID,
		sampleRate: defaultSampleRate,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type synthesisRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type synthesisResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Alignment   struct {
		Characters    []string  `json:"characters"`
		StartTimes    []float64 `json:"character_start_times_seconds"`
		EndTimes      []float64 `json:"character_end_times_seconds"`
	} `json:"alignment"`
}

// Synthesize posts the joined script and returns decoded PCM audio plus its
// alignment. Any failure, including context cancellation, is a synthesis
// failure; no partial audio is ever accepted.
func (c *Client) Synthesize(ctx context.Context, req Request) (Response, error) {
	if req.Text == "" {
		return Response{}, domain.NewError(domain.KindSynthesisFailed, "narration script is empty")
	}
	if req.VoiceID == "" {
		return Response{}, domain.NewError(domain.KindSynthesisFailed, "no narration voice selected")
	}

	body, err := json.Marshal(synthesisRequest{Text: req.Text, ModelID: c.modelID})
	if err != nil {
		return Response{}, domain.WrapError(domain.KindSynthesisFailed, err, "encode synthesis request")
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s/with-timestamps?output_format=pcm_%d",
		c.baseURL, req.VoiceID, c.sampleRate)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, domain.WrapError(domain.KindSynthesisFailed, err, "build synthesis request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, domain.WrapError(domain.KindSynthesisFailed, err, "synthesis call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Response{}, domain.NewError(domain.KindSynthesisFailed,
			"synthesis endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var decoded synthesisResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Response{}, domain.WrapError(domain.KindSynthesisFailed, err, "decode synthesis response")
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.AudioBase64)
	if err != nil {
		return Response{}, domain.WrapError(domain.KindSynthesisFailed, err, "decode synthesized audio")
	}
	if len(audio) == 0 {
		return Response{}, domain.NewError(domain.KindSynthesisFailed, "synthesis returned no audio")
	}

	return Response{
		Audio:      audio,
		SampleRate: c.sampleRate,
		Alignment: domain.Alignment{
			Characters: decoded.Alignment.Characters,
			StartTimes: decoded.Alignment.StartTimes,
			EndTimes:   decoded.Alignment.EndTimes,
		},
	}, nil
}

// NewClientForTests creates a client against a test server with a short
// timeout.
func NewClientForTests(baseURL, apiKey string) *Client {
	c := NewClient(baseURL, apiKey)
	c.httpClient = &http.Client{Timeout: 5 * time.Second}
	return c
}
