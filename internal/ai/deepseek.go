package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gpulab/gpuboard/internal/common"
)

type DeepSeekProvider struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Client      *http.Client
}

type deepSeekMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepSeekChatReq struct {
	Model       string        `json:"model"`
	Messages    []deepSeekMsg `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type deepSeekChatResp struct {
	Choices []struct {
		Message deepSeekMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type deepSeekStreamResp struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewDeepSeekProvider(baseURL, apiKey, model string, maxTokens int, temperature float64) *DeepSeekProvider {
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	if model == "" {
		model = "deepseek-chat"
	}
	return &DeepSeekProvider{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Client:      &http.Client{Timeout: 90 * time.Second},
	}
}

// streamClient returns a copy of the client with the request timeout removed.
// A stream legitimately outlives the non-stream timeout; cancellation comes
// from the request context. The shared client is never mutated.
func (p *DeepSeekProvider) streamClient() *http.Client {
	if p.Client.Timeout == 0 {
		return p.Client
	}
	c := *p.Client
	c.Timeout = 0
	return &c
}

func (p *DeepSeekProvider) newRequest(ctx context.Context, messages []Message, stream bool) (*http.Request, error) {
	body := deepSeekChatReq{
		Model:       p.Model,
		Stream:      stream,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		Messages: func() []deepSeekMsg {
			out := make([]deepSeekMsg, 0, len(messages))
			for _, m := range messages {
				out = append(out, deepSeekMsg{Role: m.Role, Content: m.Content})
			}
			return out
		}(),
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	return req, nil
}

func (p *DeepSeekProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.Client == nil {
		return "", errors.New("deepseek: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", ErrAPIKeyMissing
	}

	req, err := p.newRequest(ctx, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &common.FetchError{Msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return "", &common.FetchError{Status: resp.StatusCode, Msg: msg}
	}

	var decoded deepSeekChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("deepseek: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}

// StreamChat streams assistant content deltas in upstream arrival order.
// It returns immediately with two channels; both are closed when streaming
// ends. The upstream wire is an SSE stream of JSON fragments terminated by a
// [DONE] sentinel.
func (p *DeepSeekProvider) StreamChat(ctx context.Context, messages []Message) (<-chan string, <-chan error) {
	chunks := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		if p.Client == nil {
			errs <- errors.New("deepseek: http client is nil")
			return
		}
		if strings.TrimSpace(p.APIKey) == "" {
			errs <- ErrAPIKeyMissing
			return
		}

		req, err := p.newRequest(ctx, messages, true)
		if err != nil {
			errs <- err
			return
		}

		resp, err := p.streamClient().Do(req)
		if err != nil {
			errs <- &common.FetchError{Msg: err.Error()}
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
			msg := strings.TrimSpace(string(body))
			if msg == "" {
				msg = resp.Status
			}
			errs <- &common.FetchError{Status: resp.StatusCode, Msg: msg}
			return
		}

		sc := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		sc.Buffer(buf, 2*1024*1024)

		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}
			var decoded deepSeekStreamResp
			if err := json.Unmarshal([]byte(data), &decoded); err != nil {
				// skip malformed fragments rather than killing the stream
				continue
			}
			if decoded.Error != nil && decoded.Error.Message != "" {
				errs <- errors.New(decoded.Error.Message)
				return
			}
			if len(decoded.Choices) == 0 {
				continue
			}
			if delta := decoded.Choices[0].Delta.Content; delta != "" {
				select {
				case chunks <- delta:
				case <-ctx.Done():
					return
				}
			}
		}

		if err := sc.Err(); err != nil {
			errs <- err
		}
	}()

	return chunks, errs
}
