// Package gemini provides a client for the Google Gemini text generation API.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"drug-repurpose-go/internal/config"

	"github.com/gorilla/websocket"
)

// MessageWriter defines an interface for writing WebSocket messages.
// This allows both a standard websocket.Conn and test doubles to be used.
type MessageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Client defines the interface for the chat gateway client.
type Client interface {
	// GenerateContent 发送单条 prompt 并等待完整的生成文本。
	// 每轮调用相互独立，不携带历史上下文。
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// StreamGenerateContent 以 SSE 流式获取生成文本，并将分块写入 writer。
	StreamGenerateContent(ctx context.Context, prompt string, writer MessageWriter) error
}

type geminiClient struct {
	cfg    config.GeminiConfig
	client *http.Client
}

// NewClient creates a new Gemini client from the config.
func NewClient(cfg config.GeminiConfig) Client {
	return &geminiClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// buildRequest 构造请求体，生成参数从全局配置注入（若非零值）。
func (c *geminiClient) buildRequest(prompt string) generateRequest {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	var gen generationConfig
	if c.cfg.Generation.Temperature != 0 {
		t := c.cfg.Generation.Temperature
		gen.Temperature = &t
	}
	if c.cfg.Generation.TopP != 0 {
		p := c.cfg.Generation.TopP
		gen.TopP = &p
	}
	if c.cfg.Generation.MaxOutputTokens != 0 {
		m := c.cfg.Generation.MaxOutputTokens
		gen.MaxOutputTokens = &m
	}
	if gen.Temperature != nil || gen.TopP != nil || gen.MaxOutputTokens != nil {
		req.GenerationConfig = &gen
	}
	return req
}

// GenerateContent calls the Gemini generateContent endpoint and returns the full text.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBytes, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	text := joinCandidateText(out)
	if text == "" {
		return "", fmt.Errorf("gemini response contained no candidates")
	}
	return text, nil
}

// StreamGenerateContent calls the SSE streaming endpoint and writes chunks to the writer.
func (c *geminiClient) StreamGenerateContent(ctx context.Context, prompt string, writer MessageWriter) error {
	reqBytes, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create stream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gemini stream api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gemini stream api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read from stream: %w", err)
		}

		if strings.HasPrefix(line, "data: ") {
			data := strings.TrimPrefix(line, "data: ")

			var chunk generateResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			text := joinCandidateText(chunk)
			if text == "" {
				continue
			}
			if err := writer.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				return fmt.Errorf("failed to write message to websocket: %w", err)
			}
		}
	}
	return nil
}

// joinCandidateText 拼接首个候选的全部文本分片。
func joinCandidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
