package service

import (
	"bytes"
	"codequest_backend/internal/config"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// 失败时返回给用户的占位回复
const (
	ReplyMissingKey  = "AI API key missing"
	ReplyNoResponse  = "AI did not respond"
	ReplyFetchFailed = "AI fetch failed"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatRelay 把用户消息转发给 Gemini，配置可热更新
type ChatRelay struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewChatRelay(cfg config.AIConfig) *ChatRelay {
	return &ChatRelay{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (r *ChatRelay) Reload(cfg config.AIConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = cfg
	r.client = &http.Client{Timeout: cfg.Timeout}
}

func (r *ChatRelay) snapshot() (config.AIConfig, *http.Client) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config, r.client
}

// Reply 永远返回一段文本，失败时是占位回复
func (r *ChatRelay) Reply(ctx context.Context, message string) string {
	cfg, client := r.snapshot()
	if cfg.APIKey == "" {
		logger.Log.Error("Chat relay API key not set")
		monitoring.ChatRelay.WithLabelValues("missing_key").Inc()
		return ReplyMissingKey
	}

	reply, err := r.generate(ctx, cfg, client, message)
	if err != nil {
		logger.Log.Error("Chat relay request failed", zap.Error(err))
		monitoring.ChatRelay.WithLabelValues("error").Inc()
		return ReplyFetchFailed
	}
	if reply == "" {
		monitoring.ChatRelay.WithLabelValues("empty").Inc()
		return ReplyNoResponse
	}

	monitoring.ChatRelay.WithLabelValues("ok").Inc()
	return reply
}

func (r *ChatRelay) generate(ctx context.Context, cfg config.AIConfig, client *http.Client, message string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: cfg.SystemPrompt + "\nUser: " + message}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out geminiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			logger.Log.Warn("Chat provider returned error status", zap.Int("status", resp.StatusCode))
			return "", nil
		}
		return "", fmt.Errorf("decode provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := ""
		if out.Error != nil {
			msg = out.Error.Message
		}
		logger.Log.Warn("Chat provider returned error status", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return "", nil
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}
