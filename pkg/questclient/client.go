// Package questclient 是进度服务的 HTTP 客户端，以及驱动单科进度状态机的会话。
package questclient

import (
	"bytes"
	"codequest_backend/internal/quest"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrNotFound          = errors.New("questclient: user not found")
	ErrAccountExists     = errors.New("questclient: account already exists")
	ErrIncorrectPassword = errors.New("questclient: incorrect password")
)

// StatusError 其余非 2xx 响应
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("questclient: status %d: %s", e.Code, e.Message)
}

type Progress struct {
	C      int      `json:"c"`
	HTML   int      `json:"html"`
	Python int      `json:"python"`
	Stars  int      `json:"stars"`
	Badges []string `json:"badges"`
}

// Count 返回某科目的已完成挑战数
func (p Progress) Count(s quest.Subject) int {
	switch s {
	case quest.SubjectC:
		return p.C
	case quest.SubjectHTML:
		return p.HTML
	case quest.SubjectPython:
		return p.Python
	}
	return 0
}

type Profile struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Progress Progress `json:"progress"`
}

type LeaderboardEntry struct {
	Name     string         `json:"name"`
	Progress map[string]int `json:"progress"`
}

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    *Profile `json:"user"`
	Token   string   `json:"token"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.RWMutex
	token string
	cache map[string]Profile
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithToken 复用之前登录得到的令牌
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
		cache:   make(map[string]Profile),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Cached 返回最近一次成功响应里的档案
func (c *Client) Cached(email string) (Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.cache[email]
	return p, ok
}

func (c *Client) remember(p *Profile) {
	if p == nil {
		return
	}
	c.mu.Lock()
	c.cache[p.Email] = *p
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && len(data) > 0 {
		// 错误响应的结构可能与 out 不同，交给调用方按状态码处理
		if err := json.Unmarshal(data, out); err != nil && resp.StatusCode < 400 {
			return resp.StatusCode, fmt.Errorf("questclient: decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func statusErr(code int, env envelope) error {
	return &StatusError{Code: code, Message: env.Message}
}

func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	var env envelope
	code, err := c.do(ctx, http.MethodPost, "/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, &env)
	if err != nil {
		return err
	}
	switch {
	case code == http.StatusOK && env.Success:
		return nil
	case code == http.StatusBadRequest && env.Message == "Account already exists":
		return ErrAccountExists
	}
	return statusErr(code, env)
}

// Login 成功后保存令牌，后续进度上报会携带
func (c *Client) Login(ctx context.Context, email, password string) (*Profile, error) {
	var env envelope
	code, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email": email, "password": password,
	}, &env)
	if err != nil {
		return nil, err
	}
	switch code {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		return nil, ErrIncorrectPassword
	default:
		return nil, statusErr(code, env)
	}

	c.mu.Lock()
	c.token = env.Token
	c.mu.Unlock()
	c.remember(env.User)
	return env.User, nil
}

func (c *Client) LoadProfile(ctx context.Context, email string) (*Profile, error) {
	var env envelope
	code, err := c.do(ctx, http.MethodGet, "/profile/"+url.PathEscape(email), nil, &env)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if code != http.StatusOK || env.User == nil {
		return nil, statusErr(code, env)
	}

	c.remember(env.User)
	return env.User, nil
}

// SaveProgressDelta completed 是该科目的绝对完成数，stars 是增量，badge 可以为空
func (c *Client) SaveProgressDelta(ctx context.Context, email string, subject quest.Subject, completed, stars int, badge string) (*Profile, error) {
	body := map[string]interface{}{
		"email": email,
		"quest": string(subject),
		"value": completed,
		"stars": stars,
	}
	if badge != "" {
		body["badge"] = badge
	}

	var env envelope
	code, err := c.do(ctx, http.MethodPost, "/progress", body, &env)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if code != http.StatusOK || env.User == nil {
		return nil, statusErr(code, env)
	}

	c.remember(env.User)
	return env.User, nil
}

func (c *Client) Leaderboard(ctx context.Context, subject quest.Subject) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	code, err := c.do(ctx, http.MethodGet, "/leaderboard/"+url.PathEscape(string(subject)), nil, &entries)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, &StatusError{Code: code}
	}
	return entries, nil
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	code, err := c.do(ctx, http.MethodPost, "/chat", map[string]string{"message": message}, &out)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", &StatusError{Code: code}
	}
	return out.Reply, nil
}
