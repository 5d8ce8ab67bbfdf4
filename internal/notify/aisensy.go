// Package notify отправляет WhatsApp-уведомления через AiSensy.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	sendTimeout     = 10 * time.Second
	welcomeTemplate = "welcome_message"
	passwordHeader  = "X-AiSensy-Project-API-Pwd"
)

// ErrNotConfigured возвращается, если не заданы адрес, проект или пароль API.
var ErrNotConfigured = errors.New("aisensy client not configured")

// Client: клиент AiSensy project API.
type Client struct {
	baseURL    string
	projectID  string
	apiPwd     string
	httpClient *http.Client
}

// NewClient создаёт клиент. Пустые projectID или apiPwd делают клиент неактивным.
func NewClient(baseURL, projectID, apiPwd string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		apiPwd:    apiPwd,
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
	}
}

// Configured сообщает, может ли клиент отправлять сообщения.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.projectID != "" && c.apiPwd != ""
}

type language struct {
	Policy string `json:"policy"`
	Code   string `json:"code"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type template struct {
	Language   language    `json:"language"`
	Name       string      `json:"name"`
	Components []component `json:"components"`
}

type message struct {
	To       string   `json:"to"`
	Type     string   `json:"type"`
	Template template `json:"template"`
}

func welcomeMessage(phone string) message {
	return message{
		To:   phone,
		Type: "template",
		Template: template{
			Language: language{Policy: "deterministic", Code: "en"},
			Name:     welcomeTemplate,
			Components: []component{
				{Type: "body", Parameters: []parameter{{Type: "text", Text: ""}}},
			},
		},
	}
}

// SendWelcome отправляет шаблон приветствия на нормализованный номер phone.
func (c *Client) SendWelcome(ctx context.Context, phone string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	endpoint := fmt.Sprintf("%s/project-apis/v1/project/%s/messages", base, url.PathEscape(c.projectID))

	payload, err := json.Marshal(welcomeMessage(phone))
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(passwordHeader, c.apiPwd)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
