// Package backend предоставляет клиент удалённого API кампании Imagine.
package backend

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

	"github.com/mmeshcher/imagine/internal/model"
)

const (
	usersTimeout   = 15 * time.Second
	requestTimeout = 10 * time.Second
)

var (
	// ErrInvalidCredentials возвращается, если бэкенд отклонил логин или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmployeeNotFound возвращается, если сотрудник не найден.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrRedeemRejected возвращается, если бэкенд отказал в погашении награды.
	ErrRedeemRejected = errors.New("redeem rejected")
)

// Client инкапсулирует HTTP-взаимодействие с бэкендом кампании.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт HTTP-клиент для обращения к бэкенду по указанному адресу.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: usersTimeout,
		},
	}
}

// RedeemRequest описывает запрос на погашение награды.
// Index задаёт слот фиксированного каталога и не передаётся, если равен nil.
type RedeemRequest struct {
	Phone    string `json:"phone"`
	RedeemBy string `json:"redeemby"`
	Index    *int   `json:"index,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Pass     string `json:"pass"`
}

type envelope struct {
	OK       bool            `json:"ok"`
	Message  string          `json:"message"`
	Employee *model.Employee `json:"employee"`
	User     *userDTO        `json:"user"`
}

// ListUsers запрашивает полный список участников кампании.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, usersTimeout)
	defer cancel()

	var resp struct {
		Users json.RawMessage `json:"users"`
	}
	code, err := c.doJSON(ctx, http.MethodGet, "/users", nil, &resp)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", code)
	}

	return decodeUsers(resp.Users), nil
}

// Login проверяет учётные данные сотрудника.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var resp envelope
	code, err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Pass: password}, &resp)
	if err != nil {
		return nil, err
	}

	switch {
	case code >= http.StatusInternalServerError:
		return nil, fmt.Errorf("unexpected status: %d", code)
	case code >= http.StatusBadRequest, !resp.OK:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, resp.Message)
	}

	if resp.Employee == nil {
		return &model.Employee{Username: username}, nil
	}
	return resp.Employee, nil
}

// GetEmployee возвращает профиль сотрудника.
func (c *Client) GetEmployee(ctx context.Context, username string) (*model.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var resp envelope
	code, err := c.doJSON(ctx, http.MethodGet, "/auth/employee/"+url.PathEscape(username), nil, &resp)
	if err != nil {
		return nil, err
	}

	switch {
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, username)
	case code != http.StatusOK:
		return nil, fmt.Errorf("unexpected status: %d", code)
	case !resp.OK || resp.Employee == nil:
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, username)
	}

	return resp.Employee, nil
}

// Redeem погашает награду пользователя и возвращает обновлённую запись, если бэкенд её прислал.
func (c *Client) Redeem(ctx context.Context, req RedeemRequest) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var resp envelope
	code, err := c.doJSON(ctx, http.MethodPost, "/users/redeem", req, &resp)
	if err != nil {
		return nil, err
	}

	switch {
	case code >= http.StatusInternalServerError:
		return nil, fmt.Errorf("unexpected status: %d", code)
	case code >= http.StatusBadRequest, !resp.OK:
		return nil, fmt.Errorf("%w: %s", ErrRedeemRejected, resp.Message)
	}

	if resp.User == nil {
		return nil, nil
	}
	u := resp.User.toModel()
	return &u, nil
}

func (c *Client) endpoint(path string) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", fmt.Errorf("backend client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base + path, nil
}

// doJSON выполняет запрос и декодирует JSON-ответ в out при любом статусе.
// Тело, которое не удалось декодировать, игнорируется: решение принимается по статусу.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) (int, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return 0, err
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil && resp.StatusCode == http.StatusOK {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return resp.StatusCode, nil
}
