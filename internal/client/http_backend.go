package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"member-chat-be/internal/dto"
	"member-chat-be/internal/entity"
	"member-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// HTTPBackend talks to the chat backend over its JSON HTTP contract.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	logger  logger.ILogger
}

func NewHTTPBackend(baseURL string, timeout time.Duration, log logger.ILogger) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// Wire shapes.

type businessHoursPayload struct {
	Is24x7   bool                 `json:"is_24x7"`
	Days     []businessDayPayload `json:"days"`
	Timezone string               `json:"timezone"`
}

type businessDayPayload struct {
	Day         string `json:"day"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	IsOpen      bool   `json:"is_open"`
	IsHoliday   bool   `json:"is_holiday"`
	HolidayName string `json:"holiday_name"`
}

type sessionPayload struct {
	Id     string `json:"id"`
	Active bool   `json:"active"`
}

type messagePayload struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

type cobrowsePayload struct {
	SessionId string `json:"sessionId"`
	Code      string `json:"code"`
	URL       string `json:"url"`
}

func (b *HTTPBackend) FetchBusinessHours(ctx context.Context) (*entity.BusinessHours, error) {
	var payload businessHoursPayload
	if err := b.do(ctx, http.MethodGet, "/business-hours", nil, &payload); err != nil {
		return nil, err
	}

	days := make([]entity.BusinessDay, 0, len(payload.Days))
	for _, d := range payload.Days {
		days = append(days, entity.BusinessDay{
			Day:         d.Day,
			OpenTime:    d.OpenTime,
			CloseTime:   d.CloseTime,
			IsOpen:      d.IsOpen,
			IsHoliday:   d.IsHoliday,
			HolidayName: d.HolidayName,
		})
	}
	return &entity.BusinessHours{
		Is24x7:   payload.Is24x7,
		Days:     days,
		Timezone: payload.Timezone,
		Source:   entity.HoursSourceAPI,
	}, nil
}

func (b *HTTPBackend) CreateSession(ctx context.Context, planId string) (*entity.ChatSession, error) {
	body := map[string]string{"planId": planId}
	var payload sessionPayload
	if err := b.do(ctx, http.MethodPost, "/chat/session", body, &payload); err != nil {
		return nil, err
	}
	return &entity.ChatSession{
		Id:        payload.Id,
		Active:    payload.Active,
		PlanId:    planId,
		Messages:  []entity.ChatMessage{},
		CreatedAt: time.Now(),
	}, nil
}

func (b *HTTPBackend) SendMessage(ctx context.Context, sessionId, text string) (*entity.ChatMessage, error) {
	body := map[string]string{"text": text}
	var payload messagePayload
	path := fmt.Sprintf("/chat/session/%s/message", sessionId)
	if err := b.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(payload.Id)
	if err != nil {
		id = uuid.New()
	}
	createdAt := payload.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	sender := entity.ChatSender(payload.Sender)
	if sender == "" {
		sender = entity.SenderUser
	}
	return &entity.ChatMessage{
		Id:        id,
		Text:      payload.Text,
		Sender:    sender,
		CreatedAt: createdAt,
	}, nil
}

func (b *HTTPBackend) EndSession(ctx context.Context, sessionId string) error {
	path := fmt.Sprintf("/chat/session/%s", sessionId)
	return b.do(ctx, http.MethodDelete, path, nil, nil)
}

func (b *HTTPBackend) CreateCobrowse(ctx context.Context, sessionId string) (*entity.CobrowseSession, error) {
	var payload cobrowsePayload
	path := fmt.Sprintf("/chat/session/%s/cobrowse", sessionId)
	if err := b.do(ctx, http.MethodPost, path, nil, &payload); err != nil {
		return nil, err
	}
	return &entity.CobrowseSession{
		Id:        payload.SessionId,
		Code:      payload.Code,
		SourceURL: payload.URL,
		CreatedAt: time.Now(),
	}, nil
}

func (b *HTTPBackend) EndCobrowse(ctx context.Context, sessionId, cobrowseId string) error {
	path := fmt.Sprintf("/chat/session/%s/cobrowse/%s", sessionId, cobrowseId)
	return b.do(ctx, http.MethodDelete, path, nil, nil)
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &dto.SessionBackendError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return &dto.SessionBackendError{Op: method + " " + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return &dto.SessionBackendError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &dto.SessionBackendError{Op: method + " " + path, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &dto.SessionBackendError{Op: method + " " + path, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &dto.SessionBackendError{Op: method + " " + path, Err: err}
	}
	return nil
}
