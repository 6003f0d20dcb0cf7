package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"PortfolioChat/internal/backend"
	"PortfolioChat/internal/session"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Layouts accepted for history timestamps. Values without a zone are local
// time, as a browser Date would read them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FetchHistory returns the stored conversation for the current session, in
// server order. It never fails: without a session, on 404, or on any other
// error it returns an empty history so the chat can still open.
func (c *Client) FetchHistory(ctx context.Context) []session.Message {
	sessionID := c.sessions.GetSessionID()
	if sessionID == "" {
		return []session.Message{}
	}

	ctx, span := c.tracer.Start(ctx, "chat_history")
	defer span.End()
	span.SetAttributes(attribute.String("chat.session_id", sessionID))

	start := time.Now()
	messages, err := c.fetchHistory(ctx, sessionID)
	c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("endpoint", "history")))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.historyFailures.Add(ctx, 1)
		c.logger.Error("failed to fetch session history", "session_id", sessionID, "error", err)
		return []session.Message{}
	}

	c.logger.Info("loaded session history", "session_id", sessionID, "message_count", len(messages))
	return messages
}

func (c *Client) fetchHistory(ctx context.Context, sessionID string) ([]session.Message, error) {
	endpoint := c.baseURL + fmt.Sprintf(backend.HistoryPathFmt, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", backend.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The backend has not stored anything for this session yet
		return []session.Message{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch history: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp backend.HistoryResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	messages := make([]session.Message, 0, len(apiResp.Messages))
	for _, msg := range apiResp.Messages {
		messages = append(messages, session.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: parseTimestamp(msg.Timestamp),
		})
	}
	return messages, nil
}

// parseTimestamp returns the zero time for empty or unreadable values
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
