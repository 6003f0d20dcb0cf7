// Package chatclient talks to the portfolio chatbot backend. It streams
// assistant replies frame by frame and keeps the backend-assigned session
// identifier so later turns continue the same conversation.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"PortfolioChat/internal/backend"
	"PortfolioChat/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	instrumentationName = "PortfolioChat/internal/chatclient"
	readBufferSize      = 4096
)

// Handler receives the outcome of one Send. Exactly one of OnComplete and
// OnError is called, once. Nil fields are skipped.
type Handler struct {
	OnChunk    func(chunk string)
	OnSession  func(sessionID string)
	OnComplete func()
	OnError    func(err error)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Meter      metric.Meter
}

// Client is the streaming chat client. It is not safe to run two sends for
// the same session at once: the caller must wait for one to settle.
type Client struct {
	baseURL    string
	sessions   *session.Tracker
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer

	requestDuration metric.Float64Histogram
	chunksReceived  metric.Int64Counter
	sendFailures    metric.Int64Counter
	historyFailures metric.Int64Counter
}

// New creates a client for the backend at baseURL
func New(baseURL string, sessions *session.Tracker, opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		tracer:     opts.Tracer,
	}
	if c.httpClient == nil {
		// No timeout: replies stream for as long as the model writes
		c.httpClient = &http.Client{Timeout: 0}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(instrumentationName)
	}
	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	c.initInstruments(meter)
	return c
}

func (c *Client) initInstruments(meter metric.Meter) {
	fallback := noop.NewMeterProvider().Meter(instrumentationName)
	var err error

	c.requestDuration, err = meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err != nil {
		c.logger.Warn("failed to create histogram", "error", err)
		c.requestDuration, _ = fallback.Float64Histogram("http.client.request.duration")
	}

	c.chunksReceived, err = meter.Int64Counter(
		"chat.stream.chunks",
		metric.WithDescription("Assistant chunks delivered to the UI"),
	)
	if err != nil {
		c.logger.Warn("failed to create counter", "name", "chat.stream.chunks", "error", err)
		c.chunksReceived, _ = fallback.Int64Counter("chat.stream.chunks")
	}

	c.sendFailures, err = meter.Int64Counter(
		"chat.stream.errors",
		metric.WithDescription("Sends that ended in an error"),
	)
	if err != nil {
		c.logger.Warn("failed to create counter", "name", "chat.stream.errors", "error", err)
		c.sendFailures, _ = fallback.Int64Counter("chat.stream.errors")
	}

	c.historyFailures, err = meter.Int64Counter(
		"chat.history.failures",
		metric.WithDescription("History fetches degraded to an empty history"),
	)
	if err != nil {
		c.logger.Warn("failed to create counter", "name", "chat.history.failures", "error", err)
		c.historyFailures, _ = fallback.Int64Counter("chat.history.failures")
	}
}

// GetSessionID returns the stored session identifier, or ""
func (c *Client) GetSessionID() string {
	return c.sessions.GetSessionID()
}

// SaveSessionID replaces the stored session identifier
func (c *Client) SaveSessionID(id string) {
	c.sessions.SaveSessionID(id)
}

// ClearSession forgets the session; the next send starts a new conversation
func (c *Client) ClearSession() {
	c.sessions.ClearSession()
}

// Send posts message and streams the reply into h. It returns once the
// stream has ended, failed, or ctx was cancelled.
func (c *Client) Send(ctx context.Context, message string, h Handler) {
	ctx, span := c.tracer.Start(ctx, "chat_stream")
	defer span.End()

	start := time.Now()
	chunks, err := c.stream(ctx, message, h)

	c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("endpoint", backend.ChatStreamPath)))
	span.SetAttributes(attribute.Int("chat.chunks", chunks))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.sendFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", errorKind(err))))
		c.logger.Warn("chat stream failed", "error", err, "chunks", chunks)
		if h.OnError != nil {
			h.OnError(err)
		}
		return
	}

	c.logger.Info("chat stream complete", "chunks", chunks, "duration_ms", time.Since(start).Milliseconds())
	if h.OnComplete != nil {
		h.OnComplete()
	}
}

// stream runs one request and reports how many chunks it delivered.
// A nil error means the stream ended normally.
func (c *Client) stream(ctx context.Context, message string, h Handler) (int, error) {
	if strings.TrimSpace(message) == "" {
		return 0, ErrEmptyMessage
	}

	reqBody := backend.ChatRequest{Message: message}
	if id := c.sessions.GetSessionID(); id != "" {
		reqBody.SessionID = &id
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, transportError(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+backend.ChatStreamPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, transportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", backend.ContentTypeJSON)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, transportError(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("chat request rejected", "status", resp.Status)
		return 0, statusError(resp.StatusCode)
	}
	// 204 and 205 never carry a body to stream
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent {
		return 0, &Error{Kind: KindStreamUnsupported, Status: resp.StatusCode, Message: streamUnsupportedMessage}
	}

	return c.readFrames(ctx, resp.Body, h)
}

// readFrames decodes the body incrementally and dispatches each frame.
// The UTF-8 decoder carries partial characters over to the next read and
// drops a leading byte order mark.
func (c *Client) readFrames(ctx context.Context, body io.Reader, h Handler) (int, error) {
	decoded := transform.NewReader(body, unicode.UTF8BOM.NewDecoder())
	buf := make([]byte, readBufferSize)
	var lines lineBuffer
	chunks := 0

	for {
		n, readErr := decoded.Read(buf)
		if n > 0 {
			for _, line := range lines.Append(string(buf[:n])) {
				frame, ok := parseDataLine(line)
				if !ok {
					continue
				}

				if frame.SessionID != "" {
					c.sessions.SaveSessionID(frame.SessionID)
					if h.OnSession != nil {
						h.OnSession(frame.SessionID)
					}
				}

				if frame.Chunk != "" {
					chunks++
					c.chunksReceived.Add(ctx, 1)
					if h.OnChunk != nil {
						h.OnChunk(frame.Chunk)
					}
				}

				if frame.Error != "" {
					return chunks, &Error{Kind: KindServerReported, Message: frame.Error}
				}
			}
		}

		if readErr == io.EOF {
			// An unterminated last line is not a frame
			return chunks, nil
		}
		if readErr != nil {
			return chunks, transportError(fmt.Errorf("failed to read stream: %w", readErr))
		}
	}
}

func errorKind(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "invalid input"
}
