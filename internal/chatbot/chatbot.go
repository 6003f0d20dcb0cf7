package chatbot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"PortfolioChat/internal/chatclient"
	"PortfolioChat/internal/session"
)

// Client is the part of the streaming client the terminal widget drives
type Client interface {
	Send(ctx context.Context, message string, h chatclient.Handler)
	FetchHistory(ctx context.Context) []session.Message
	GetSessionID() string
	ClearSession()
}

// Suggestions are offered on an empty conversation and sent with /1, /2, /3
var Suggestions = []string{
	"What is your experience?",
	"What skills do you have?",
	"Tell me about your achievements",
}

// interruptible derives the context for one request. Cancelling it aborts
// that request only.
type interruptible func(ctx context.Context) (context.Context, context.CancelFunc)

func onInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// ChatBot is the terminal chat widget. It owns the transcript; the client
// only feeds it chunks.
type ChatBot struct {
	client   Client
	in       io.Reader
	out      io.Writer
	logger   *slog.Logger
	messages []session.Message

	historyLoaded bool
	turnContext   interruptible
}

// NewChatBot creates a widget reading input from in and rendering to out
func NewChatBot(client Client, in io.Reader, out io.Writer, logger *slog.Logger) *ChatBot {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatBot{
		client: client,
		in:     in,
		out:    out,
		logger: logger,

		turnContext: onInterrupt,
	}
}

// Messages returns a copy of the transcript
func (cb *ChatBot) Messages() []session.Message {
	messages := make([]session.Message, len(cb.messages))
	copy(messages, cb.messages)
	return messages
}

// Open loads the stored conversation the first time it is called
func (cb *ChatBot) Open(ctx context.Context) {
	if cb.historyLoaded {
		return
	}
	cb.historyLoaded = true

	turnCtx, stop := cb.turnContext(ctx)
	history := cb.client.FetchHistory(turnCtx)
	stop()
	if len(history) == 0 {
		return
	}
	cb.messages = append(cb.messages[:0], history...)
	cb.logger.Info("restored conversation", "session_id", cb.client.GetSessionID(), "message_count", len(history))
	cb.printTranscript()
}

// SendMessage sends one user turn and renders the reply as it streams.
// Blank input is ignored. Ctrl-C while the reply streams aborts that reply
// and leaves the conversation open.
func (cb *ChatBot) SendMessage(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	cb.messages = append(cb.messages,
		session.Message{Role: session.RoleUser, Content: input, Timestamp: time.Now()},
		session.Message{Role: session.RoleAssistant, Timestamp: time.Now()},
	)
	reply := len(cb.messages) - 1

	fmt.Fprint(cb.out, "Bot: ")

	turnCtx, stop := cb.turnContext(ctx)
	defer stop()

	var sendErr error
	cb.client.Send(turnCtx, input, chatclient.Handler{
		OnChunk: func(chunk string) {
			cb.messages[reply].Content += chunk
			fmt.Fprint(cb.out, chunk)
		},
		OnComplete: func() {
			fmt.Fprint(cb.out, "\n\n")
		},
		OnError: func(err error) {
			sendErr = err
		},
	})

	if sendErr != nil {
		// Keep whatever partial reply arrived, drop an empty placeholder
		if cb.messages[reply].Content == "" {
			cb.messages = cb.messages[:reply]
		}
		if turnCtx.Err() != nil && ctx.Err() == nil {
			fmt.Fprint(cb.out, "\nInterrupted\n\n")
		} else {
			fmt.Fprintf(cb.out, "\nError: %v\n\n", sendErr)
		}
		return sendErr
	}
	return nil
}

// handleCommand handles special commands
func (cb *ChatBot) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/new-session":
		cb.client.ClearSession()
		cb.messages = nil
		fmt.Fprintln(cb.out, "Started a new conversation")
		return false, nil

	case "/history":
		turnCtx, stop := cb.turnContext(ctx)
		history := cb.client.FetchHistory(turnCtx)
		stop()
		if len(history) == 0 {
			fmt.Fprintln(cb.out, "No stored history")
			return false, nil
		}
		cb.messages = append(cb.messages[:0], history...)
		cb.printTranscript()
		return false, nil

	case "/session":
		id := cb.client.GetSessionID()
		if id == "" {
			id = "(none yet)"
		}
		fmt.Fprintln(cb.out, "Session:", id)
		return false, nil

	case "/help":
		fmt.Fprintln(cb.out, "Available commands:")
		fmt.Fprintln(cb.out, "  /quit, /exit        - Exit the chat")
		fmt.Fprintln(cb.out, "  /new-session        - Forget the session and start over")
		fmt.Fprintln(cb.out, "  /history            - Reload the stored conversation")
		fmt.Fprintln(cb.out, "  /session            - Show the current session id")
		fmt.Fprintln(cb.out, "  /1, /2, /3          - Ask a suggested question")
		fmt.Fprintln(cb.out, "  /help               - Show this help message")
		return false, nil

	default:
		if n, err := strconv.Atoi(strings.TrimPrefix(parts[0], "/")); err == nil && n >= 1 && n <= len(Suggestions) {
			fmt.Fprintf(cb.out, "You: %s\n", Suggestions[n-1])
			if err := cb.SendMessage(ctx, Suggestions[n-1]); err != nil {
				cb.logger.Error("failed to send message", "error", err)
			}
			return false, nil
		}
		return false, fmt.Errorf("unknown command: %s", parts[0])
	}
}

func (cb *ChatBot) printSuggestions() {
	fmt.Fprintln(cb.out, "Ask me about experience, skills, or achievements. Try:")
	for i, s := range Suggestions {
		fmt.Fprintf(cb.out, "  /%d  %s\n", i+1, s)
	}
	fmt.Fprintln(cb.out)
}

func (cb *ChatBot) printTranscript() {
	for _, msg := range cb.messages {
		speaker := "Bot"
		if msg.Role == session.RoleUser {
			speaker = "You"
		}
		if msg.HasTimestamp() {
			fmt.Fprintf(cb.out, "[%s] %s: %s\n", msg.Timestamp.Format("Jan 2 15:04"), speaker, msg.Content)
		} else {
			fmt.Fprintf(cb.out, "%s: %s\n", speaker, msg.Content)
		}
	}
	fmt.Fprintln(cb.out)
}

// Run starts the chat loop and returns when input ends or the user quits
func (cb *ChatBot) Run(ctx context.Context) error {
	fmt.Fprintln(cb.out, "=== Ask Me Anything ===")
	fmt.Fprintln(cb.out, "About my professional experience")
	fmt.Fprintln(cb.out, "Type /help for commands, /quit to exit")
	fmt.Fprintln(cb.out)

	cb.Open(ctx)
	if len(cb.messages) == 0 {
		cb.printSuggestions()
	}

	scanner := bufio.NewScanner(cb.in)
	for {
		fmt.Fprint(cb.out, "You: ")
		if !scanner.Scan() || ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := cb.handleCommand(ctx, input)
			if err != nil {
				fmt.Fprintf(cb.out, "Error: %v\n", err)
				cb.logger.Warn("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		if err := cb.SendMessage(ctx, input); err != nil {
			cb.logger.Error("failed to send message", "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(cb.out, "Goodbye!")
	return nil
}
