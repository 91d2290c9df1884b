package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const slackFlushPeriod = 500 * time.Millisecond

// SlackWriter forwards log lines to a slack webhook in small batches. Implements io.Writer
type SlackWriter struct {
	webhookURL string
	channel    string
	username   string
	httpClient *http.Client
	buffer     chan []byte
	stop       chan struct{}
	done       chan struct{}
}

// NewSlackWriter constructs a slack writer and starts its posting goroutine
func NewSlackWriter(webhookURL string, channel string, username string) *SlackWriter {
	toRet := &SlackWriter{
		webhookURL: webhookURL,
		channel:    channel,
		username:   username,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		buffer:     make(chan []byte, 200),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	go toRet.poster()
	return toRet
}

// Write queues the message. Messages are dropped when the queue is full
func (w *SlackWriter) Write(p []byte) (n int, err error) {
	message := make([]byte, len(p))
	copy(message, p)

	select {
	case w.buffer <- message:
	default:
	}
	return len(p), nil
}

// Stop flushes the pending messages and ends the posting goroutine
func (w *SlackWriter) Stop(blocking bool) error {
	close(w.stop)
	if blocking {
		<-w.done
	}
	return nil
}

func (w *SlackWriter) poster() {
	defer close(w.done)
	ticker := time.NewTicker(slackFlushPeriod)
	defer ticker.Stop()

	pending := make([][]byte, 0, 20)
	flush := func() {
		for _, message := range pending {
			w.postMessage(message, nil)
		}
		pending = pending[:0]
	}

	for {
		select {
		case message := <-w.buffer:
			pending = append(pending, message)
		case <-ticker.C:
			flush()
		case <-w.stop:
			for len(w.buffer) > 0 {
				pending = append(pending, <-w.buffer)
			}
			flush()
			return
		}
	}
}

func (w *SlackWriter) postMessage(msg []byte, attachments []SlackMessageAttachment) error {
	message := messagePayload{
		Channel:     w.channel,
		Username:    w.username,
		Text:        string(msg),
		IconEmoji:   ":bar_chart:",
		Attachments: attachments,
	}

	serialized, err := json.Marshal(&message)
	if err != nil {
		return fmt.Errorf("error serializing message: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.webhookURL, bytes.NewBuffer(serialized))
	if err != nil {
		return fmt.Errorf("error building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error posting log message to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("error posting log message to slack %s, with message %s", resp.Status, body)
}

// PostNow posts a message directly, bypassing the batch
func (w *SlackWriter) PostNow(msg []byte, attachments []SlackMessageAttachment) error {
	return w.postMessage(msg, attachments)
}

type messagePayload struct {
	Channel     string                   `json:"channel"`
	Username    string                   `json:"username"`
	Text        string                   `json:"text"`
	IconEmoji   string                   `json:"icon_emoji"`
	Attachments []SlackMessageAttachment `json:"attachments,omitempty"`
}

// SlackMessageAttachmentFields attachment field struct
type SlackMessageAttachmentFields struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackMessageAttachment attach message struct
type SlackMessageAttachment struct {
	Fallback string                         `json:"fallback"`
	Text     string                         `json:"text,omitempty"`
	Pretext  string                         `json:"pretext,omitempty"`
	Color    string                         `json:"color"` // 'good', 'warning', 'danger', or any hex color code
	Fields   []SlackMessageAttachmentFields `json:"fields"`
}

var _ io.Writer = (*SlackWriter)(nil)
