package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/notify"
)

const telegramAPI = "https://api.telegram.org"

// TelegramWriter sends notifications and job lists to a Telegram chat via
// the Bot API.
type TelegramWriter struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

func NewTelegramWriter(token, chatID string) *TelegramWriter {
	return &TelegramWriter{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPI,
		client:  &http.Client{},
	}
}

// Send forwards a notification. TelegramWriter is a notify.Sink.
func (tw *TelegramWriter) Send(ctx context.Context, n notify.Notification) error {
	text := fmt.Sprintf("*%s*: %s", escapeMarkdown(severityTitle(n.Severity)), escapeMarkdown(n.Text))
	for _, chunk := range split(text, 3800) {
		if err := tw.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// WriteJobs publishes jobs as one or more chat messages. TelegramWriter is
// a ResultWriter.
func (tw *TelegramWriter) WriteJobs(jobs []model.Job) error {
	ctx := context.Background()
	if len(jobs) == 0 {
		return tw.send(ctx, escapeMarkdown("No jobs found"))
	}

	entries := make([]string, 0, len(jobs))
	for i, j := range jobs {
		entries = append(entries, formatJob(i+1, j))
	}
	// Telegram rejects messages over 4096 characters.
	header := fmt.Sprintf("*%d job\\(s\\):*\n\n", len(jobs))
	for _, msg := range pack(header, entries, 3800) {
		if err := tw.send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func formatJob(n int, j model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\\. %s*\n", n, escapeMarkdown(j.Title))
	fmt.Fprintf(&b, "Company: %s\n", escapeMarkdown(j.Company))
	if j.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", escapeMarkdown(j.Location))
	}
	if j.Salary != "" {
		fmt.Fprintf(&b, "Salary: %s\n", escapeMarkdown(j.Salary))
	}
	if len(j.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %s\n", escapeMarkdown(strings.Join(j.Requirements, ", ")))
	}
	b.WriteString("\n")
	return b.String()
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
		"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
		">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
		"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
		".", "\\.", "!", "\\!",
	)
	return replacer.Replace(s)
}

func (tw *TelegramWriter) send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", tw.apiBase, tw.token)

	payload := map[string]string{
		"chat_id":    tw.chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tw.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error %d: %v", resp.StatusCode, result["description"])
	}

	return nil
}

func severityTitle(s notify.Severity) string {
	switch s {
	case notify.Success:
		return "Success"
	case notify.Warning:
		return "Warning"
	case notify.Error:
		return "Error"
	}
	return "Info"
}

// pack joins header and entries into messages of at most limit bytes,
// starting a new message rather than splitting an entry. Entries longer
// than limit are cut with split.
func pack(header string, entries []string, limit int) []string {
	var msgs []string
	var current strings.Builder
	current.WriteString(header)
	for _, e := range entries {
		if current.Len() > 0 && current.Len()+len(e) > limit {
			msgs = append(msgs, current.String())
			current.Reset()
		}
		if len(e) > limit {
			parts := split(e, limit)
			msgs = append(msgs, parts[:len(parts)-1]...)
			e = parts[len(parts)-1]
		}
		current.WriteString(e)
	}
	if current.Len() > 0 {
		msgs = append(msgs, current.String())
	}
	return msgs
}

// split cuts text into pieces of at most limit bytes, preferring line
// breaks and never splitting a UTF-8 sequence or a backslash escape.
func split(text string, limit int) []string {
	var out []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n') + 1
		if cut == 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut > 0 && text[cut-1] == '\\' {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	return append(out, text)
}
