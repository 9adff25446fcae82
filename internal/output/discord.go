package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/notify"
)

// DiscordWriter sends notifications and job lists to a Discord channel via
// Webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordWriter(webhookURL string) *DiscordWriter {
	return &DiscordWriter{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

// Send forwards a notification. DiscordWriter is a notify.Sink.
func (dw *DiscordWriter) Send(ctx context.Context, n notify.Notification) error {
	text := fmt.Sprintf("**%s**: %s", severityTitle(n.Severity), n.Text)
	for _, chunk := range split(text, 1900) {
		if err := dw.send(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// WriteJobs publishes jobs to the channel. DiscordWriter is a
// ResultWriter.
func (dw *DiscordWriter) WriteJobs(jobs []model.Job) error {
	ctx := context.Background()
	if len(jobs) == 0 {
		return dw.send(ctx, "No jobs found")
	}

	entries := make([]string, 0, len(jobs))
	for i, j := range jobs {
		entries = append(entries, formatDiscordJob(i+1, j))
	}
	// Discord caps message content at 2000 characters.
	for _, msg := range pack(fmt.Sprintf("**%d job(s):**\n\n", len(jobs)), entries, 1900) {
		if err := dw.send(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func formatDiscordJob(n int, j model.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. %s**\n", n, j.Title)
	fmt.Fprintf(&b, "> Company: %s\n", j.Company)
	if j.Location != "" {
		fmt.Fprintf(&b, "> Location: %s\n", j.Location)
	}
	if j.Salary != "" {
		fmt.Fprintf(&b, "> Salary: %s\n", j.Salary)
	}
	if len(j.Requirements) > 0 {
		fmt.Fprintf(&b, "> Requirements: %s\n", strings.Join(j.Requirements, ", "))
	}
	b.WriteString("\n")
	return b.String()
}

type discordPayload struct {
	Content string `json:"content"`
}

func (dw *DiscordWriter) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(discordPayload{Content: text})
	if err != nil {
		return fmt.Errorf("discord: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dw.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := dw.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("discord: API error %d: %v", resp.StatusCode, result["message"])
	}

	return nil
}
