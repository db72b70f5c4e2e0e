package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

const (
	colorGreen = 65280
	colorRed   = 16711680
)

// SendRunSummary posts a completion embed to the webhook. A missing webhook
// URL silently disables the notification.
func SendRunSummary(webhookURL string, rows int, outputPath string) error {
	if webhookURL == "" {
		return nil
	}
	return send(webhookURL, DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:       "✅ Download finished",
				Description: fmt.Sprintf("Sampled %d rows.\nOutput: %s", rows, outputPath),
				Color:       colorGreen,
			},
		},
	})
}

// SendRunFailure posts a failure embed to the webhook.
func SendRunFailure(webhookURL string, runErr error) error {
	if webhookURL == "" {
		return nil
	}
	return send(webhookURL, DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:       "🚨 Download failed",
				Description: fmt.Sprintf("An error occurred: %s", runErr),
				Color:       colorRed,
			},
		},
	})
}

func send(webhookURL string, message DiscordMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}
	return nil
}
