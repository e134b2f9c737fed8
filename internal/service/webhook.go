package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/config"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

// FallbackAnswer is substituted when the webhook replies 2xx but carries
// neither a response nor a message field.
const FallbackAnswer = "Desculpa, não consegui processar a tua pergunta."

// TutorWebhook calls the external n8n workflow that performs the actual
// AI inference. One endpoint per grade; the 7th-grade endpoint is the
// fallback for grades without a mapping.
type TutorWebhook struct {
	endpoints  map[domain.Grade]string
	httpClient *http.Client
}

func NewTutorWebhook(endpoints map[domain.Grade]string) *TutorWebhook {
	return &TutorWebhook{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: config.WebhookTimeout},
	}
}

type tutorRequest struct {
	Message string `json:"message"`
	Grade   string `json:"grade"`
	UserID  string `json:"userId"`
}

type tutorResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// ResolveEndpoint maps a grade to its webhook URL, falling back to the
// 7th-grade URL for unknown grades.
func (s *TutorWebhook) ResolveEndpoint(grade domain.Grade) (string, error) {
	if url, ok := s.endpoints[grade]; ok && url != "" {
		return url, nil
	}
	if url, ok := s.endpoints[domain.DefaultGrade]; ok && url != "" {
		return url, nil
	}
	return "", domain.ErrWebhookNotConfigured
}

// Ask sends one question and returns the assistant's answer. Transport
// errors and non-2xx statuses are failures; an empty payload yields the
// canned fallback answer.
func (s *TutorWebhook) Ask(ctx context.Context, message string, grade domain.Grade, userID string) (string, error) {
	endpoint, err := s.ResolveEndpoint(grade)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(tutorRequest{
		Message: message,
		Grade:   grade.String(),
		UserID:  userID,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tutor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tutor webhook status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var tr tutorResponse
	// Some workflows answer with plain text instead of JSON; treat that
	// body as the message itself.
	if err := json.Unmarshal(body, &tr); err != nil {
		tr.Message = strings.TrimSpace(string(body))
	}

	answer := tr.Response
	if answer == "" {
		answer = tr.Message
	}
	if answer == "" {
		answer = FallbackAnswer
	}

	return flattenHTML(answer), nil
}

var htmlTagRe = regexp.MustCompile(`(?i)<\s*(p|br|div|span|html|body|b|i|strong|em|ul|ol|li|h[1-6]|table|tr|td)[\s>/]`)

// flattenHTML extracts plain text when the workflow returns rendered
// HTML, which Telegram would otherwise display verbatim. Plain answers
// (including ones with < and > as math symbols) pass through untouched.
func flattenHTML(s string) string {
	if !htmlTagRe.MatchString(s) {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return s
	}
	return text
}
