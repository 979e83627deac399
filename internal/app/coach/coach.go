// Package coach turns a user's aggregate statistics and mood check-in
// into a short natural-language message via an OpenAI-compatible chat
// endpoint. The upstream call runs under a bounded timeout; on timeout
// or any error the caller gets a fixed fallback string for the message
// type. Callers never see an error from this package.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/moodlift/moodlift/internal/domain"
	"github.com/moodlift/moodlift/internal/infra/metrics"
)

// MessageType selects the coaching tone and its fallback string.
type MessageType string

const (
	MsgDailySummary   MessageType = "daily_summary"
	MsgEncouragement  MessageType = "encouragement"
	MsgMoodReflection MessageType = "mood_reflection"
	MsgStreakCheer    MessageType = "streak_cheer"
)

// fallbacks are the deterministic substitutes when generation times out
// or fails. One per message type.
var fallbacks = map[MessageType]string{
	MsgDailySummary:   "Nice work today. Showing up is what builds the habit.",
	MsgEncouragement:  "Every session counts. See you tomorrow!",
	MsgMoodReflection: "Thanks for checking in. Noticing how you feel is a skill in itself.",
	MsgStreakCheer:    "Your streak is growing — keep the momentum going!",
}

// FallbackFor returns the canned message for a type. Unknown types get
// the encouragement fallback.
func FallbackFor(mt MessageType) string {
	if msg, ok := fallbacks[mt]; ok {
		return msg
	}
	return fallbacks[MsgEncouragement]
}

// Context is the structured input handed to the text generator: the
// user's latest mood, its reasons, and the prior aggregate snapshot.
type Context struct {
	Emotion  string          `json:"emotion,omitempty"`
	Reasons  []string        `json:"reasons,omitempty"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// Service calls an OpenAI-compatible /v1/chat/completions endpoint.
// A zero endpoint disables generation entirely (fallbacks only).
type Service struct {
	endpoint string
	model    string
	timeout  time.Duration
	client   *http.Client
}

// NewService creates a coach client. timeout bounds each generation call.
func NewService(endpoint, model string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Message generates a coaching message for the given context and type.
// Timeouts, transport errors, and malformed responses all degrade to the
// type's fallback string — never an error.
func (s *Service) Message(ctx context.Context, mc Context, mt MessageType) string {
	if s.endpoint == "" {
		return FallbackFor(mt)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, err := s.complete(ctx, buildPrompt(mc, mt))
	if err != nil {
		log.Printf("[coach] generation failed (%s): %v (using fallback)", mt, err)
		metrics.CoachFallbacks.WithLabelValues(string(mt)).Inc()
		return FallbackFor(mt)
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		metrics.CoachFallbacks.WithLabelValues(string(mt)).Inc()
		return FallbackFor(mt)
	}
	return msg
}

// chatRequest/chatResponse mirror the OpenAI chat completions wire shape.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 120,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

const systemPrompt = "You are a warm, concise mood-training coach. " +
	"Reply with one or two encouraging sentences. No lists, no emoji."

// buildPrompt renders the structured context as a compact prompt.
func buildPrompt(mc Context, mt MessageType) string {
	var b strings.Builder

	switch mt {
	case MsgDailySummary:
		b.WriteString("Summarize the user's training day.\n")
	case MsgMoodReflection:
		b.WriteString("Reflect briefly on the user's mood check-in.\n")
	case MsgStreakCheer:
		b.WriteString("Celebrate the user's training streak.\n")
	default:
		b.WriteString("Encourage the user to keep training.\n")
	}

	if mc.Emotion != "" {
		fmt.Fprintf(&b, "Mood: %s.\n", mc.Emotion)
	}
	if len(mc.Reasons) > 0 {
		fmt.Fprintf(&b, "Reasons: %s.\n", strings.Join(mc.Reasons, ", "))
	}

	snap := mc.Snapshot
	fmt.Fprintf(&b, "Sessions completed: %d. Current streak: %d days (best %d).\n",
		snap.TotalActivities, snap.CurrentStreak, snap.LongestStreak)
	if snap.MeanReactionMS > 0 {
		fmt.Fprintf(&b, "Mean reaction time: %d ms.\n", snap.MeanReactionMS)
	}
	if len(snap.EmotionCounts) > 0 {
		emotions := make([]string, 0, len(snap.EmotionCounts))
		for emotion, count := range snap.EmotionCounts {
			emotions = append(emotions, fmt.Sprintf("%s x%d", emotion, count))
		}
		sort.Strings(emotions)
		fmt.Fprintf(&b, "Mood history: %s.\n", strings.Join(emotions, ", "))
	}

	return b.String()
}
