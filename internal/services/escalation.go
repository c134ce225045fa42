package services

import (
	"strings"

	"github.com/driffle/genie-backend/internal/types"
)

// ToneResult is the classification the generation capability returns for a
// window of customer messages. NeutralTone is the degraded fallback when the
// model output cannot be parsed.
type ToneResult struct {
	Tone           string  `json:"tone"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentimentScore"`
}

func NeutralTone() ToneResult {
	return ToneResult{Tone: "neutral", Sentiment: "neutral", SentimentScore: 0}
}

// EscalationWindow is how many of the most recent messages are considered per
// decision. Escalation is a moving-window call, not a sticky one: it is
// re-evaluated on every user message.
const EscalationWindow = 20

const maxUserMessagesBeforeEscalation = 5

var humanRequestPhrases = []string{"human", "agent", "representative", "speak to someone"}

// ShouldEscalate reports whether conversational control should move to a human
// agent, given the supplied message window and the tone classification for it.
// Any single trigger is enough:
//   - sentiment score below -0.5
//   - frustrated or angry tone
//   - more than five user messages in the window
//   - the latest user message explicitly asking for a human
func ShouldEscalate(window []*types.ChatMessage, tone ToneResult) bool {
	if tone.SentimentScore < -0.5 {
		return true
	}
	if tone.Tone == "frustrated" || tone.Tone == "angry" {
		return true
	}

	var userMessages []*types.ChatMessage
	for _, msg := range window {
		if msg.SenderType == types.SenderUser {
			userMessages = append(userMessages, msg)
		}
	}
	if len(userMessages) > maxUserMessagesBeforeEscalation {
		return true
	}

	if len(userMessages) > 0 {
		last := strings.ToLower(userMessages[len(userMessages)-1].Content)
		for _, phrase := range humanRequestPhrases {
			if strings.Contains(last, phrase) {
				return true
			}
		}
	}

	return false
}
