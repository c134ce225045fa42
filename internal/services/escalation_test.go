package services

import (
	"fmt"
	"testing"

	"github.com/driffle/genie-backend/internal/types"
)

func userMsg(content string) *types.ChatMessage {
	return &types.ChatMessage{SenderType: types.SenderUser, Content: content}
}

func botMsg(content string) *types.ChatMessage {
	return &types.ChatMessage{SenderType: types.SenderAIAgent, Content: content}
}

func TestShouldEscalateTriggers(t *testing.T) {
	tests := []struct {
		name   string
		window []*types.ChatMessage
		tone   ToneResult
		want   bool
	}{
		{
			name:   "neutral short conversation stays with bot",
			window: []*types.ChatMessage{userMsg("where is my key?"), botMsg("let me check")},
			tone:   NeutralTone(),
			want:   false,
		},
		{
			name:   "sentiment below threshold escalates",
			window: []*types.ChatMessage{userMsg("this is unacceptable")},
			tone:   ToneResult{Tone: "neutral", Sentiment: "negative", SentimentScore: -0.6},
			want:   true,
		},
		{
			name:   "sentiment exactly at threshold does not escalate",
			window: []*types.ChatMessage{userMsg("hmm")},
			tone:   ToneResult{Tone: "neutral", Sentiment: "negative", SentimentScore: -0.5},
			want:   false,
		},
		{
			name:   "frustrated tone escalates",
			window: []*types.ChatMessage{userMsg("I bought this game 3 days ago and it still doesn't work")},
			tone:   ToneResult{Tone: "frustrated", Sentiment: "negative", SentimentScore: -0.3},
			want:   true,
		},
		{
			name:   "angry tone escalates",
			window: []*types.ChatMessage{userMsg("refund. now.")},
			tone:   ToneResult{Tone: "angry", Sentiment: "negative", SentimentScore: -0.4},
			want:   true,
		},
		{
			name: "explicit human request escalates",
			window: []*types.ChatMessage{
				userMsg("hello"),
				botMsg("hi, how can I help?"),
				userMsg("I want to speak to someone real"),
			},
			tone: NeutralTone(),
			want: true,
		},
		{
			name: "human request in earlier message does not count",
			window: []*types.ChatMessage{
				userMsg("can I talk to a human?"),
				botMsg("I can help with most issues"),
				userMsg("ok fine, my code is invalid"),
			},
			tone: NeutralTone(),
			want: false,
		},
		{
			name:   "REPRESENTATIVE matches case-insensitively",
			window: []*types.ChatMessage{userMsg("GET ME A REPRESENTATIVE")},
			tone:   NeutralTone(),
			want:   true,
		},
		{
			name:   "empty window with neutral tone",
			window: nil,
			tone:   NeutralTone(),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldEscalate(tt.window, tt.tone); got != tt.want {
				t.Fatalf("ShouldEscalate: want=%v got=%v", tt.want, got)
			}
		})
	}
}

func TestShouldEscalateOnUserMessageVolume(t *testing.T) {
	var window []*types.ChatMessage
	for i := 0; i < 5; i++ {
		window = append(window, userMsg(fmt.Sprintf("benign message %d", i)))
		window = append(window, botMsg("ack"))
	}
	if ShouldEscalate(window, NeutralTone()) {
		t.Fatalf("5 user messages should not escalate yet")
	}

	window = append(window, userMsg("one more benign message"))
	if !ShouldEscalate(window, NeutralTone()) {
		t.Fatalf("6 user messages in the window should escalate")
	}
}

func TestShouldEscalateIgnoresBotVolume(t *testing.T) {
	var window []*types.ChatMessage
	for i := 0; i < 10; i++ {
		window = append(window, botMsg("still working on it"))
	}
	window = append(window, userMsg("thanks"))
	if ShouldEscalate(window, NeutralTone()) {
		t.Fatalf("bot messages must not count toward the volume trigger")
	}
}
