package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	chatModel "github.com/everkind/backend/internal/model/chat"
)

// responder is the part of the chat service the demo drives.
type responder interface {
	Configured() bool
	Respond(ctx context.Context, req chatModel.ChatRequest) chatModel.ChatResponse
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	therapistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	metaStyle      = lipgloss.NewStyle().Faint(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	rule           = strings.Repeat("=", 40)
)

func runScript(ctx context.Context, out io.Writer, svc responder) error {
	fmt.Fprintln(out, titleStyle.Render("EverKind Therapeutic API Demo"))
	fmt.Fprintln(out, rule)

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("1. Basic chat without mood"))
	first := chatModel.ChatRequest{Message: "Hello, I'm feeling a bit overwhelmed today."}
	firstResp := svc.Respond(ctx, first)
	printExchange(out, first, firstResp)
	fmt.Fprintln(out, metaStyle.Render("Conversation ID: "+firstResp.ConversationID))

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("2. Chat with history and mood"))
	anxious := "anxious"
	second := chatModel.ChatRequest{
		Message: "I've been having trouble sleeping and feel anxious about work.",
		ConversationHistory: []chatModel.Message{
			{Role: chatModel.RoleUser, Content: first.Message},
			{Role: chatModel.RoleAssistant, Content: firstResp.Response},
		},
		UserMood: &anxious,
	}
	printExchange(out, second, svc.Respond(ctx, second))

	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render("3. Different mood responses"))
	for _, m := range []string{"stressed", "depressed", "overwhelmed", "confused"} {
		mood := m
		req := chatModel.ChatRequest{Message: fmt.Sprintf("I'm feeling %s right now.", mood), UserMood: &mood}
		fmt.Fprintln(out)
		printExchange(out, req, svc.Respond(ctx, req))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, titleStyle.Render("Demo completed"))
	noteDegraded(out, svc)
	return ctx.Err()
}

func runSingle(ctx context.Context, out io.Writer, svc responder, message, mood string) error {
	req := chatModel.ChatRequest{Message: message}
	if mood != "" {
		req.UserMood = &mood
	}
	resp := svc.Respond(ctx, req)
	printExchange(out, req, resp)
	fmt.Fprintln(out, metaStyle.Render("Conversation ID: "+resp.ConversationID))
	noteDegraded(out, svc)
	return ctx.Err()
}

func printExchange(out io.Writer, req chatModel.ChatRequest, resp chatModel.ChatResponse) {
	fmt.Fprintln(out, userStyle.Render("User: ")+req.Message)
	if req.UserMood != nil {
		fmt.Fprintln(out, metaStyle.Render("Mood: "+*req.UserMood))
	}
	fmt.Fprintln(out, therapistStyle.Render("Therapist: ")+resp.Response)
}

func noteDegraded(out io.Writer, svc responder) {
	if svc.Configured() {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, warnStyle.Render("Note: no completion provider configured, replies are fallbacks."))
	fmt.Fprintln(out, warnStyle.Render("Set OPENAI_API_KEY (or AI_PROVIDER=ark with ARK_API_KEY and ARK_MODEL) for full functionality."))
}
