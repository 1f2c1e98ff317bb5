package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	chattui "alterego/cmd/alterego/chat"
	"alterego/internal/chat"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	showVerdict bool
	rawOutput   bool
)

// askCmd answers a single message
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Answer one message and exit",
	Long: `Runs one turn of the respond, evaluate and revise loop with an empty history.

Example:
  alterego ask "What did you work on before founding your company?"
  alterego ask --show-verdict "Do you hold a patent?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// chatCmd starts the terminal chat
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive terminal chat",
	RunE:  runChat,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	orch, _, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	out, err := orch.Run(ctx, strings.Join(args, " "), nil)
	if err != nil {
		return err
	}
	return printOutcome(cmd.OutOrStdout(), out)
}

func printOutcome(w io.Writer, out *chat.Outcome) error {
	reply := out.Reply
	if !rawOutput {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			if rendered, err := r.Render(reply); err == nil {
				reply = rendered
			}
		}
	}
	fmt.Fprintln(w, strings.TrimRight(reply, "\n"))

	if showVerdict {
		fmt.Fprintf(w, "\nacceptable: %v\nfeedback:   %s\nrevised:    %v\n", out.Verdict.IsAcceptable, out.Verdict.Feedback, out.Revised)
		if len(out.Rules) > 0 {
			fmt.Fprintf(w, "rules:      %s\n", strings.Join(out.Rules, ", "))
		}
		if out.Revised {
			fmt.Fprintf(w, "\n--- rejected reply ---\n%s\n", out.Original)
		}
	}
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	orch, p, err := buildOrchestrator(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return chattui.Run(orch, chattui.Options{Name: p.Name, Timeout: timeout})
}
