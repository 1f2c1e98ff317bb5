package main

import (
	"fmt"
	"os"
	"strings"

	"alterego/internal/chat"
	"alterego/internal/config"
	"alterego/internal/notify"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	promptMessage string
	forceInit     bool
)

// promptCmd prints the responder system prompt
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the persona system prompt",
	Long: `Prints the system prompt sent to the responder. With --message, prompt
rules that match the message are applied first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPersona(cfg)
		if err != nil {
			return err
		}
		prompt := chat.RulesFromConfig(cfg.Rules).Apply(p.SystemPrompt(), promptMessage)
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return nil
	},
}

// notifyCmd pushes a message through the configured sink
var notifyCmd = &cobra.Command{
	Use:   "notify [message]",
	Short: "Send a push notification through the configured sink",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := notify.FromConfig(cfg.Notify)
		if err := n.Push(cmd.Context(), strings.Join(args, " ")); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sent")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the alterego config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		// Defaults only: credentials stay in the environment
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		shown.Responder.APIKey = mask(shown.Responder.APIKey)
		shown.Evaluator.APIKey = mask(shown.Evaluator.APIKey)
		shown.Notify.Pushover.Token = mask(shown.Notify.Pushover.Token)
		shown.Notify.Pushover.User = mask(shown.Notify.Pushover.User)

		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
