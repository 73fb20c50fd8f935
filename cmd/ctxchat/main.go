// Package main provides the ctxchat CLI entry point. ctxchat is a
// terminal demo of an assistant that asks before using categories of
// user context.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctxchat/cmd/ctxchat/config"
	"ctxchat/internal/classify"
	"ctxchat/internal/conversation"
	"ctxchat/internal/logging"
	"ctxchat/internal/scope"
)

var version = "0.2.0"

var (
	// Global flags
	verbose   bool
	themeFlag string
	rulesPath string
	delayFlag time.Duration

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ctxchat",
	Short: "ctxchat - a context-permission chat demo",
	Long: `ctxchat renders a chat interface demonstrating how an assistant
requests, and is granted or denied, access to categories of user context
(context scopes such as preferences.shopping or preferences.news) before
answering.

Responses come from a deterministic keyword table; nothing talks to a
model and no permission state survives the process.

Run without arguments to start the interactive chat.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Classify one input and print the canned response",
	Long: `Runs a single input through the classifier without the chat
interface and prints the response together with the context scopes it
used or would request. Useful for inspecting a rules table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var scopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "List the known context scopes and configured policies",
	RunE:  runScopes,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ctxchat version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ctxchat %s\n", version)
	},
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle on rootCmd.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The interactive chat owns the terminal and logs to a file
		// instead.
		if cmd.Name() == rootCmd.Name() {
			return nil
		}
		var err error
		logger, err = logging.New(verbose)
		return err
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "color theme (light or dark)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML rules file overriding the built-in response table")
	rootCmd.PersistentFlags().DurationVar(&delayFlag, "delay", 0, "simulated assistant latency (default from config, 1.5s)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(scopesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges the config file with command line flags.
func loadConfig() config.Config {
	cfg, _ := config.Load()
	if themeFlag == "light" || themeFlag == "dark" {
		cfg.Theme = themeFlag
	}
	if delayFlag > 0 {
		cfg.ResponseDelayMS = int(delayFlag / time.Millisecond)
	}
	if rulesPath != "" {
		cfg.RulesPath = rulesPath
	}
	return cfg
}

func toScopes(names []string) []scope.Scope {
	out := make([]scope.Scope, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, scope.Scope(n))
		}
	}
	return out
}

// buildClassifier assembles the policy and classifier for a session.
func buildClassifier(cfg config.Config, log *zap.Logger) (*classify.Classifier, *scope.Policy, *classify.Watcher, error) {
	policy := scope.NewPolicy(nil, toScopes(cfg.AutoApprove), toScopes(cfg.AutoDeny))

	rules := classify.DefaultRules()
	if cfg.RulesPath != "" {
		loaded, err := classify.LoadRules(cfg.RulesPath)
		if err != nil {
			return nil, nil, nil, err
		}
		rules = loaded
	}
	classifier := classify.New(rules, policy)

	var watcher *classify.Watcher
	if cfg.RulesPath != "" {
		w, err := classify.Watch(cfg.RulesPath, classifier, logging.For(log, logging.CategoryClassify))
		if err != nil {
			// Hot reload is a convenience; run without it.
			logging.For(log, logging.CategoryClassify).Warn("rules watcher unavailable", zap.Error(err))
		} else {
			watcher = w
		}
	}
	return classifier, policy, watcher, nil
}

// runChat starts the interactive TUI.
func runChat() error {
	cfg := loadConfig()

	log := sessionLogger()
	defer func() { _ = log.Sync() }()

	classifier, policy, watcher, err := buildClassifier(cfg, log)
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Close()
	}

	controller := conversation.NewController(
		conversation.NewStore(),
		classifier,
		policy,
		conversation.WithDelay(cfg.Delay()),
		conversation.WithLogger(logging.For(log, logging.CategoryChat)),
	)

	return runInteractiveChat(cfg, controller, log)
}

// sessionLogger logs the TUI session to a file under the config dir;
// stderr belongs to bubbletea. Falls back to a nop logger.
func sessionLogger() *zap.Logger {
	dir, err := config.ConfigDir()
	if err != nil {
		return zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zap.NewNop()
	}
	log, err := logging.NewFile(filepath.Join(dir, "session.log"), verbose)
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	classifier, _, watcher, err := buildClassifier(cfg, logger)
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Close()
	}

	input := strings.Join(args, " ")
	resp := classifier.Classify(input)

	fmt.Printf("response: %s\n\n%s\n", resp.ID, strings.TrimSpace(resp.Body))
	printScopeList("allowed", resp.Access.Allowed)
	printScopeList("requested", resp.Access.Requested)
	printScopeList("denied", resp.Access.Denied)
	return nil
}

func printScopeList(label string, scopes []scope.Scope) {
	if len(scopes) == 0 {
		return
	}
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	fmt.Printf("%s: %s\n", label, strings.Join(parts, ", "))
}

func runScopes(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	autoApprove := toScopes(cfg.AutoApprove)
	autoDeny := toScopes(cfg.AutoDeny)

	fmt.Println("known context scopes:")
	for _, s := range scope.All() {
		note := ""
		switch {
		case slices.Contains(autoApprove, s):
			note = "  (auto-approve)"
		case slices.Contains(autoDeny, s):
			note = "  (auto-deny)"
		}
		fmt.Printf("  %s%s\n", s, note)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
