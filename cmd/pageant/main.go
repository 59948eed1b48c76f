// Command pageant is an interactive chat shell for the command agent:
// type workspace instructions, confirm destructive plans, see the results.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/dspiers/pageant"
	"github.com/dspiers/pageant/agent"
	"github.com/dspiers/pageant/workspace"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		heuristicsOnly bool
		noConfirm      bool
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "pageant",
		Short: "Natural-language command agent for your workspace",
		Long: "pageant turns free-text instructions like\n" +
			"  \"add a to-do to review code in Tasks page\"\n" +
			"into workspace API calls, asking for confirmation before anything destructive.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(configPath, heuristicsOnly, noConfirm, verbose)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "pageant.yaml", "path to the YAML config file")
	cmd.Flags().BoolVar(&heuristicsOnly, "heuristics-only", false, "never call the LLM, parse with heuristics alone")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "execute destructive actions without confirmation")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func runChat(configPath string, heuristicsOnly, noConfirm, verbose bool) error {
	// .env is optional; real config comes from the YAML file and env.
	_ = godotenv.Load()

	cfg, err := pageant.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Workspace.Token == "" {
		return fmt.Errorf("no workspace token: set workspace.token in %s or PAGEANT_WORKSPACE_TOKEN", configPath)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	clientOpts := []workspace.ClientOption{workspace.WithClientLogger(logger)}
	if cfg.Workspace.BaseURL != "" {
		clientOpts = append(clientOpts, workspace.WithBaseURL(cfg.Workspace.BaseURL))
	}
	if cfg.Workspace.Version != "" {
		clientOpts = append(clientOpts, workspace.WithVersion(cfg.Workspace.Version))
	}
	client := workspace.NewHTTPClient(cfg.Workspace.Token, clientOpts...)

	agentOpts := []agent.Option{
		agent.WithConfig(cfg.Agent),
		agent.WithLogger(logger),
	}
	if noConfirm {
		agentOpts = append(agentOpts, agent.WithConfirmGate(false))
	}

	if !heuristicsOnly && !cfg.Agent.HeuristicsOnly {
		model, err := buildModel(cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr,
				"%sWARNING: no LLM available (%v); ambiguous commands will be rejected.%s\n",
				colorYellow, err, colorReset)
		} else {
			agentOpts = append(agentOpts, agent.WithModel(model))
		}
	}

	a := agent.New(client, agentOpts...)
	return chatLoop(a)
}

func buildModel(cfg pageant.ModelConfig) (llms.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		var opts []openai.Option
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		if cfg.Name != "" {
			opts = append(opts, openai.WithModel(cfg.Name))
		}
		return openai.New(opts...)
	case "anthropic":
		var opts []anthropic.Option
		if cfg.APIKey != "" {
			opts = append(opts, anthropic.WithToken(cfg.APIKey))
		}
		if cfg.Name != "" {
			opts = append(opts, anthropic.WithModel(cfg.Name))
		}
		return anthropic.New(opts...)
	}
	return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
}

func chatLoop(a *agent.Agent) error {
	rl, err := readline.New(colorCyan + "you> " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		rl.Close()
	}()

	fmt.Println("Type a command, or 'quit' to exit.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "q" {
			return nil
		}

		resp, err := a.Chat(ctx, line)
		if err != nil {
			return err
		}
		fmt.Printf("%spageant>%s %s\n", colorGreen, colorReset, resp.Content)
	}
}
