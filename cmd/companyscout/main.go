package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobseekr/companyscout"
	"github.com/jobseekr/companyscout/config"
	"github.com/jobseekr/companyscout/fetch"
	"github.com/jobseekr/companyscout/httpapi"
	"github.com/jobseekr/companyscout/llm"
	"github.com/jobseekr/companyscout/search"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "companyscout",
		Short:         "AI-powered company research for job seekers",
		Long:          "Companyscout runs concurrent research agents over a company's history, prospects, and culture and merges their findings into one report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")

	rootCmd.AddCommand(newResearchCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newResearchCommand() *cobra.Command {
	var jobTitle, jobDescription, output string

	cmd := &cobra.Command{
		Use:   "research --company NAME",
		Short: "Research a company and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			company, _ := cmd.Flags().GetString("company")

			// A job description ending in .txt or .md is read from disk.
			desc := jobDescription
			if desc != "" && (strings.HasSuffix(desc, ".txt") || strings.HasSuffix(desc, ".md")) {
				data, err := os.ReadFile(desc)
				if err != nil {
					return fmt.Errorf("read job description file: %w", err)
				}
				desc = string(data)
			}

			wf, logger, err := buildWorkflow(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			report, err := wf.Run(cmd.Context(), companyscout.Request{
				CompanyName:    company,
				JobTitle:       jobTitle,
				JobDescription: desc,
			})
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Printf("Report saved to %s\n", output)
				return nil
			}
			fmt.Println(report)
			return nil
		},
	}

	cmd.Flags().String("company", "", "name of the company to research")
	cmd.Flags().StringVar(&jobTitle, "job-title", "", "job title for context-specific research")
	cmd.Flags().StringVar(&jobDescription, "job-description", "", "job description text, or a .txt/.md file path")
	cmd.Flags().StringVar(&output, "output", "", "write the report to a file instead of stdout")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the research API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, logger, err := buildWorkflow(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			return httpapi.NewServer(wf, logger).Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func buildWorkflow(cmd *cobra.Command) (*companyscout.Workflow, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	logger, err := buildLogger(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	model := llm.New(
		llm.WithBaseURL(cfg.Model.BaseURL),
		llm.WithAPIKey(config.ModelAPIKey()),
		llm.WithModel(cfg.Model.Name),
		llm.WithTemperature(cfg.Model.Temperature),
		llm.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Model.TimeoutSecs) * time.Second}),
	)

	searcher, err := buildSearcher(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []companyscout.Option{
		companyscout.WithChatModel(model),
		companyscout.WithSearchProvider(searcher),
		companyscout.WithMaxToolRounds(cfg.Research.MaxToolRounds),
		companyscout.WithLogger(logger),
	}
	if cfg.Research.FetchPages {
		opts = append(opts, companyscout.WithFetchProvider(fetch.NewHTTP()))
	}

	return companyscout.New(opts...), logger, nil
}

func buildSearcher(cfg *config.Config) (companyscout.SearchProvider, error) {
	switch cfg.Search.Provider {
	case "tavily":
		key := config.TavilyAPIKey()
		if key == "" {
			return nil, fmt.Errorf("search provider %q requires TAVILY_API_KEY", cfg.Search.Provider)
		}
		return search.NewTavily(key, cfg.Search.Depth,
			search.TavilyWithMaxResults(cfg.Search.MaxResults)), nil
	case "duckduckgo":
		return search.NewDuckDuckGo(), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
