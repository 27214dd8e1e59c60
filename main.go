package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"auto_blog_email_publisher/config"
	"auto_blog_email_publisher/generator"
	"auto_blog_email_publisher/mailer"
	"auto_blog_email_publisher/poster"
	"auto_blog_email_publisher/runlog"
	"auto_blog_email_publisher/server"
	"auto_blog_email_publisher/topics"
)

const runTimeout = 10 * time.Minute

func main() {
	dryRun := flag.Bool("dry-run", false, "generate and render, but do not send or record anything")
	outPath := flag.String("out", "", "save the rendered HTML fragment to this file")
	topicFlag := flag.String("topic", "", "override topic selection with a fixed topic")
	serve := flag.Bool("serve", false, "start the preview web server instead of running once")
	addr := flag.String("addr", "", "http listen address when --serve (overrides SERVER_ADDR)")
	cronSpec := flag.String("cron", "", "run on this cron schedule instead of once (e.g. \"0 9 * * *\")")
	flag.Parse()

	// .env is a local-development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.ValidateGeneration(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	needDelivery := !*dryRun && !*serve
	if needDelivery {
		if err := cfg.ValidateDelivery(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	p, err := buildPoster(cfg, logger, needDelivery)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serve {
		srv, err := server.New(p, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		logger.Info("starting preview server", "addr", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	opts := poster.Options{DryRun: *dryRun, OutPath: *outPath, Topic: *topicFlag}

	if *cronSpec != "" {
		c := cron.New()
		if _, err := c.AddFunc(*cronSpec, func() { runOnce(p, opts, logger) }); err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("invalid cron spec %q: %w", *cronSpec, err))
			os.Exit(1)
		}
		logger.Info("running on schedule", "cron", *cronSpec)
		c.Run()
		return
	}

	if err := runOnce(p, opts, logger); err != nil {
		os.Exit(1)
	}
}

func runOnce(p *poster.Poster, opts poster.Options, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	res, err := p.Run(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		return err
	}
	if opts.DryRun {
		fmt.Printf("dry run: %q (%s), %d chars of HTML\n", res.Post.Title, res.Topic.Category, len(res.HTML))
	} else {
		fmt.Printf("posted: %q (%s)\n", res.Post.Title, res.Topic.Category)
	}
	return nil
}

func buildPoster(cfg *config.Config, logger *slog.Logger, withDelivery bool) (*poster.Poster, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	selector, err := topics.NewSelector(llm, cfg.StatePath, logger)
	if err != nil {
		return nil, err
	}
	agent, err := generator.NewAgent(llm, logger)
	if err != nil {
		return nil, err
	}

	var sender mailer.Sender
	var journal *runlog.Log
	if withDelivery {
		sender, err = mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}, logger)
		if err != nil {
			return nil, err
		}
		journal = runlog.New(cfg.RunLogPath)
	}

	return poster.New(selector, agent, sender, journal, cfg.FromAddress, cfg.PostAddress, logger)
}

func buildLLM(cfg *config.Config) (generator.LLMClient, error) {
	settings := generator.Settings{
		Provider: cfg.AIProvider,
		Model:    cfg.AIModel,
		APIKey:   cfg.AIAPIKey,
		BaseURL:  cfg.AIBaseURL,
	}
	switch cfg.AIProvider {
	case "openai":
		return generator.NewOpenAIClient(settings)
	case "compatible":
		// Any OpenAI-compatible gateway (Gemini, DeepSeek, proxies) works
		// as long as AI_BASE_URL points at it.
		if cfg.AIBaseURL == "" {
			return nil, errors.New("AI_PROVIDER=compatible requires AI_BASE_URL")
		}
		return generator.NewOpenAIClient(settings)
	default:
		return nil, fmt.Errorf("ai provider %s not supported", cfg.AIProvider)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
