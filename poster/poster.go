// Package poster orchestrates one publishing run: pick a topic, generate the
// article, render it for email, deliver it to the post-by-email address, and
// journal the outcome. Each run is fully sequential.
package poster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"auto_blog_email_publisher/format"
	"auto_blog_email_publisher/generator"
	"auto_blog_email_publisher/mailer"
	"auto_blog_email_publisher/runlog"
	"auto_blog_email_publisher/topics"
)

// Options tweak a single run.
type Options struct {
	// DryRun generates and renders but neither sends email, mutates the
	// rotation state, nor journals the run.
	DryRun bool
	// OutPath saves the rendered HTML fragment to a file when set.
	OutPath string
	// Topic overrides the selector entirely.
	Topic string
}

// Result is what a run produced, delivered or not.
type Result struct {
	Topic     topics.Topic
	Post      generator.Post
	HTML      string
	Text      string
	Delivered bool
}

// Poster wires the run pipeline together.
type Poster struct {
	selector *topics.Selector
	agent    *generator.Agent
	sender   mailer.Sender
	journal  *runlog.Log
	from     string
	to       string
	logger   *slog.Logger
}

func New(selector *topics.Selector, agent *generator.Agent, sender mailer.Sender, journal *runlog.Log, from, to string, logger *slog.Logger) (*Poster, error) {
	if selector == nil || agent == nil {
		return nil, errors.New("selector and agent are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poster{
		selector: selector,
		agent:    agent,
		sender:   sender,
		journal:  journal,
		from:     from,
		to:       to,
		logger:   logger,
	}, nil
}

// Run executes one publishing run. Delivery failures are returned after the
// run log entry is written; generation degrades internally and only aborts
// when no draft could be produced at all.
func (p *Poster) Run(ctx context.Context, opts Options) (Result, error) {
	topic, err := p.pickTopic(ctx, opts)
	if err != nil {
		return Result{}, err
	}
	p.logger.Info("topic selected", "topic", topic.Title, "category", topic.Category)

	post, err := p.agent.GeneratePost(ctx, topic.Title, topic.Category)
	if err != nil {
		return Result{}, err
	}
	p.logger.Info("post generated", "title", post.Title, "attempts", post.Attempts, "verdict", post.Verdict.String())

	htmlBody, textBody, err := format.Render(post.Markdown)
	if err != nil {
		return Result{}, err
	}

	if opts.OutPath != "" {
		if err := os.WriteFile(opts.OutPath, []byte(htmlBody), 0o644); err != nil {
			return Result{}, fmt.Errorf("saving rendered post: %w", err)
		}
		p.logger.Info("rendered HTML saved", "path", opts.OutPath)
	}

	res := Result{Topic: topic, Post: post, HTML: htmlBody, Text: textBody}

	if opts.DryRun {
		p.logger.Info("dry run complete, nothing sent", "topic", topic.Title)
		return res, nil
	}
	if p.sender == nil || p.journal == nil {
		return Result{}, errors.New("sender and run log are required outside dry runs")
	}

	sendErr := p.sender.Send(ctx, &mailer.Email{
		From:    p.from,
		To:      p.to,
		Subject: post.Title,
		HTML:    htmlBody,
		Text:    textBody,
	})
	res.Delivered = sendErr == nil

	entry := runlog.Entry{
		Topic:     topic.Title,
		Category:  topic.Category,
		Title:     post.Title,
		Attempts:  post.Attempts,
		Verdict:   post.Verdict.String(),
		Delivered: res.Delivered,
	}
	if sendErr != nil {
		entry.ErrorKind = mailer.Kind(sendErr)
		entry.Error = sendErr.Error()
	}
	if err := p.journal.Append(entry); err != nil {
		p.logger.Error("run log append failed", "err", err)
	}

	if sendErr != nil {
		p.logger.Error("run failed", "topic", topic.Title, "kind", mailer.Kind(sendErr), "err", sendErr)
		return res, sendErr
	}
	p.logger.Info("run complete, post emailed", "topic", topic.Title, "to", p.to)
	return res, nil
}

// pickTopic resolves the run's topic. Overrides and dry runs leave the
// rotation state untouched.
func (p *Poster) pickTopic(ctx context.Context, opts Options) (topics.Topic, error) {
	if opts.Topic != "" {
		return topics.Topic{Title: opts.Topic, Category: "manual"}, nil
	}
	if opts.DryRun {
		return p.selector.Suggest(ctx)
	}
	return p.selector.Choose(ctx)
}
