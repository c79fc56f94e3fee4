package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"visit-report-service/internal/chat"
	"visit-report-service/internal/mailer"
	"visit-report-service/internal/models"
	"visit-report-service/internal/report"
)

// VisitFetcher reads the current visit set from the document store.
type VisitFetcher interface {
	FetchSiteVisits(ctx context.Context) ([]models.VisitRecord, error)
}

// EmailSender delivers the HTML report with attachments.
type EmailSender interface {
	SendReport(to, subject, htmlBody string, attachments []mailer.Attachment) error
}

// ChatSender delivers the chat rendering, chunking when oversized.
type ChatSender interface {
	SendReport(ctx context.Context, to string, msg report.ChatMessage) (*chat.SendResult, error)
}

// Pipeline composes fetch, filter/sort, render and multi-channel send.
// All collaborators are injected; it has no transport dependency.
type Pipeline struct {
	fetcher VisitFetcher
	mail    EmailSender
	chat    ChatSender
	policy  report.FilterPolicy
	window  time.Duration
	loc     *time.Location

	// now is swapped out by tests for a fixed clock.
	now func() time.Time
}

// New builds a pipeline from its collaborators and filter policy.
func New(fetcher VisitFetcher, mail EmailSender, chatSender ChatSender, policy report.FilterPolicy, window time.Duration, loc *time.Location) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		mail:    mail,
		chat:    chatSender,
		policy:  policy,
		window:  window,
		loc:     loc,
		now:     time.Now,
	}
}

// Send methods accepted by a run.
const (
	MethodEmail = "email"
	MethodChat  = "chat"
	MethodBoth  = "both"
)

// Params describes one delivery run.
type Params struct {
	SendMethod     string
	Email          string
	WhatsAppNumber string
	Subject        string

	// HTML, when set, replaces the generated email body.
	HTML string

	// Visits, when non-nil, bypasses the store fetch and is sent as-is
	// (caller-supplied rows are treated as format-ready).
	Visits []models.VisitRecord

	// Attachments are sent alongside the generated spreadsheet.
	Attachments []mailer.Attachment

	// SkipWhenEmpty makes an empty row set a designed no-op for both
	// channels. The scheduled job sets it; the endpoint leaves it unset
	// so chat still carries the explicit no-data notice.
	SkipWhenEmpty bool
}

// ChannelOutcome is the per-channel half of a run result.
type ChannelOutcome struct {
	Success    bool     `json:"success"`
	Skipped    bool     `json:"skipped,omitempty"`
	Error      string   `json:"error,omitempty"`
	MessageIDs []string `json:"messageIds,omitempty"`
	Chunked    bool     `json:"chunked,omitempty"`
}

// Result aggregates one run. Channel outcomes are independent: failure on
// one never blocks or rolls back the other.
type Result struct {
	Email       *ChannelOutcome `json:"email,omitempty"`
	Chat        *ChannelOutcome `json:"chat,omitempty"`
	TotalVisits int             `json:"totalVisits"`
	SentVisits  int             `json:"sentVisits"`
}

// Ok reports whether every attempted channel succeeded.
func (r *Result) Ok() bool {
	if r.Email != nil && !r.Email.Success {
		return false
	}
	if r.Chat != nil && !r.Chat.Success {
		return false
	}
	return true
}

// Run executes one fetch → filter/sort → render → send pass. Fetch and
// render errors abort the run; send errors are captured per channel.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Result, error) {
	rows := params.Visits
	if rows == nil {
		fetched, err := p.fetcher.FetchSiteVisits(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch site visits: %w", err)
		}
		rows = p.policy.Apply(fetched, p.now(), p.window)
	}

	result := &Result{TotalVisits: len(rows)}

	if len(rows) == 0 && params.SkipWhenEmpty {
		log.Printf("Pipeline: no visits in window, skipping delivery")
		return result, nil
	}

	method := params.SendMethod
	if method == "" {
		method = MethodEmail
	}

	if method == MethodEmail || method == MethodBoth {
		result.Email = p.sendEmail(rows, params)
	}

	if method == MethodChat || method == MethodBoth {
		result.Chat = p.sendChat(ctx, rows, params)
	}

	result.SentVisits = len(rows)
	return result, nil
}

// sendEmail renders and delivers the email channel. An empty row set
// skips the email entirely; the chat channel handles empty differently.
func (p *Pipeline) sendEmail(rows []models.VisitRecord, params Params) *ChannelOutcome {
	if len(rows) == 0 {
		log.Printf("Pipeline: empty row set, email skipped")
		return &ChannelOutcome{Success: true, Skipped: true}
	}

	generatedAt := p.now().In(p.loc)

	htmlBody := params.HTML
	if htmlBody == "" {
		htmlBody = report.RenderHTML(rows, generatedAt)
	}

	subject := params.Subject
	if subject == "" {
		subject = fmt.Sprintf("Site Visit Report - %s", generatedAt.Format("02 Jan 2006"))
	}

	attachments := params.Attachments
	buf, err := report.RenderExcel(rows)
	if err != nil {
		log.Printf("Pipeline: spreadsheet render failed: %v", err)
		return &ChannelOutcome{Error: err.Error()}
	}
	attachments = append([]mailer.Attachment{{
		Filename: "site-visit-report.xlsx",
		Content:  buf.Bytes(),
	}}, attachments...)

	if err := p.mail.SendReport(params.Email, subject, htmlBody, attachments); err != nil {
		log.Printf("Pipeline: email send failed: %v", err)
		return &ChannelOutcome{Error: err.Error()}
	}

	log.Printf("Pipeline: email sent to %s (%d visits)", params.Email, len(rows))
	return &ChannelOutcome{Success: true}
}

func (p *Pipeline) sendChat(ctx context.Context, rows []models.VisitRecord, params Params) *ChannelOutcome {
	msg := report.RenderChat(rows)

	res, err := p.chat.SendReport(ctx, params.WhatsAppNumber, msg)
	if err != nil {
		log.Printf("Pipeline: chat send failed: %v", err)
		return &ChannelOutcome{Error: err.Error()}
	}

	log.Printf("Pipeline: chat sent to %s (%d messages, %d visits)",
		params.WhatsAppNumber, len(res.MessageIDs), res.RowsSent)
	return &ChannelOutcome{
		Success:    true,
		MessageIDs: res.MessageIDs,
		Chunked:    res.Chunked,
	}
}
