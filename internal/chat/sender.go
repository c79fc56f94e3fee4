package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"visit-report-service/internal/config"
	"visit-report-service/internal/report"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageAPI is the slice of the Twilio client the sender uses.
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Sender delivers chat reports over WhatsApp, splitting oversized bodies
// into budget-bounded chunks with a pacing delay between sends.
type Sender struct {
	api    messageAPI
	from   string
	budget int
	delay  time.Duration

	// sleep is swapped out by tests to observe pacing without waiting.
	sleep func(time.Duration)
}

// SendResult reports what was delivered: provider message IDs in send
// order and the number of visit rows carried.
type SendResult struct {
	MessageIDs []string `json:"messageIds"`
	RowsSent   int      `json:"rowsSent"`
	Chunked    bool     `json:"chunked"`
}

// NewSender creates a WhatsApp sender from provider credentials.
func NewSender(cfg config.WhatsAppConfig, budget int, delay time.Duration) *Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Sender{
		api:    client.Api,
		from:   cfg.From,
		budget: budget,
		delay:  delay,
		sleep:  time.Sleep,
	}
}

// ValidateNumber checks the chat destination before any send is attempted.
func ValidateNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return fmt.Errorf("whatsapp number is required")
	}
	return nil
}

// SendReport sends the chat message to the destination number. A body
// within budget goes out as one message; otherwise whole row blocks are
// packed into sequential chunks, each followed by the pacing delay.
// A send error aborts the remaining chunks; delivered chunks stay delivered.
func (s *Sender) SendReport(ctx context.Context, to string, msg report.ChatMessage) (*SendResult, error) {
	if err := ValidateNumber(to); err != nil {
		return nil, err
	}

	result := &SendResult{RowsSent: len(msg.Blocks)}

	body := msg.Assemble()
	if len(body) <= s.budget {
		id, err := s.send(ctx, to, body)
		if err != nil {
			return nil, err
		}
		result.MessageIDs = []string{id}
		return result, nil
	}

	chunks := BuildChunks(msg, s.budget)
	result.Chunked = true
	log.Printf("Chat: message exceeds %d chars, sending %d chunks", s.budget, len(chunks))

	for i, chunk := range chunks {
		id, err := s.send(ctx, to, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		result.MessageIDs = append(result.MessageIDs, id)

		if i < len(chunks)-1 {
			s.sleep(s.delay)
		}
	}

	return result, nil
}

// BuildChunks packs row blocks into bodies no longer than budget. A block
// is atomic and never split mid-row; when the next block would overflow,
// the chunk is sealed and a new one opens with a part-number header. The
// summary packs like one more atomic block, so it rides the final chunk
// and budget still holds when it does not fit alongside the last row.
func BuildChunks(msg report.ChatMessage, budget int) []string {
	parts := msg.Blocks
	if msg.Summary != "" {
		parts = append(append([]string{}, msg.Blocks...), msg.Summary)
	}

	var chunks []string
	part := 1
	current := chunkHeader(msg.Header, part)
	blocksInChunk := 0

	for _, block := range parts {
		candidate := current + "\n\n" + block
		if len(candidate) > budget && blocksInChunk > 0 {
			chunks = append(chunks, current)
			part++
			current = chunkHeader(msg.Header, part)
			candidate = current + "\n\n" + block
			blocksInChunk = 0
		}
		current = candidate
		blocksInChunk++
	}
	chunks = append(chunks, current)

	return chunks
}

func chunkHeader(header string, part int) string {
	if part == 1 {
		return header
	}
	return fmt.Sprintf("%s (Part %d)", header, part)
}

func (s *Sender) send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(whatsappAddr(s.from))
	params.SetTo(whatsappAddr(to))
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("whatsapp send failed: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

func whatsappAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
