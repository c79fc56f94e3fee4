package report

import (
	"fmt"
	"strings"

	"visit-report-service/internal/models"
)

// ChatMessage is the chat rendering split into its parts so the sender
// can chunk on row-block boundaries.
type ChatMessage struct {
	Header  string
	Blocks  []string
	Summary string
}

// NoDataNotice is the chat body sent when the row set is empty.
const NoDataNotice = "📋 *Site Visit Report*\n\nNo site visits to report for this period."

// RenderChat builds the plain-text chat message: a header line, one
// decorated block per row, and a trailing summary matching the HTML
// summary in content. An empty row set yields the explicit no-data notice.
func RenderChat(rows []models.VisitRecord) ChatMessage {
	if len(rows) == 0 {
		return ChatMessage{Header: NoDataNotice}
	}

	msg := ChatMessage{
		Header: "📋 *Site Visit Report*",
		Blocks: make([]string, 0, len(rows)),
	}

	for i, r := range rows {
		var b strings.Builder
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, r.VisitorName)
		fmt.Fprintf(&b, "📞 Contact: %s\n", r.ContactNumber)
		fmt.Fprintf(&b, "📅 Date: %s\n", r.VisitDate)
		fmt.Fprintf(&b, "⏰ Time: %s\n", r.VisitTime)
		fmt.Fprintf(&b, "🤝 Partner: %s\n", r.ChannelPartner)
		fmt.Fprintf(&b, "🏠 Property: %s\n", r.PropertyTypes)
		fmt.Fprintf(&b, "📝 Remark: %s\n", r.Remark)
		fmt.Fprintf(&b, "✅ Status: %s", r.Status)
		msg.Blocks = append(msg.Blocks, b.String())
	}

	s := Summarize(rows)
	msg.Summary = fmt.Sprintf(
		"📊 *Summary*\nTotal Visits: %d\nBooked: %d\nNot Booked: %d\nInterested: %d",
		s.Total, s.Booked, s.NotBooked, s.Interested,
	)

	return msg
}

// Assemble joins the parts into one body, blocks separated by blank lines.
func (m ChatMessage) Assemble() string {
	parts := make([]string, 0, len(m.Blocks)+2)
	parts = append(parts, m.Header)
	parts = append(parts, m.Blocks...)
	if m.Summary != "" {
		parts = append(parts, m.Summary)
	}
	return strings.Join(parts, "\n\n")
}
