package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"visit-report-service/internal/models"
)

// Fixed palette for the HTML table.
const (
	headerBackground = "#1a73e8"
	evenRowShade     = "#f5f8ff"
	oddRowShade      = "#ffffff"
)

// GeneratedAtLayout is the fixed format of the report generation stamp.
const GeneratedAtLayout = "02 Jan 2006, 03:04 PM"

// RenderHTML builds the email body: one table row per visit, alternating
// row shading, and a trailing summary block. Row order is preserved.
func RenderHTML(rows []models.VisitRecord, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family:Arial,sans-serif">`)
	b.WriteString(`<h2 style="color:#202124">Site Visit Report</h2>`)
	fmt.Fprintf(&b, `<p style="color:#5f6368">Generated on %s</p>`, generatedAt.Format(GeneratedAtLayout))

	b.WriteString(`<table border="0" cellpadding="8" cellspacing="0" style="border-collapse:collapse;width:100%">`)
	fmt.Fprintf(&b, `<tr style="background:%s;color:#ffffff;text-align:left">`, headerBackground)
	b.WriteString(`<th>#</th>`)
	for _, h := range columnHeaders {
		fmt.Fprintf(&b, `<th>%s</th>`, h)
	}
	b.WriteString(`</tr>`)

	for i, r := range rows {
		shade := oddRowShade
		if i%2 == 0 {
			shade = evenRowShade
		}
		fmt.Fprintf(&b, `<tr style="background:%s">`, shade)
		fmt.Fprintf(&b, `<td>%d</td>`, i+1)
		for _, v := range rowValues(r) {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(v))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table>`)

	s := Summarize(rows)
	b.WriteString(`<div style="margin-top:16px;padding:12px;background:#e8f0fe;border-radius:4px">`)
	fmt.Fprintf(&b, `<p><b>Total Visits:</b> %d</p>`, s.Total)
	fmt.Fprintf(&b, `<p><b>Booked:</b> %d</p>`, s.Booked)
	fmt.Fprintf(&b, `<p><b>Not Booked:</b> %d</p>`, s.NotBooked)
	fmt.Fprintf(&b, `<p><b>Interested:</b> %d</p>`, s.Interested)
	b.WriteString(`</div></div>`)

	return b.String()
}

// columnHeaders is the fixed column order shared by the HTML table and
// the spreadsheet ("#" prepended by each renderer).
var columnHeaders = []string{
	"Visitor Name",
	"Contact Number",
	"Visit Date",
	"Visit Time",
	"Channel Partner",
	"Property Types",
	"Remark",
	"Status",
}

// rowValues flattens a record into the fixed column order.
func rowValues(r models.VisitRecord) []string {
	return []string{
		r.VisitorName,
		r.ContactNumber,
		r.VisitDate,
		r.VisitTime,
		r.ChannelPartner,
		r.PropertyTypes,
		r.Remark,
		r.Status,
	}
}
