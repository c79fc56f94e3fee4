package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"visit-report-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows(n int) []models.VisitRecord {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rows := make([]models.VisitRecord, 0, n)
	statuses := []string{models.StatusBooked, models.StatusNotBooked, models.StatusInterested}
	for i := 0; i < n; i++ {
		rows = append(rows, rowAt(fmt.Sprintf("Visitor %02d", i+1), base.Add(-time.Duration(i)*time.Hour)))
		rows[i].ContactNumber = fmt.Sprintf("98765432%02d", i)
		rows[i].ChannelPartner = "Skyline Realty"
		rows[i].PropertyTypes = "2BHK, 3BHK"
		rows[i].Remark = "Follow up next week"
		rows[i].Status = statuses[i%len(statuses)]
	}
	return rows
}

// All three renderings must carry the same rows, in the same order, with
// identical field values.
func TestRenderingsAgreeOnRowsAndOrder(t *testing.T) {
	rows := sampleRows(5)
	generatedAt := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

	html := RenderHTML(rows, generatedAt)
	chatMsg := RenderChat(rows)

	buf, err := RenderExcel(rows)
	require.NoError(t, err)
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheetRows, err := f.GetRows("Site Visits")
	require.NoError(t, err)
	require.Len(t, sheetRows, len(rows)+1, "header plus one sheet row per visit")

	require.Len(t, chatMsg.Blocks, len(rows))

	for i, r := range rows {
		// HTML order: each visitor appears, and before the next one.
		assert.Contains(t, html, r.VisitorName)

		// Spreadsheet: fixed column order, values identical.
		sheetRow := sheetRows[i+1]
		require.Len(t, sheetRow, 9)
		assert.Equal(t, fmt.Sprint(i+1), sheetRow[0])
		assert.Equal(t, r.VisitorName, sheetRow[1])
		assert.Equal(t, r.ContactNumber, sheetRow[2])
		assert.Equal(t, r.VisitDate, sheetRow[3])
		assert.Equal(t, r.VisitTime, sheetRow[4])
		assert.Equal(t, r.ChannelPartner, sheetRow[5])
		assert.Equal(t, r.PropertyTypes, sheetRow[6])
		assert.Equal(t, r.Remark, sheetRow[7])
		assert.Equal(t, r.Status, sheetRow[8])

		// Chat block i holds row i's values.
		block := chatMsg.Blocks[i]
		assert.Contains(t, block, r.VisitorName)
		assert.Contains(t, block, r.ContactNumber)
		assert.Contains(t, block, r.VisitDate)
		assert.Contains(t, block, r.VisitTime)
		assert.Contains(t, block, r.ChannelPartner)
		assert.Contains(t, block, r.PropertyTypes)
		assert.Contains(t, block, r.Remark)
		assert.Contains(t, block, r.Status)
	}

	// Relative order in the HTML body.
	for i := 0; i < len(rows)-1; i++ {
		a := strings.Index(html, rows[i].VisitorName)
		b := strings.Index(html, rows[i+1].VisitorName)
		assert.Less(t, a, b, "row %d should precede row %d in HTML", i, i+1)
	}
}

func TestRenderHTMLSummaryAndStamp(t *testing.T) {
	rows := sampleRows(6) // statuses cycle evenly: 2 booked, 2 not booked, 2 interested
	generatedAt := time.Date(2024, 3, 15, 20, 5, 0, 0, time.UTC)

	html := RenderHTML(rows, generatedAt)

	assert.Contains(t, html, "Generated on 15 Mar 2024, 08:05 PM")
	assert.Contains(t, html, "<b>Total Visits:</b> 6")
	assert.Contains(t, html, "<b>Booked:</b> 2")
	assert.Contains(t, html, "<b>Not Booked:</b> 2")
	assert.Contains(t, html, "<b>Interested:</b> 2")
}

func TestRenderHTMLHeaderMatchesRowCells(t *testing.T) {
	rows := sampleRows(3)
	html := RenderHTML(rows, time.Now())

	headerCells := strings.Count(html, "<th>")
	dataCells := strings.Count(html, "<td>")

	assert.Equal(t, 9, headerCells, "one header cell per column, sequence number included")
	assert.Equal(t, 9*len(rows), dataCells, "every data row carries one cell per header cell")
}

func TestRenderHTMLAlternatesRowShading(t *testing.T) {
	rows := sampleRows(2)
	html := RenderHTML(rows, time.Now())

	assert.Contains(t, html, `<tr style="background:`+evenRowShade+`">`)
	assert.Contains(t, html, `<tr style="background:`+oddRowShade+`">`)
}

func TestRenderHTMLEscapesValues(t *testing.T) {
	rows := sampleRows(1)
	rows[0].Remark = `<script>alert("x")</script>`
	html := RenderHTML(rows, time.Now())

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderChatSummaryMatchesHTMLSummary(t *testing.T) {
	rows := sampleRows(7)
	s := Summarize(rows)

	chatMsg := RenderChat(rows)
	assert.Contains(t, chatMsg.Summary, fmt.Sprintf("Total Visits: %d", s.Total))
	assert.Contains(t, chatMsg.Summary, fmt.Sprintf("Booked: %d", s.Booked))
	assert.Contains(t, chatMsg.Summary, fmt.Sprintf("Not Booked: %d", s.NotBooked))
	assert.Contains(t, chatMsg.Summary, fmt.Sprintf("Interested: %d", s.Interested))
}

func TestRenderChatEmptySetProducesNoDataNotice(t *testing.T) {
	chatMsg := RenderChat(nil)

	assert.Empty(t, chatMsg.Blocks)
	assert.Empty(t, chatMsg.Summary)
	assert.Equal(t, NoDataNotice, chatMsg.Assemble())
	assert.NotEmpty(t, chatMsg.Assemble())
}

func TestSummarizeIgnoresUnknownStatuses(t *testing.T) {
	rows := sampleRows(3)
	rows[1].Status = "Callback Requested"

	s := Summarize(rows)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Booked)
	assert.Equal(t, 0, s.NotBooked)
	assert.Equal(t, 1, s.Interested)
}
