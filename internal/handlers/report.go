package handlers

import (
	"encoding/base64"
	"log"
	"net/http"
	"strings"

	"visit-report-service/internal/chat"
	"visit-report-service/internal/mailer"
	"visit-report-service/internal/models"
	"visit-report-service/internal/pipeline"
	"visit-report-service/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles report delivery requests
type ReportHandler struct {
	pipeline  *pipeline.Pipeline
	scheduler *scheduler.Scheduler
}

// NewReportHandler creates a new report handler
func NewReportHandler(p *pipeline.Pipeline, sched *scheduler.Scheduler) *ReportHandler {
	return &ReportHandler{
		pipeline:  p,
		scheduler: sched,
	}
}

// sendReportRequest is the POST /send-report body
type sendReportRequest struct {
	SendMethod     string              `json:"sendMethod"`
	To             string              `json:"to"`
	WhatsAppNumber string              `json:"whatsappNumber"`
	Subject        string              `json:"subject"`
	HTML           string              `json:"html"`
	Visits         []visitPayload      `json:"visits"`
	Attachments    []attachmentPayload `json:"attachments"`
}

// visitPayload is one caller-supplied row; every field is optional and
// falls back to the normalized placeholder.
type visitPayload struct {
	VisitorName    string `json:"visitorName"`
	ContactNumber  string `json:"contactNumber"`
	VisitDate      string `json:"visitDate"`
	VisitTime      string `json:"visitTime"`
	ChannelPartner string `json:"channelPartner"`
	PropertyTypes  string `json:"propertyTypes"`
	Remark         string `json:"remark"`
	Status         string `json:"status"`
}

type attachmentPayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// SendReport runs the pipeline for a caller-supplied destination.
// Validation failures short-circuit with a 400 before any send attempt.
func (h *ReportHandler) SendReport(c *gin.Context) {
	var req sendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid request body: " + err.Error()})
		return
	}

	method := strings.ToLower(strings.TrimSpace(req.SendMethod))
	if method == "" {
		method = pipeline.MethodEmail
	}
	if method != pipeline.MethodEmail && method != pipeline.MethodChat && method != pipeline.MethodBoth {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "sendMethod must be one of: email, chat, both"})
		return
	}

	if method == pipeline.MethodEmail || method == pipeline.MethodBoth {
		if err := mailer.ValidateAddress(req.To); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}
	if method == pipeline.MethodChat || method == pipeline.MethodBoth {
		if err := chat.ValidateNumber(req.WhatsAppNumber); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	params := pipeline.Params{
		SendMethod:     method,
		Email:          req.To,
		WhatsAppNumber: req.WhatsAppNumber,
		Subject:        req.Subject,
		HTML:           req.HTML,
		Attachments:    attachments,
	}
	if req.Visits != nil {
		params.Visits = normalizeVisits(req.Visits)
	}

	result, err := h.pipeline.Run(c.Request.Context(), params)
	if err != nil {
		log.Printf("Handler: report run failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	message := "report delivered"
	if !result.Ok() {
		message = "report finished with channel errors"
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      result.Ok(),
		"message": message,
		"results": gin.H{
			"email": result.Email,
			"chat":  result.Chat,
		},
		"totalVisits": result.TotalVisits,
		"sentVisits":  result.SentVisits,
	})
}

// TriggerReport manually fires the scheduled report job
func (h *ReportHandler) TriggerReport(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler not available"})
		return
	}

	log.Println("Handler: Manual report trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Handler: Manual report failed: %v", err)
		} else {
			log.Println("Handler: Manual report completed successfully")
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Report job started"})
}

// normalizeVisits applies the field fallbacks to caller-supplied rows so
// they render identically to store-fetched ones.
func normalizeVisits(payloads []visitPayload) []models.VisitRecord {
	rows := make([]models.VisitRecord, 0, len(payloads))
	for _, p := range payloads {
		rows = append(rows, models.VisitRecord{
			VisitorName:    orFallback(p.VisitorName),
			ContactNumber:  orFallback(p.ContactNumber),
			VisitDate:      orFallback(p.VisitDate),
			VisitTime:      orFallback(p.VisitTime),
			ChannelPartner: orFallback(p.ChannelPartner),
			PropertyTypes:  orFallback(p.PropertyTypes),
			Remark:         orFallback(p.Remark),
			Status:         orStatus(p.Status),
		})
	}
	return rows
}

func orFallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.FieldFallback
	}
	return s
}

func orStatus(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.StatusNotBooked
	}
	return s
}

func decodeAttachments(payloads []attachmentPayload) ([]mailer.Attachment, error) {
	attachments := make([]mailer.Attachment, 0, len(payloads))
	for _, p := range payloads {
		content, err := base64.StdEncoding.DecodeString(p.Content)
		if err != nil {
			return nil, &attachmentError{filename: p.Filename}
		}
		attachments = append(attachments, mailer.Attachment{
			Filename: p.Filename,
			Content:  content,
		})
	}
	return attachments, nil
}

type attachmentError struct {
	filename string
}

func (e *attachmentError) Error() string {
	return "attachment " + e.filename + " is not valid base64"
}
