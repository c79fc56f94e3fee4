package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VisitRecord is one normalized site-visit row, ready for rendering.
// Every display field carries the "-" fallback; nothing is ever absent.
type VisitRecord struct {
	VisitorName    string `json:"visitorName"`
	ContactNumber  string `json:"contactNumber"`
	VisitDate      string `json:"visitDate"`
	VisitTime      string `json:"visitTime"`
	ChannelPartner string `json:"channelPartner"`
	PropertyTypes  string `json:"propertyTypes"`
	Remark         string `json:"remark"`
	Status         string `json:"status"`

	// VisitTimestamp is used for filtering and sorting only; it is never
	// rendered. Nil when the source document carried no timestamp.
	VisitTimestamp *time.Time `json:"-"`
}

// Visit status vocabulary. Open-ended: documents may carry other values.
const (
	StatusBooked     = "Booked"
	StatusNotBooked  = "Not Booked"
	StatusInterested = "Interested"
)

// FieldFallback is the placeholder for any missing source field.
const FieldFallback = "-"

// SiteVisitDoc is the raw document shape of the siteVisits collection.
// Every field is optional; normalization supplies the fallbacks.
type SiteVisitDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	VisitorName    *string            `bson:"visitorName,omitempty"`
	ContactNumber  *string            `bson:"contactNumber,omitempty"`
	ChannelPartner *string            `bson:"channelPartner,omitempty"`
	PropertyTypes  []string           `bson:"propertyTypes,omitempty"`
	Remark         *string            `bson:"remark,omitempty"`
	Status         *string            `bson:"status,omitempty"`

	// VisitTimestamp arrives as epoch seconds.
	VisitTimestamp *int64 `bson:"visitTimestamp,omitempty"`
}

// Normalize flattens a source document into a VisitRecord, localizing the
// timestamp into loc for display while keeping the raw instant for
// filtering and sorting.
func (d *SiteVisitDoc) Normalize(loc *time.Location) VisitRecord {
	r := VisitRecord{
		VisitorName:    stringOrFallback(d.VisitorName),
		ContactNumber:  stringOrFallback(d.ContactNumber),
		VisitDate:      FieldFallback,
		VisitTime:      FieldFallback,
		ChannelPartner: stringOrFallback(d.ChannelPartner),
		PropertyTypes:  joinOrFallback(d.PropertyTypes),
		Remark:         stringOrFallback(d.Remark),
		Status:         StatusNotBooked,
	}

	if d.Status != nil && strings.TrimSpace(*d.Status) != "" {
		r.Status = *d.Status
	}

	if d.VisitTimestamp != nil {
		ts := time.Unix(*d.VisitTimestamp, 0).In(loc)
		r.VisitTimestamp = &ts
		r.VisitDate = ts.Format(VisitDateLayout)
		r.VisitTime = ts.Format(VisitTimeLayout)
	}

	return r
}

// Display layouts for the localized visit date and time.
const (
	VisitDateLayout = "02/01/2006"
	VisitTimeLayout = "03:04 PM"
)

func stringOrFallback(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return FieldFallback
	}
	return *s
}

func joinOrFallback(parts []string) string {
	if len(parts) == 0 {
		return FieldFallback
	}
	return strings.Join(parts, ", ")
}
