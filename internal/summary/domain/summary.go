package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Urgency is the closed urgency scale carried by every record.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Device identifies the device context inferred from the raw message.
type Device string

const (
	DeviceIOS     Device = "ios"
	DeviceAndroid Device = "android"
	DeviceWeb     Device = "web"
	DeviceWindows Device = "windows"
	DeviceMacOS   Device = "macos"
	DeviceUnknown Device = "unknown"
)

// MessagePayload is the raw inbound message plus routing metadata. The
// Timestamp is the anchor for all relative-time resolution in the request.
type MessagePayload struct {
	UserID      string
	Platform    string
	MessageID   string
	MessageText string
	Timestamp   string
}

// SummaryRecord is the persisted, fully classified output of one summarize
// call. Entities and ContextFlags are stored as JSON columns and marshal
// straight through in HTTP responses.
type SummaryRecord struct {
	SummaryID     string         `json:"summary_id" gorm:"primaryKey;column:summary_id"`
	UserID        string         `json:"user_id" gorm:"index:idx_user_platform;not null"`
	Platform      string         `json:"platform" gorm:"index:idx_user_platform;not null"`
	MessageID     string         `json:"message_id" gorm:"not null"`
	Summary       string         `json:"summary" gorm:"type:text"`
	Type          string         `json:"type"`
	Intent        string         `json:"intent"`
	Urgency       Urgency        `json:"urgency"`
	Entities      datatypes.JSON `json:"entities"`
	ContextFlags  datatypes.JSON `json:"context_flags"`
	GeneratedAt   time.Time      `json:"generated_at"`
	DeviceContext Device         `json:"device_context"`
	UpdatedAt     time.Time      `json:"-"`
}

// TableName specifies the table name for GORM.
func (SummaryRecord) TableName() string {
	return "summaries"
}

// RecordEntities is the JSON shape of the entities column.
type RecordEntities struct {
	Person   []string `json:"person"`
	Datetime *string  `json:"datetime"`
}
