package dto

import "github.com/seeya29/SmartBrief/internal/summary/domain"

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Platform    string `json:"platform" binding:"required"`
	MessageID   string `json:"message_id" binding:"required"`
	MessageText string `json:"message_text" binding:"required"`
	Timestamp   string `json:"timestamp" binding:"required"`
}

// ToPayload converts the request into the domain payload.
func (r SummarizeRequest) ToPayload() domain.MessagePayload {
	return domain.MessagePayload{
		UserID:      r.UserID,
		Platform:    r.Platform,
		MessageID:   r.MessageID,
		MessageText: r.MessageText,
		Timestamp:   r.Timestamp,
	}
}

// CleanRequest is the body of POST /api/message_cleaner.
type CleanRequest struct {
	Platform    string `json:"platform" binding:"required"`
	MessageText string `json:"message_text" binding:"required"`
}

// CleanResponse carries the cleaned text back to the caller.
type CleanResponse struct {
	CleanedText string `json:"cleaned_text"`
}

// BatchSummarizeRequest is the body of POST /api/summarize/batch.
type BatchSummarizeRequest struct {
	Messages []SummarizeRequest `json:"messages" binding:"required"`
}

// BatchSummarizeResponse reports how many payloads were accepted.
type BatchSummarizeResponse struct {
	Queued   int `json:"queued"`
	Rejected int `json:"rejected"`
}
