package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/seeya29/SmartBrief/internal/summary/domain"
	"github.com/seeya29/SmartBrief/internal/summary/repository"
	"github.com/seeya29/SmartBrief/pkg/classify"
	"github.com/seeya29/SmartBrief/pkg/cleaner"
	"github.com/seeya29/SmartBrief/pkg/entities"
	"github.com/seeya29/SmartBrief/pkg/render"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SummaryUsecase composes the cleaning, extraction, classification and
// rendering stages into the public pipeline operations.
type SummaryUsecase interface {
	// Summarize runs the full pipeline on one payload, persists the
	// resulting record and returns it.
	Summarize(payload domain.MessagePayload) (*domain.SummaryRecord, error)
	// Clean exposes the platform cleaner alone for preview use cases.
	Clean(platform, text string) string
	// GetRecord retrieves one persisted record by summary id.
	GetRecord(summaryID string) (*domain.SummaryRecord, error)
	// GetContext returns the most recent records for a user/platform pair,
	// newest first.
	GetContext(ctx context.Context, userID, platform string, limit int) ([]*domain.SummaryRecord, error)
}

// ContextCache is the optional recent-context cache in front of the store.
type ContextCache interface {
	SaveRecord(ctx context.Context, record *domain.SummaryRecord) error
	RecentRecords(ctx context.Context, userID, platform string, limit int) ([]*domain.SummaryRecord, error)
}

// summaryNamespace seeds the deterministic summary id derivation. Changing
// it would re-key every stored record.
var summaryNamespace = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

type summaryUsecase struct {
	repo  repository.SummaryRepository
	cache ContextCache
	now   func() time.Time
}

// NewSummaryUsecase creates the pipeline orchestrator. The cache may be nil,
// in which case every context read goes to the store.
func NewSummaryUsecase(repo repository.SummaryRepository, cache ContextCache) SummaryUsecase {
	return &summaryUsecase{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (u *summaryUsecase) Summarize(payload domain.MessagePayload) (*domain.SummaryRecord, error) {
	payload = trimPayload(payload)
	anchor, err := validatePayload(payload)
	if err != nil {
		return nil, err
	}

	cleaned := cleaner.Clean(payload.Platform, payload.MessageText)
	isReply := cleaner.IsReply(payload.MessageText)
	ents := entities.Extract(cleaned, anchor)
	cls := classify.Classify(cleaned, ents, anchor, isReply)
	summaryText := render.Render(cls.Type, cls.Intent, ents, anchor)

	entitiesJSON, err := marshalEntities(ents)
	if err != nil {
		return nil, fmt.Errorf("encode entities: %w", err)
	}
	flagsJSON, err := json.Marshal(cls.ContextFlags)
	if err != nil {
		return nil, fmt.Errorf("encode context flags: %w", err)
	}

	record := &domain.SummaryRecord{
		SummaryID:     NewSummaryID(payload.UserID, payload.Platform, payload.MessageID),
		UserID:        payload.UserID,
		Platform:      payload.Platform,
		MessageID:     payload.MessageID,
		Summary:       summaryText,
		Type:          cls.Type,
		Intent:        cls.Intent,
		Urgency:       domain.Urgency(cls.Urgency),
		Entities:      datatypes.JSON(entitiesJSON),
		ContextFlags:  datatypes.JSON(flagsJSON),
		GeneratedAt:   u.now().UTC().Truncate(time.Second),
		DeviceContext: detectDevice(payload.MessageText),
	}

	if err := u.repo.Upsert(record); err != nil {
		return nil, fmt.Errorf("persist summary: %w", err)
	}

	if u.cache != nil {
		if err := u.cache.SaveRecord(context.Background(), record); err != nil {
			log.Printf("[Summary] cache write failed for %s: %v", record.SummaryID, err)
		}
	}

	return record, nil
}

func (u *summaryUsecase) Clean(platform, text string) string {
	return cleaner.Clean(platform, text)
}

func (u *summaryUsecase) GetRecord(summaryID string) (*domain.SummaryRecord, error) {
	return u.repo.GetByID(summaryID)
}

func (u *summaryUsecase) GetContext(ctx context.Context, userID, platform string, limit int) ([]*domain.SummaryRecord, error) {
	if u.cache != nil {
		records, err := u.cache.RecentRecords(ctx, userID, platform, limit)
		// A short window may just mean older records expired from the
		// cache, so only a full window is served from it.
		if err == nil && len(records) == limit {
			return records, nil
		}
	}
	records, err := u.repo.ListRecent(userID, platform, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*domain.SummaryRecord{}
	}
	return records, nil
}

// NewSummaryID derives the record id as a pure function of the logical
// message identity, so reprocessing the same message replaces its row.
func NewSummaryID(userID, platform, messageID string) string {
	name := userID + "|" + platform + "|" + messageID
	return uuid.NewSHA1(summaryNamespace, []byte(name)).String()
}

func trimPayload(p domain.MessagePayload) domain.MessagePayload {
	p.UserID = strings.TrimSpace(p.UserID)
	p.Platform = strings.TrimSpace(p.Platform)
	p.MessageID = strings.TrimSpace(p.MessageID)
	p.MessageText = strings.TrimSpace(p.MessageText)
	p.Timestamp = strings.TrimSpace(p.Timestamp)
	return p
}

func validatePayload(p domain.MessagePayload) (time.Time, error) {
	switch {
	case p.UserID == "":
		return time.Time{}, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	case p.Platform == "":
		return time.Time{}, fmt.Errorf("%w: platform is required", domain.ErrValidation)
	case p.MessageID == "":
		return time.Time{}, fmt.Errorf("%w: message_id is required", domain.ErrValidation)
	case p.MessageText == "":
		return time.Time{}, fmt.Errorf("%w: message_text is required", domain.ErrValidation)
	}
	anchor, err := ParseAnchor(p.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp must be ISO-8601 UTC: %v", domain.ErrValidation, err)
	}
	return anchor, nil
}

// ParseAnchor parses an ISO-8601 timestamp, accepting both the Z suffix and
// explicit offsets, and normalizes it to UTC.
func ParseAnchor(ts string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05Z", ts); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func marshalEntities(ents entities.Set) ([]byte, error) {
	re := domain.RecordEntities{Person: ents.Person}
	if re.Person == nil {
		re.Person = []string{}
	}
	if ents.When != nil {
		formatted := entities.FormatUTC(*ents.When)
		re.Datetime = &formatted
	}
	return json.Marshal(re)
}

// deviceSignatures is evaluated in order; the first matching phrase wins.
var deviceSignatures = []struct {
	phrases []string
	device  domain.Device
}{
	{[]string{"sent from my iphone", "ios"}, domain.DeviceIOS},
	{[]string{"sent from my android", "android"}, domain.DeviceAndroid},
	{[]string{"windows"}, domain.DeviceWindows},
	{[]string{"mac os x", "macos", "mac"}, domain.DeviceMacOS},
	{[]string{"via web", "web"}, domain.DeviceWeb},
}

func detectDevice(rawText string) domain.Device {
	lower := strings.ToLower(rawText)
	for _, sig := range deviceSignatures {
		for _, phrase := range sig.phrases {
			if strings.Contains(lower, phrase) {
				return sig.device
			}
		}
	}
	return domain.DeviceUnknown
}
