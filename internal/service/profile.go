package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"

	"github.com/zamontech/yaqinbot/internal/entity"
	"github.com/zamontech/yaqinbot/internal/repository"
)

const (
	minPhoneLen = 5
	maxPhoneLen = 20
)

// ProfileCollector validates onboarding inputs and commits completed
// profiles to the repository.
type ProfileCollector struct {
	repo          repository.ProfilesRepository
	defaultRegion string
}

// NewProfileCollector builds a collector using region for parsing phone
// numbers typed without a country prefix.
func NewProfileCollector(repo repository.ProfilesRepository, defaultRegion string) *ProfileCollector {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = "UZ"
	}
	return &ProfileCollector{repo: repo, defaultRegion: region}
}

// SubmitName accepts any non-empty trimmed text for name or surname fields.
func (c *ProfileCollector) SubmitName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyField
	}
	return name, nil
}

// SubmitPhoneText validates a typed phone number and normalizes it to E.164.
func (c *ProfileCollector) SubmitPhoneText(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if len(phone) < minPhoneLen || len(phone) > maxPhoneLen || !containsDigit(phone) {
		return "", ErrInvalidPhone
	}

	number, err := phonenumbers.Parse(phone, c.defaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// SubmitSharedContact accepts a phone from a shared-contact payload. The
// payload comes from the messaging platform itself and is trusted verbatim.
func (c *ProfileCollector) SubmitSharedContact(phone string) string {
	return strings.TrimSpace(phone)
}

// Commit upserts a completed profile.
func (c *ProfileCollector) Commit(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	if !profile.Complete() {
		return nil, fmt.Errorf("commit incomplete profile: %w", ErrEmptyField)
	}
	saved, err := c.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("persist profile: %w", err)
	}
	return saved, nil
}

// UpdateLanguage persists a language change for an already committed profile.
func (c *ProfileCollector) UpdateLanguage(ctx context.Context, profile entity.Profile, lang string) (*entity.Profile, error) {
	profile.Language = lang
	saved, err := c.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("persist language change: %w", err)
	}
	return saved, nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
