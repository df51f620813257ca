package domain

import (
	"fmt"
	"time"
)

// PostingStatus enumerates lifecycle states for a company posting.
type PostingStatus string

const (
	PostingComingSoon PostingStatus = "ComingSoon"
	PostingOpen       PostingStatus = "Open"
	PostingClosed     PostingStatus = "Closed"
)

// ParsePostingStatus accepts the canonical values plus the legacy "Coming Soon" spelling.
func ParsePostingStatus(raw string) (PostingStatus, error) {
	switch raw {
	case "", string(PostingComingSoon), "Coming Soon":
		return PostingComingSoon, nil
	case string(PostingOpen):
		return PostingOpen, nil
	case string(PostingClosed):
		return PostingClosed, nil
	default:
		return "", fmt.Errorf("unknown posting status %q", raw)
	}
}

// DateLayout is the wire format of posting deadlines.
const DateLayout = "2006-01-02"

// Posting is a company job listing.
type Posting struct {
	ID                  string        `json:"_id"`
	CompanyName         string        `json:"company_name"`
	JobRole             string        `json:"role"`
	ShortDescription    string        `json:"short_description"`
	DetailedDescription string        `json:"detailed_description"`
	Location            string        `json:"location"`
	Package             int64         `json:"package"`
	Deadline            time.Time     `json:"apply_before"`
	RelatedDocuments    []string      `json:"related_documents"`
	CompanyWebsite      *string       `json:"company_website"`
	Status              PostingStatus `json:"status"`
	Eligibility         *float64      `json:"eligibility"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ExpiredBy reports whether the posting's deadline falls strictly before the given day.
func (p Posting) ExpiredBy(today time.Time) bool {
	deadline := time.Date(p.Deadline.Year(), p.Deadline.Month(), p.Deadline.Day(), 0, 0, 0, 0, today.Location())
	return deadline.Before(today)
}
