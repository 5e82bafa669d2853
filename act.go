package lawharvest

import (
	"regexp"
	"strings"
	"time"
)

// ActRecord is a statute listed on the legislation pages.
type ActRecord struct {
	ActTitle      string    `json:"act_title"`
	ChapterNumber string    `json:"chapter_number"`
	YearEnacted   string    `json:"year_enacted"`
	DownloadURL   string    `json:"download_url"`
	LegalCategory string    `json:"legal_category"`
	SourceURL     string    `json:"source_url"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ActRecord) Validate() error {
	if r.ActTitle == "" {
		return Errorf(EINVALID, "act title required")
	}
	if r.SourceURL == "" {
		return Errorf(EINVALID, "act record source URL required")
	}
	return nil
}

// IdentityFields implements Identifiable.
func (r *ActRecord) IdentityFields() []string {
	return []string{r.ActTitle, r.ChapterNumber}
}

// CategoryOther is the category of acts matching no keyword.
const CategoryOther = "Other"

// Category maps a legal category to the keywords that select it.
type Category struct {
	Name     string
	Keywords []string
}

// Categories are checked in order; the first keyword hit wins.
var Categories = []Category{
	{"Criminal", []string{"criminal", "penal", "offence", "prosecution", "police"}},
	{"Civil", []string{"civil", "contract", "tort", "property", "family"}},
	{"Constitutional", []string{"constitution", "bill of rights", "fundamental", "democracy"}},
	{"Commercial", []string{"commercial", "business", "trade", "company", "banking"}},
	{"Labor", []string{"labor", "employment", "work", "occupation", "trade union"}},
	{"Environmental", []string{"environment", "conservation", "pollution", "natural resources"}},
	{"Health", []string{"health", "medical", "pharmacy", "disease", "hospital"}},
	{"Education", []string{"education", "school", "university", "college", "training"}},
	{"Tax", []string{"tax", "revenue", "customs", "excise", "income tax"}},
}

// Categorize returns the legal category of an act title.
func Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Name
			}
		}
	}
	return CategoryOther
}

var (
	yearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	chapterRe = regexp.MustCompile(`(?i)\bCap\.?\s*(\d+)`)
)

// ExtractYear returns the first four-digit year in s, or s itself when it
// holds no year.
func ExtractYear(s string) string {
	s = strings.TrimSpace(s)
	if y := yearRe.FindString(s); y != "" {
		return y
	}
	return s
}

// ExtractChapter returns the chapter number of a "Cap. 470" reference.
func ExtractChapter(s string) string {
	if m := chapterRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
