package models

import "time"

// ScrapeStatus is the outcome of a scrape attempt.
type ScrapeStatus string

const (
	ScrapeSuccess  ScrapeStatus = "success"
	ScrapeError    ScrapeStatus = "error"
	ScrapeDisabled ScrapeStatus = "disabled"
)

// ScrapedWebsite is an external page registered for scraping.
type ScrapedWebsite struct {
	ID      string    `db:"id" json:"id"`
	URL     string    `db:"url" json:"url"`
	Name    *string   `db:"name" json:"name,omitempty"`
	Enabled bool      `db:"enabled" json:"enabled"`
	AddedAt time.Time `db:"added_at" json:"added_at"`
}

// ScrapeLog records one scrape attempt.
type ScrapeLog struct {
	ID                  string       `db:"id" json:"id"`
	WebsiteID           string       `db:"website_id" json:"website_id"`
	WebsiteURL          *string      `db:"website_url" json:"website_url,omitempty"`
	Status              ScrapeStatus `db:"status" json:"status"`
	ExtractedTextLength int          `db:"extracted_text_length" json:"extracted_text_length"`
	PDFLinksFound       int          `db:"pdf_links_found" json:"pdf_links_found"`
	ScrapedAt           time.Time    `db:"scraped_at" json:"scraped_at"`
}

// ScrapeResult is returned for a single site run.
type ScrapeResult struct {
	OK     bool         `json:"ok"`
	Status ScrapeStatus `json:"status"`
}

// ScrapeSummary is returned for a batch run.
type ScrapeSummary struct {
	OK    int `json:"ok"`
	Total int `json:"total"`
}
