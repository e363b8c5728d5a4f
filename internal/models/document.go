package models

import "time"

// DocumentSource identifies where a chatbot document came from.
type DocumentSource string

const (
	SourceNotice     DocumentSource = "notice"
	SourceNoticePDF  DocumentSource = "notice_pdf"
	SourceFAQ        DocumentSource = "faq"
	SourceScrapeText DocumentSource = "scrape_text"
	SourceScrapePDF  DocumentSource = "scrape_pdf"
	SourceSeed       DocumentSource = "seed"
)

// DocumentVisibility is the audience of an ingested document.
type DocumentVisibility string

const (
	DocumentPublic  DocumentVisibility = "public"
	DocumentStudent DocumentVisibility = "student"
)

// ChatbotDocument is append-only content keyed by the hash of its normalized
// text. SourceID is a loose back-reference that survives source deletion.
type ChatbotDocument struct {
	ID          string             `db:"id" json:"id"`
	SourceType  DocumentSource     `db:"source_type" json:"source_type"`
	SourceID    *string            `db:"source_id" json:"source_id,omitempty"`
	Content     string             `db:"content" json:"content"`
	ContentHash string             `db:"content_hash" json:"content_hash"`
	Visibility  DocumentVisibility `db:"visibility" json:"visibility"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	SourceType *DocumentSource
	Visibility *DocumentVisibility
	Limit      int
}
