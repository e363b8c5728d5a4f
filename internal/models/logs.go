package models

import "time"

// SystemLog modules.
const (
	LogModuleAuth    = "auth"
	LogModuleAdmin   = "admin"
	LogModuleEmail   = "email"
	LogModuleFiles   = "files"
	LogModuleScraper = "scraper"
	LogModulePDF     = "pdf"
	LogModuleNotice  = "notice"
	LogModuleFAQ     = "faq"
)

// SystemLog is an append-only operational event.
type SystemLog struct {
	ID        string    `db:"id" json:"id"`
	Module    string    `db:"module" json:"module"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EmailLog summarises one notice publication's notification run.
type EmailLog struct {
	ID        string    `db:"id" json:"id"`
	NoticeID  *string   `db:"notice_id" json:"notice_id,omitempty"`
	SentBy    *string   `db:"sent_by" json:"sent_by,omitempty"`
	Subject   string    `db:"subject" json:"subject"`
	Attempted int       `db:"attempted" json:"attempted"`
	Succeeded int       `db:"succeeded" json:"succeeded"`
	SentAt    time.Time `db:"sent_at" json:"sent_at"`
}

// LogFilter narrows log listings.
type LogFilter struct {
	Module string
	Limit  int
}
