package models

import "time"

// AdminDashboard aggregates counts and recent activity for administrators.
type AdminDashboard struct {
	TotalUsers       int        `json:"total_users"`
	TotalStudents    int        `json:"total_students"`
	TotalModerators  int        `json:"total_moderators"`
	PublishedNotices int        `json:"published_notices"`
	DraftNotices     int        `json:"draft_notices"`
	AnsweredFAQs     int        `json:"answered_faqs"`
	PendingFAQs      int        `json:"pending_faqs"`
	Documents        int        `json:"documents"`
	Websites         int        `json:"websites"`
	RecentNotices    []Notice   `json:"recent_notices"`
	RecentFAQs       []FAQ      `json:"recent_faqs"`
	RecentEmails     []EmailLog `json:"recent_emails"`
	GeneratedAt      time.Time  `json:"generated_at"`
}

// StudentDashboard summarises what a student can currently see.
type StudentDashboard struct {
	VisibleNotices int       `json:"visible_notices"`
	MyFAQs         int       `json:"my_faqs"`
	TodayNotices   []Notice  `json:"today_notices"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// SystemMetrics is a snapshot of process-level counters.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	ChatbotQueries           uint64    `json:"chatbot_queries"`
	ScrapeRuns               uint64    `json:"scrape_runs"`
	EmailsSent               uint64    `json:"emails_sent"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
