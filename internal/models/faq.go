package models

import "time"

// FAQStatus is the lifecycle state of a question.
type FAQStatus string

const (
	FAQStatusPending  FAQStatus = "pending"
	FAQStatusAnswered FAQStatus = "answered"
)

// FAQ is a question with an optional answer.
type FAQ struct {
	ID               string     `db:"id" json:"id"`
	Question         string     `db:"question" json:"question"`
	Answer           *string    `db:"answer" json:"answer,omitempty"`
	Category         *string    `db:"category" json:"category,omitempty"`
	TargetDepartment *string    `db:"target_department" json:"target_department,omitempty"`
	Status           FAQStatus  `db:"status" json:"status"`
	AskedBy          *string    `db:"asked_by" json:"asked_by,omitempty"`
	AnsweredBy       *string    `db:"answered_by" json:"answered_by,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	AnsweredAt       *time.Time `db:"answered_at" json:"answered_at,omitempty"`
}

// FAQFilter restricts FAQ listings. Department and AskedBy combine with OR
// so a moderator sees the pending queue of their department plus their own.
type FAQFilter struct {
	Status     *FAQStatus
	Department *string
	AskedBy    string
	Category   string
	Search     string
	Limit      int
}
