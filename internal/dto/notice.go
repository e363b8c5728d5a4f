package dto

// NoticeRequest is the create/update payload for a notice.
type NoticeRequest struct {
	Title            string  `json:"title" validate:"required,max=255"`
	Summary          string  `json:"summary"`
	Content          string  `json:"content"`
	Category         string  `json:"category" validate:"max=100"`
	Visibility       string  `json:"visibility" validate:"required,visibility"`
	TargetDepartment *string `json:"target_department"`
	TargetYear       *int    `json:"target_year" validate:"omitempty,min=1,max=6"`
}

// PublishNoticeRequest controls side effects of publishing.
type PublishNoticeRequest struct {
	SendEmail bool `json:"send_email"`
}

// PublishNoticeResponse reports the notification outcome.
type PublishNoticeResponse struct {
	NoticeID  string `json:"notice_id"`
	Status    string `json:"status"`
	Attempted int    `json:"emails_attempted"`
	Succeeded int    `json:"emails_succeeded"`
}
