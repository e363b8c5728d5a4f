package dto

// SubmitFAQRequest is the student question payload.
type SubmitFAQRequest struct {
	Question         string  `json:"question" validate:"required"`
	Category         string  `json:"category"`
	TargetDepartment *string `json:"target_department"`
}

// CreateFAQRequest is used by moderators and admins to seed questions.
type CreateFAQRequest struct {
	Question         string  `json:"question" validate:"required"`
	Answer           string  `json:"answer"`
	Category         string  `json:"category"`
	TargetDepartment *string `json:"target_department"`
}

// AnswerFAQRequest carries the answer text.
type AnswerFAQRequest struct {
	Answer string `json:"answer" validate:"required"`
}
