package models

import "time"

// NoticeVisibility is the audience tier of a notice.
type NoticeVisibility string

const (
	VisibilityPublic     NoticeVisibility = "public"
	VisibilityStudent    NoticeVisibility = "student"
	VisibilityRestricted NoticeVisibility = "restricted"
)

// Valid reports whether v is a known tier.
func (v NoticeVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityStudent, VisibilityRestricted:
		return true
	}
	return false
}

// NoticeStatus is the lifecycle state of a notice.
type NoticeStatus string

const (
	NoticeStatusDraft     NoticeStatus = "draft"
	NoticeStatusPublished NoticeStatus = "published"
)

// NoticeCategory is a unique category name created on first use.
type NoticeCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Notice represents a persisted notice row.
type Notice struct {
	ID               string           `db:"id" json:"id"`
	Title            string           `db:"title" json:"title"`
	Summary          *string          `db:"summary" json:"summary,omitempty"`
	Content          *string          `db:"content" json:"content,omitempty"`
	CategoryID       *string          `db:"category_id" json:"category_id,omitempty"`
	CategoryName     *string          `db:"category_name" json:"category,omitempty"`
	Visibility       NoticeVisibility `db:"visibility" json:"visibility"`
	Status           NoticeStatus     `db:"status" json:"status"`
	TargetDepartment *string          `db:"target_department" json:"target_department,omitempty"`
	TargetYear       *int             `db:"target_year" json:"target_year,omitempty"`
	CreatedBy        string           `db:"created_by" json:"created_by"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
	Files            []NoticeFile     `db:"-" json:"files,omitempty"`
}

// Published reports whether the notice has left draft.
func (n *Notice) Published() bool {
	return n.Status == NoticeStatusPublished
}

// NoticeFile is an attachment owned by exactly one notice.
type NoticeFile struct {
	ID           string    `db:"id" json:"id"`
	NoticeID     string    `db:"notice_id" json:"notice_id"`
	OriginalName string    `db:"original_name" json:"original_name"`
	StoredPath   string    `db:"stored_path" json:"-"`
	FileType     string    `db:"file_type" json:"file_type"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// NoticeScope is the row-level restriction derived from a viewer. Empty
// fields impose no restriction.
type NoticeScope struct {
	PublishedOnly  bool
	Visibilities   []NoticeVisibility
	RestrictedDept *string
	RestrictedYear *int
	AuthorID       string
}

// NoticeFilter combines the viewer scope with request filters.
type NoticeFilter struct {
	Scope    NoticeScope
	Category string
	Today    bool
	Search   string
	Page     int
	PageSize int
}
