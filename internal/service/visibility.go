package service

import "github.com/noah-isme/campus-assistant-api/internal/models"

// NoticeScopeFor derives the row-level notice restriction for a viewer.
func NoticeScopeFor(v models.Viewer) models.NoticeScope {
	switch v.Role {
	case models.RoleAdmin:
		return models.NoticeScope{}
	case models.RoleModerator:
		return models.NoticeScope{AuthorID: v.UserID}
	case models.RoleStudent:
		scope := models.NoticeScope{
			PublishedOnly: true,
			Visibilities:  []models.NoticeVisibility{models.VisibilityPublic, models.VisibilityStudent},
		}
		if v.Department != nil && v.Year != nil {
			scope.RestrictedDept = v.Department
			scope.RestrictedYear = v.Year
		}
		return scope
	case models.RoleGuest:
	}
	return models.NoticeScope{
		PublishedOnly: true,
		Visibilities:  []models.NoticeVisibility{models.VisibilityPublic},
	}
}

// CanViewNotice is the in-memory form of NoticeScopeFor.
func CanViewNotice(v models.Viewer, n *models.Notice) bool {
	if n == nil {
		return false
	}
	switch v.Role {
	case models.RoleAdmin:
		return true
	case models.RoleModerator:
		return v.UserID != "" && n.CreatedBy == v.UserID
	case models.RoleStudent:
		if !n.Published() || v.IsGuest() {
			return false
		}
		switch n.Visibility {
		case models.VisibilityPublic, models.VisibilityStudent:
			return true
		case models.VisibilityRestricted:
			return v.Department != nil && v.Year != nil &&
				n.TargetDepartment != nil && n.TargetYear != nil &&
				*n.TargetDepartment == *v.Department && *n.TargetYear == *v.Year
		}
		return false
	case models.RoleGuest:
	}
	return n.Published() && n.Visibility == models.VisibilityPublic
}

// CanManageNotice reports whether v may edit, publish or delete n.
func CanManageNotice(v models.Viewer, n *models.Notice) bool {
	switch v.Role {
	case models.RoleAdmin:
		return true
	case models.RoleModerator:
		return v.UserID != "" && n.CreatedBy == v.UserID
	case models.RoleStudent, models.RoleGuest:
	}
	return false
}

// CanDownloadAttachment applies the download rule: the parent must be
// published, and anything other than a public notice requires an
// authenticated student. Department and year are not re-checked here.
func CanDownloadAttachment(v models.Viewer, n *models.Notice) bool {
	if n == nil || !n.Published() {
		return false
	}
	if n.Visibility == models.VisibilityPublic {
		return true
	}
	return v.Role == models.RoleStudent && !v.IsGuest()
}

// FAQFilterFor scopes FAQ listings per role. Guests and students see answered
// questions; moderators see their department's pending queue plus their own;
// admins see everything.
func FAQFilterFor(v models.Viewer) models.FAQFilter {
	answered := models.FAQStatusAnswered
	pending := models.FAQStatusPending
	switch v.Role {
	case models.RoleAdmin:
		return models.FAQFilter{}
	case models.RoleModerator:
		return models.FAQFilter{Status: &pending, Department: v.Department, AskedBy: v.UserID}
	case models.RoleStudent, models.RoleGuest:
	}
	return models.FAQFilter{Status: &answered}
}
