// Package scope is the access-control policy of the platform. Every
// handler funnels its authorization decisions through the functions
// here instead of re-deriving role conditionals per entity type.
//
// The contract, by role:
//
//   - platform_admin: unrestricted across organizations.
//   - org_admin: full access within the own organization only.
//   - auditor: access limited to projects granted through explicit
//     assignments; audits, findings, evidence and comments derive their
//     scope from the owning project.
//
// Existence is checked before scope, so a missing entity is always
// NotFound, never Forbidden. Listing callers use VisibleProjectIDs to
// narrow silently instead of erroring.
package scope

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"auditgate-backend/shared/apperr"
	"auditgate-backend/shared/database/models"
	"auditgate-backend/shared/utils/cache"
)

// IsAdmin reports whether the user may manage users, projects and
// templates at all.
func IsAdmin(user *models.User) bool {
	return user.Role == models.RolePlatformAdmin || user.Role == models.RoleOrgAdmin
}

// SameOrganization reports whether the user belongs to the given
// organization.
func SameOrganization(user *models.User, orgID uuid.UUID) bool {
	return user.OrganizationID != nil && *user.OrganizationID == orgID
}

// AssignedProjectIDs returns the project ids the user holds explicit
// assignments for.
func AssignedProjectIDs(db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	if cm := cache.GetCacheManager(); cm != nil {
		if ids, ok := cm.GetVisibleProjects(userID); ok {
			return ids, nil
		}
	}

	var ids []uuid.UUID
	err := db.Model(&models.ProjectAssignment{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.SetVisibleProjects(userID, ids)
	}
	return ids, nil
}

// InvalidateAssignments drops the cached assignment set for a user.
// Must be called whenever the user's project assignments change.
func InvalidateAssignments(userID uuid.UUID) {
	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateVisibleProjects(userID)
	}
}

// VisibleProjectIDs computes the set of project ids the user may see.
// unrestricted is true for platform admins, in which case ids is nil
// and callers should not filter at all.
func VisibleProjectIDs(db *gorm.DB, user *models.User) (ids []uuid.UUID, unrestricted bool, err error) {
	switch user.Role {
	case models.RolePlatformAdmin:
		return nil, true, nil
	case models.RoleOrgAdmin:
		if user.OrganizationID == nil {
			return []uuid.UUID{}, false, nil
		}
		err = db.Model(&models.Project{}).
			Where("organization_id = ?", *user.OrganizationID).
			Pluck("id", &ids).Error
		return ids, false, err
	default:
		ids, err = AssignedProjectIDs(db, user.ID)
		return ids, false, err
	}
}

// VisibleAuditIDs derives the audit ids reachable through the user's
// visible projects.
func VisibleAuditIDs(db *gorm.DB, user *models.User) (ids []uuid.UUID, unrestricted bool, err error) {
	projectIDs, unrestricted, err := VisibleProjectIDs(db, user)
	if err != nil || unrestricted {
		return nil, unrestricted, err
	}
	if len(projectIDs) == 0 {
		return []uuid.UUID{}, false, nil
	}
	err = db.Model(&models.Audit{}).
		Where("project_id IN ?", projectIDs).
		Pluck("id", &ids).Error
	return ids, false, err
}

// CheckProjectAccess loads the project and decides whether the user may
// act on it. NotFound is returned before any scope decision.
func CheckProjectAccess(db *gorm.DB, user *models.User, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	switch user.Role {
	case models.RolePlatformAdmin:
		return &project, nil
	case models.RoleOrgAdmin:
		if !SameOrganization(user, project.OrganizationID) {
			return nil, apperr.Forbidden("")
		}
		return &project, nil
	default:
		assigned, err := AssignedProjectIDs(db, user.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range assigned {
			if id == projectID {
				return &project, nil
			}
		}
		return nil, apperr.Forbidden("")
	}
}

// CheckAuditAccess loads the audit and gates it through the owning
// project's scope.
func CheckAuditAccess(db *gorm.DB, user *models.User, auditID uuid.UUID) (*models.Audit, error) {
	var audit models.Audit
	if err := db.First(&audit, "id = ?", auditID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if _, err := CheckProjectAccess(db, user, audit.ProjectID); err != nil {
		return nil, err
	}
	return &audit, nil
}

// CheckFindingAccess loads the finding and gates it through its audit.
func CheckFindingAccess(db *gorm.DB, user *models.User, findingID uuid.UUID) (*models.Finding, error) {
	var finding models.Finding
	if err := db.First(&finding, "id = ?", findingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if _, err := CheckAuditAccess(db, user, finding.AuditID); err != nil {
		return nil, err
	}
	return &finding, nil
}

// CheckTemplateAccess loads the template and decides read access:
// system templates are visible to everyone, custom templates only
// within their owning organization.
func CheckTemplateAccess(db *gorm.DB, user *models.User, templateID uuid.UUID) (*models.Template, error) {
	var template models.Template
	if err := db.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if template.IsSystem || user.Role == models.RolePlatformAdmin {
		return &template, nil
	}
	if template.OrganizationID != nil && SameOrganization(user, *template.OrganizationID) {
		return &template, nil
	}
	return nil, apperr.Forbidden("")
}

// CheckUserRecordAccess decides whether actor may read (or, with
// forWrite, modify) the target user's record. Auditors reach only
// themselves; org admins stay inside their organization.
func CheckUserRecordAccess(actor *models.User, target *models.User, forWrite bool) error {
	if actor.Role == models.RolePlatformAdmin {
		return nil
	}
	if actor.ID == target.ID {
		return nil
	}
	if actor.Role == models.RoleOrgAdmin {
		if target.OrganizationID != nil && SameOrganization(actor, *target.OrganizationID) {
			return nil
		}
		return apperr.Forbidden("")
	}
	return apperr.Forbidden("")
}

// CheckRoleGrant rejects role assignments the actor may not make:
// only platform admins create or promote platform admins.
func CheckRoleGrant(actor *models.User, granted models.UserRole) error {
	if granted == models.RolePlatformAdmin && actor.Role != models.RolePlatformAdmin {
		return apperr.Forbidden("Cannot assign platform admin role")
	}
	return nil
}
