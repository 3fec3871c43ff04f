package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/docvault/backend/internal/domain/audit"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/domain/workspace"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessGuard enforces tenant ownership before any scoped mutation. A
// resource that does not exist and a resource owned by another tenant
// produce the same AccessDenied answer, so probing ids reveals nothing
// about other tenants' data.
type AccessGuard struct {
	projects workspace.ProjectRepository
	auditLog audit.Recorder
	logger   *zap.Logger
}

// NewAccessGuard creates a new access guard
func NewAccessGuard(projects workspace.ProjectRepository, auditLog audit.Recorder, logger *zap.Logger) *AccessGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessGuard{projects: projects, auditLog: auditLog, logger: logger}
}

// AuthorizeProject loads a project and verifies the caller's tenant owns it
func (g *AccessGuard) AuthorizeProject(ctx context.Context, tenantID, projectID uuid.UUID) (*workspace.Project, error) {
	project, err := g.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrAccessDenied
		}
		return nil, err
	}
	if !project.BelongsTo(tenantID) {
		g.logger.Warn("cross-tenant access attempt blocked",
			zap.String("tenant_id", tenantID.String()),
			zap.String("project_id", projectID.String()),
			zap.String("owner_tenant_id", project.TenantID.String()))
		return nil, shared.ErrAccessDenied
	}
	return project, nil
}

// RenameProject renames a project after the ownership check passes. The
// rename is recorded in the audit trail; a failed audit write does not
// fail the rename.
func (g *AccessGuard) RenameProject(ctx context.Context, tenantID, actorID, projectID uuid.UUID, newName string) (*ProjectView, error) {
	project, err := g.AuthorizeProject(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}

	previousName := project.Name
	if err := project.Rename(newName); err != nil {
		return nil, err
	}
	if err := g.projects.Save(ctx, project); err != nil {
		return nil, err
	}

	if event, err := audit.NewAuditEvent(tenantID, actorID.String(), audit.ActionProjectRenamed); err == nil {
		event.WithEntity("Project", project.ID).
			WithDetail(fmt.Sprintf("renamed %q to %q", previousName, project.Name))
		if err := g.auditLog.Record(ctx, event); err != nil {
			g.logger.Warn("rename audit event failed, continuing",
				zap.String("tenant_id", tenantID.String()),
				zap.String("project_id", project.ID.String()),
				zap.Error(err))
		}
	}

	view := toProjectView(*project)
	return &view, nil
}
