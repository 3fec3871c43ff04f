package portal

import (
	"context"
	"sync"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/domain/workspace"
	"github.com/docvault/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientDataService serves the tenant-facing portal reads. Every method
// takes the caller's tenant id explicitly; there is no implicit ambient
// tenant. Reads follow the degrade contract: a storage failure yields an
// empty collection and a warning log, never an error page, so one broken
// table does not take the whole dashboard down.
type ClientDataService struct {
	companies     company.CompanyRepository
	projects      workspace.ProjectRepository
	documents     workspace.DocumentRepository
	clientRecords billing.ClientRecordRepository
	logger        *zap.Logger
	metrics       *telemetry.BusinessMetrics
}

// SetBusinessMetrics attaches business metrics recording to the service.
// Metrics are optional; a nil receiver field disables recording.
func (s *ClientDataService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// NewClientDataService creates a new portal read service
func NewClientDataService(
	companies company.CompanyRepository,
	projects workspace.ProjectRepository,
	documents workspace.DocumentRepository,
	clientRecords billing.ClientRecordRepository,
	logger *zap.Logger,
) *ClientDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientDataService{
		companies:     companies,
		projects:      projects,
		documents:     documents,
		clientRecords: clientRecords,
		logger:        logger,
	}
}

// GetCompanies returns the tenant's companies, empty on storage failure
func (s *ClientDataService) GetCompanies(ctx context.Context, tenantID uuid.UUID) []CompanyView {
	rows, err := s.companies.FindByTenant(ctx, tenantID)
	if err != nil {
		s.degrade(ctx, tenantID, "companies", err)
		return []CompanyView{}
	}
	views := make([]CompanyView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toCompanyView(row))
	}
	s.served(ctx, tenantID, "companies")
	return views
}

// GetProjects returns the tenant's projects, empty on storage failure
func (s *ClientDataService) GetProjects(ctx context.Context, tenantID uuid.UUID) []ProjectView {
	rows, err := s.projects.FindByTenant(ctx, tenantID)
	if err != nil {
		s.degrade(ctx, tenantID, "projects", err)
		return []ProjectView{}
	}
	views := make([]ProjectView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toProjectView(row))
	}
	s.served(ctx, tenantID, "projects")
	return views
}

// GetDocuments returns the tenant's document rows, empty on storage failure
func (s *ClientDataService) GetDocuments(ctx context.Context, tenantID uuid.UUID) []DocumentView {
	rows, err := s.documents.FindByTenant(ctx, tenantID)
	if err != nil {
		s.degrade(ctx, tenantID, "documents", err)
		return []DocumentView{}
	}
	views := make([]DocumentView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toDocumentView(row))
	}
	s.served(ctx, tenantID, "documents")
	return views
}

// GetStats recomputes the tenant's usage summary from the scoped
// collections. The counts are derived, not stored, so they can never drift
// from the rows the tenant actually sees.
func (s *ClientDataService) GetStats(ctx context.Context, tenantID uuid.UUID, identityID uuid.UUID) StatsView {
	companies := s.GetCompanies(ctx, tenantID)
	projects := s.GetProjects(ctx, tenantID)
	documents := s.GetDocuments(ctx, tenantID)
	record := s.getClientRecord(ctx, tenantID, identityID)
	return s.buildStats(companies, projects, documents, record)
}

// GetClientDataContext assembles the full dashboard payload. The four reads
// are independent, tenant-partitioned queries and run concurrently; each
// carries its own degrade behavior, so a partial outage produces a partial
// dashboard.
func (s *ClientDataService) GetClientDataContext(ctx context.Context, tenantID uuid.UUID, identityID uuid.UUID) ClientDataContext {
	var (
		wg        sync.WaitGroup
		companies []CompanyView
		projects  []ProjectView
		documents []DocumentView
		record    *billing.ClientRecord
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		companies = s.GetCompanies(ctx, tenantID)
	}()
	go func() {
		defer wg.Done()
		projects = s.GetProjects(ctx, tenantID)
	}()
	go func() {
		defer wg.Done()
		documents = s.GetDocuments(ctx, tenantID)
	}()
	go func() {
		defer wg.Done()
		record = s.getClientRecord(ctx, tenantID, identityID)
	}()
	wg.Wait()

	return ClientDataContext{
		TenantID:  tenantID,
		Companies: companies,
		Projects:  projects,
		Documents: documents,
		Stats:     s.buildStats(companies, projects, documents, record),
	}
}

func (s *ClientDataService) buildStats(companies []CompanyView, projects []ProjectView, documents []DocumentView, record *billing.ClientRecord) StatsView {
	stats := StatsView{
		CompanyCount:  len(companies),
		ProjectCount:  len(projects),
		DocumentCount: len(documents),
	}
	for _, doc := range documents {
		stats.StorageBytesUsed += doc.SizeBytes
	}
	applyRecord(&stats, record)
	return stats
}

// getClientRecord loads the billing record, nil on failure (the dashboard
// then shows counts without quota figures)
func (s *ClientDataService) getClientRecord(ctx context.Context, tenantID, identityID uuid.UUID) *billing.ClientRecord {
	if identityID == uuid.Nil {
		return nil
	}
	record, err := s.clientRecords.FindByUserID(ctx, identityID)
	if err != nil {
		s.degrade(ctx, tenantID, "client_record", err)
		return nil
	}
	// the record is tenant-scoped too; a mismatch means the lookup crossed
	// a partition boundary and the data must not be shown
	if !record.BelongsTo(tenantID) {
		s.logger.Warn("client record tenant mismatch, dropping from response",
			zap.String("tenant_id", tenantID.String()),
			zap.String("identity_id", identityID.String()))
		return nil
	}
	return record
}

func (s *ClientDataService) degrade(ctx context.Context, tenantID uuid.UUID, collection string, err error) {
	s.logger.Warn("portal read failed, degrading to empty collection",
		zap.String("tenant_id", tenantID.String()),
		zap.String("collection", collection),
		zap.Error(err))
	if s.metrics != nil {
		s.metrics.RecordPortalRead(ctx, tenantID, collection, telemetry.PortalReadOutcomeDegraded)
	}
}

func (s *ClientDataService) served(ctx context.Context, tenantID uuid.UUID, collection string) {
	if s.metrics != nil {
		s.metrics.RecordPortalRead(ctx, tenantID, collection, telemetry.PortalReadOutcomeOK)
	}
}
