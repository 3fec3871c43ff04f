package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docvault/backend/internal/domain/audit"
	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/company"
	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/docvault/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step names, in execution order
const (
	StepValidateUniqueness = "ValidateUniqueness"
	StepCreateIdentity     = "CreateIdentity"
	StepCreateTenant       = "CreateTenant"
	StepCreateUserProfile  = "CreateUserProfile"
	StepCreateCompany      = "CreateCompany"
	StepWriteCredentials   = "WriteCredentials"
	StepCreateClientRecord = "CreateClientRecord"
	StepCreateReceiptStub  = "CreateReceiptStub"
	StepCreateSubscription = "CreateSubscription"
	StepLogAuditEvent      = "LogAuditEvent"
)

// DefaultStepTimeout bounds each saga step; a blocked call to the store or
// the identity service fails the step instead of hanging the registration.
const DefaultStepTimeout = 10 * time.Second

const idempotencyTTL = 24 * time.Hour

// ErrDuplicateRequest is returned when the same idempotency key is replayed
var ErrDuplicateRequest = shared.NewDomainError("DUPLICATE_REQUEST", "This registration was already submitted")

// undo is one entry of the compensation stack. A nil compensate marks a step
// whose resource cannot be undone (the identity provider exposes no delete).
type undo struct {
	step       string
	resourceID uuid.UUID
	compensate func(ctx context.Context) error
}

// Saga provisions a complete tenant as an ordered sequence of independent
// writes. The backing store offers no cross-table transaction, so atomicity
// is approximated: every succeeded step is remembered and, on the first
// fatal failure, compensated in exact reverse order. The result is a saga
// with one irreversible gap (the auth identity), documented rather than
// hidden.
type Saga struct {
	validator        *UniquenessValidator
	provider         identity.IdentityProvider
	tenantRepo       identity.TenantRepository
	profileRepo      identity.UserProfileRepository
	companyRepo      company.CompanyRepository
	credentialRepo   company.CredentialRepository
	clientRecordRepo billing.ClientRecordRepository
	subscriptionRepo billing.SubscriptionRepository
	receiptRepo      billing.ReceiptRepository
	auditLog         audit.Recorder
	idempotency      shared.IdempotencyStore
	stepTimeout      time.Duration
	logger           *zap.Logger
	metrics          *telemetry.BusinessMetrics
}

// SetBusinessMetrics attaches business metrics recording to the saga.
// Metrics are optional; a nil receiver field disables recording.
func (s *Saga) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// SagaConfig bundles the saga's collaborators
type SagaConfig struct {
	Validator        *UniquenessValidator
	Provider         identity.IdentityProvider
	TenantRepo       identity.TenantRepository
	ProfileRepo      identity.UserProfileRepository
	CompanyRepo      company.CompanyRepository
	CredentialRepo   company.CredentialRepository
	ClientRecordRepo billing.ClientRecordRepository
	SubscriptionRepo billing.SubscriptionRepository
	ReceiptRepo      billing.ReceiptRepository
	AuditLog         audit.Recorder
	Idempotency      shared.IdempotencyStore // optional
	StepTimeout      time.Duration
	Logger           *zap.Logger
}

// NewSaga creates a new registration saga
func NewSaga(cfg SagaConfig) *Saga {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = DefaultStepTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Saga{
		validator:        cfg.Validator,
		provider:         cfg.Provider,
		tenantRepo:       cfg.TenantRepo,
		profileRepo:      cfg.ProfileRepo,
		companyRepo:      cfg.CompanyRepo,
		credentialRepo:   cfg.CredentialRepo,
		clientRecordRepo: cfg.ClientRecordRepo,
		subscriptionRepo: cfg.SubscriptionRepo,
		receiptRepo:      cfg.ReceiptRepo,
		auditLog:         cfg.AuditLog,
		idempotency:      cfg.Idempotency,
		stepTimeout:      cfg.StepTimeout,
		logger:           cfg.Logger,
	}
}

// Register runs the full provisioning pipeline. It returns either an
// AuthenticatedTenantContext, a *RejectedError (user-fixable, state clean),
// or a *SystemError (compensation attempted, generic retry-safe message for
// the end user).
func (s *Saga) Register(ctx context.Context, in RegistrationInput) (*AuthenticatedTenantContext, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "registration", "execute")
	defer span.End()

	start := time.Now()
	in.normalize()

	if s.idempotency != nil && in.IdempotencyKey != "" {
		fresh, err := s.idempotency.MarkProcessed(ctx, "onboarding:"+in.IdempotencyKey, idempotencyTTL)
		if err != nil {
			s.logger.Warn("idempotency store unavailable, proceeding without replay protection", zap.Error(err))
		} else if !fresh {
			s.logger.Info("duplicate registration submission dropped", zap.String("email", in.Email))
			return nil, ErrDuplicateRequest
		}
	}

	// Step 1: validation gate. Nothing has been created yet, so a rejection
	// returns immediately with no compensation.
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.validator.Validate(ctx, in)
	}); err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			s.logger.Info("registration rejected by validation gate",
				zap.String("field", rejected.Field),
				zap.String("email", in.Email))
			return nil, s.reject(ctx, rejected, start)
		}
		telemetry.RecordError(span, err)
		if s.metrics != nil {
			s.metrics.RecordRegistration(ctx, telemetry.RegistrationOutcomeFailed, time.Since(start))
		}
		return nil, &SystemError{Step: StepValidateUniqueness, Err: err}
	}

	var stack []undo

	// Step 2: identity. The provider exposes no delete, so the undo entry is
	// recorded with a nil compensation and surfaced as a known gap.
	var identityID uuid.UUID
	if err := s.runStep(ctx, func(ctx context.Context) error {
		id, err := s.provider.SignUp(ctx, in.Email, in.Password)
		identityID = id
		return err
	}); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, s.reject(ctx, NewRejectedError(FieldEmail, "is already in use"), start)
		}
		return nil, s.abort(ctx, start, StepCreateIdentity, err, stack)
	}
	stack = append(stack, undo{step: StepCreateIdentity, resourceID: identityID})

	// Step 3: tenant
	tenant, err := identity.NewTenant(in.CompanyName)
	if err != nil {
		return nil, s.abort(ctx, start, StepCreateTenant, err, stack)
	}
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.tenantRepo.Save(ctx, tenant)
	}); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, s.rejectLostRace(ctx, start, stack, in, NewRejectedError(FieldCompanyName, "is already registered"))
		}
		return nil, s.abort(ctx, start, StepCreateTenant, err, stack)
	}
	stack = append(stack, undo{step: StepCreateTenant, resourceID: tenant.ID, compensate: func(ctx context.Context) error {
		return s.tenantRepo.Delete(ctx, tenant.ID)
	}})

	// Step 4: user profile, role fixed to Client
	profile, err := identity.NewUserProfile(identityID, tenant.ID, in.Email, in.ContactName)
	if err != nil {
		return nil, s.abort(ctx, start, StepCreateUserProfile, err, stack)
	}
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.profileRepo.Save(ctx, profile)
	}); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, s.rejectLostRace(ctx, start, stack, in, NewRejectedError(FieldEmail, "is already in use"))
		}
		return nil, s.abort(ctx, start, StepCreateUserProfile, err, stack)
	}
	stack = append(stack, undo{step: StepCreateUserProfile, resourceID: profile.ID, compensate: func(ctx context.Context) error {
		return s.profileRepo.Delete(ctx, profile.ID)
	}})

	// Step 5: company. A unique-constraint violation here means a concurrent
	// duplicate slipped past the gate; re-checking names the field that
	// actually collided.
	comp, err := company.NewCompany(tenant.ID, in.CompanyName, in.TaxID)
	if err != nil {
		return nil, s.abort(ctx, start, StepCreateCompany, err, stack)
	}
	if err := comp.SetAddress(in.Address, in.Phone, in.PostalCode, in.City); err != nil {
		return nil, s.abort(ctx, start, StepCreateCompany, err, stack)
	}
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.companyRepo.Save(ctx, comp)
	}); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, s.rejectLostRace(ctx, start, stack, in, s.resolveDuplicateField(ctx, in))
		}
		return nil, s.abort(ctx, start, StepCreateCompany, err, stack)
	}
	stack = append(stack, undo{step: StepCreateCompany, resourceID: comp.ID, compensate: func(ctx context.Context) error {
		return s.companyRepo.Delete(ctx, comp.ID)
	}})

	// Step 6: platform credentials, skipped when the caller supplied none
	if len(in.Credentials) > 0 {
		credentials, err := toCredentials(tenant.ID, in.Credentials)
		if err != nil {
			return nil, s.abort(ctx, start, StepWriteCredentials, err, stack)
		}
		for _, cred := range credentials {
			cred := cred
			if err := s.runStep(ctx, func(ctx context.Context) error {
				return s.credentialRepo.Save(ctx, cred)
			}); err != nil {
				return nil, s.abort(ctx, start, StepWriteCredentials, err, stack)
			}
			stack = append(stack, undo{step: StepWriteCredentials, resourceID: cred.ID, compensate: func(ctx context.Context) error {
				return s.credentialRepo.Delete(ctx, cred.ID)
			}})
		}
	}

	// Step 7: billing client record with the fixed trial quota
	quota := billing.NewTrialQuota()
	record, err := billing.NewClientRecord(tenant.ID, identityID, comp.Name, quota)
	if err != nil {
		return nil, s.abort(ctx, start, StepCreateClientRecord, err, stack)
	}
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.clientRecordRepo.Save(ctx, record)
	}); err != nil {
		return nil, s.abort(ctx, start, StepCreateClientRecord, err, stack)
	}
	stack = append(stack, undo{step: StepCreateClientRecord, resourceID: record.ID, compensate: func(ctx context.Context) error {
		return s.clientRecordRepo.Delete(ctx, record.ID)
	}})

	// Step 8: receipt stub. Best effort; a missing stub is recoverable later
	// and must never block account creation.
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.receiptRepo.Create(ctx, billing.NewRegistrationStub(tenant.ID))
	}); err != nil {
		s.logger.Warn("receipt stub creation failed, continuing",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
	}

	// Step 9: trial subscription
	subscription := billing.NewTrialSubscription(tenant.ID)
	if err := s.runStep(ctx, func(ctx context.Context) error {
		return s.subscriptionRepo.Save(ctx, subscription)
	}); err != nil {
		return nil, s.abort(ctx, start, StepCreateSubscription, err, stack)
	}
	stack = append(stack, undo{step: StepCreateSubscription, resourceID: subscription.ID, compensate: func(ctx context.Context) error {
		return s.subscriptionRepo.Delete(ctx, subscription.ID)
	}})

	// Step 10: audit trail. Best effort, same contract as the receipt stub.
	if err := s.runStep(ctx, func(ctx context.Context) error {
		event, err := audit.NewAuditEvent(tenant.ID, identityID.String(), audit.ActionTenantRegistered)
		if err != nil {
			return err
		}
		event.WithEntity(identity.AggregateTypeTenant, tenant.ID).WithDetail(comp.Name)
		return s.auditLog.Record(ctx, event)
	}); err != nil {
		s.logger.Warn("registration audit event failed, continuing",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("identity_id", identityID.String()),
		zap.String("company_name", comp.Name))

	telemetry.SetAttributes(span,
		telemetry.SpanAttrTenantID, tenant.ID.String(),
		telemetry.SpanAttrCompanyName, comp.Name)
	if s.metrics != nil {
		s.metrics.RecordRegistration(ctx, telemetry.RegistrationOutcomeSucceeded, time.Since(start))
	}

	return &AuthenticatedTenantContext{
		IdentityID:  identityID,
		TenantID:    tenant.ID,
		Profile:     profile,
		CompanyName: comp.Name,
		Quota:       quota,
	}, nil
}

// runStep executes one forward action under the per-step timeout
func (s *Saga) runStep(ctx context.Context, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	return fn(stepCtx)
}

// abort compensates everything created so far and wraps the step error.
// Cancellation of the caller's context lands here as well: a create-then-
// abandon is indistinguishable from a succeeded step, so cancellation is
// treated as a system failure and compensated, not interrupted.
func (s *Saga) abort(ctx context.Context, start time.Time, step string, err error, stack []undo) *SystemError {
	s.logger.Error("registration step failed, compensating in reverse order",
		zap.String("step", step),
		zap.Int("steps_to_undo", len(stack)),
		zap.Error(err))

	telemetry.RecordError(telemetry.SpanFromContext(ctx), err)

	warnings := s.compensate(ctx, stack)

	if s.metrics != nil {
		s.metrics.RecordRegistration(ctx, telemetry.RegistrationOutcomeFailed, time.Since(start))
	}

	return &SystemError{
		Step:             step,
		RolledBack:       true,
		CompensationErrs: warnings,
		Err:              err,
	}
}

// compensate walks the undo stack in reverse. Individual compensation
// failures are logged as consistency warnings and collected, never
// re-raised: best effort is the contract, not strict ACID rollback.
// Compensation runs detached from the caller's cancellation so an aborted
// request still gets cleaned up.
func (s *Saga) compensate(ctx context.Context, stack []undo) []string {
	base := context.WithoutCancel(ctx)
	var warnings []string

	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		if entry.compensate == nil {
			s.logger.Warn("compensation unsupported, resource orphaned until reconciliation",
				zap.String("step", entry.step),
				zap.String("resource_id", entry.resourceID.String()))
			warnings = append(warnings, fmt.Sprintf("%s: compensation unsupported", entry.step))
			if s.metrics != nil && entry.step == StepCreateIdentity {
				s.metrics.RecordOrphanedIdentity(base)
			}
			continue
		}

		undoCtx, cancel := context.WithTimeout(base, s.stepTimeout)
		if err := entry.compensate(undoCtx); err != nil {
			s.logger.Warn("compensation failed, manual cleanup required",
				zap.String("step", entry.step),
				zap.String("resource_id", entry.resourceID.String()),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("%s: %v", entry.step, err))
			if s.metrics != nil {
				s.metrics.RecordCompensationError(base, entry.step)
			}
		}
		cancel()
	}

	return warnings
}

// rejectLostRace handles a unique-constraint violation on an insert that a
// concurrent duplicate won after both passed the gate. Partial state is
// compensated first, then the constraint surfaces as a field rejection
// rather than a system failure.
func (s *Saga) rejectLostRace(ctx context.Context, start time.Time, stack []undo, in RegistrationInput, rejected *RejectedError) *RejectedError {
	warnings := s.compensate(ctx, stack)
	s.logger.Warn("concurrent duplicate registration lost the insert race",
		zap.String("field", rejected.Field),
		zap.String("email", in.Email),
		zap.Strings("compensation_warnings", warnings))
	return s.reject(ctx, rejected, start)
}

// reject records the rejection outcome and passes the error through
func (s *Saga) reject(ctx context.Context, rejected *RejectedError, start time.Time) *RejectedError {
	if s.metrics != nil {
		s.metrics.RecordRegistrationRejected(ctx, rejected.Field, time.Since(start))
	}
	return rejected
}

// resolveDuplicateField re-runs the existence checks to name the field that
// actually collided when the database constraint fired.
func (s *Saga) resolveDuplicateField(ctx context.Context, in RegistrationInput) *RejectedError {
	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.stepTimeout)
	defer cancel()

	if exists, err := s.companyRepo.ExistsByName(checkCtx, in.CompanyName); err == nil && exists {
		return NewRejectedError(FieldCompanyName, "is already registered")
	}
	return NewRejectedError(FieldTaxID, "is already registered")
}
