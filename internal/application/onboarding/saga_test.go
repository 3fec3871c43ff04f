package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/docvault/backend/internal/domain/billing"
	"github.com/docvault/backend/internal/domain/identity"
	"github.com/docvault/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sagaFixture struct {
	provider      *mockIdentityProvider
	tenants       *mockTenantRepository
	profiles      *mockUserProfileRepository
	companies     *mockCompanyRepository
	credentials   *mockCredentialRepository
	clientRecords *mockClientRecordRepository
	subscriptions *mockSubscriptionRepository
	receipts      *mockReceiptRepository
	auditLog      *mockAuditRecorder
	saga          *Saga
}

func newSagaFixture() *sagaFixture {
	f := &sagaFixture{
		provider:      new(mockIdentityProvider),
		tenants:       new(mockTenantRepository),
		profiles:      new(mockUserProfileRepository),
		companies:     new(mockCompanyRepository),
		credentials:   new(mockCredentialRepository),
		clientRecords: new(mockClientRecordRepository),
		subscriptions: new(mockSubscriptionRepository),
		receipts:      new(mockReceiptRepository),
		auditLog:      new(mockAuditRecorder),
	}
	f.saga = NewSaga(SagaConfig{
		Validator:        NewUniquenessValidator(f.companies, f.profiles),
		Provider:         f.provider,
		TenantRepo:       f.tenants,
		ProfileRepo:      f.profiles,
		CompanyRepo:      f.companies,
		CredentialRepo:   f.credentials,
		ClientRecordRepo: f.clientRecords,
		SubscriptionRepo: f.subscriptions,
		ReceiptRepo:      f.receipts,
		AuditLog:         f.auditLog,
		Logger:           zap.NewNop(),
	})
	return f
}

// expectCleanGate makes the pre-check validator pass
func (f *sagaFixture) expectCleanGate() {
	f.companies.On("ExistsByName", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.companies.On("ExistsByTaxID", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.profiles.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil).Once()
}

func validInput() RegistrationInput {
	return RegistrationInput{
		Email:       "owner@acme.example",
		Password:    "s3cret-enough",
		ContactName: "Jordan Vega",
		CompanyName: "Acme Works SL",
		TaxID:       "b12345678",
		Address:     "Calle Mayor 1",
		Phone:       "+34 600 000 000",
		PostalCode:  "28001",
		City:        "Madrid",
	}
}

func TestSagaRegisterSuccess(t *testing.T) {
	f := newSagaFixture()
	identityID := uuid.New()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, "owner@acme.example", "s3cret-enough").Return(identityID, nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.credentials.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.clientRecords.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.receipts.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.subscriptions.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.auditLog.On("Record", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.Credentials = []CredentialInput{{PlatformType: "eclm", Username: "acme-cae", Password: "pw"}}

	result, err := f.saga.Register(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, identityID, result.IdentityID)
	assert.NotEqual(t, uuid.Nil, result.TenantID)
	assert.Equal(t, "Acme Works SL", result.CompanyName)
	assert.Equal(t, identity.RoleClient, result.Profile.Role)
	assert.Equal(t, billing.NewTrialQuota(), result.Quota)

	f.tenants.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.provider.AssertExpectations(t)
	f.tenants.AssertExpectations(t)
	f.profiles.AssertExpectations(t)
	f.companies.AssertExpectations(t)
	f.credentials.AssertExpectations(t)
	f.clientRecords.AssertExpectations(t)
	f.subscriptions.AssertExpectations(t)
	f.receipts.AssertExpectations(t)
	f.auditLog.AssertExpectations(t)
}

func TestSagaRegisterUppercasesTaxIDAndLowercasesEmail(t *testing.T) {
	f := newSagaFixture()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, "owner@acme.example", mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.clientRecords.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.receipts.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.subscriptions.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.auditLog.On("Record", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.Email = "  Owner@Acme.Example "

	result, err := f.saga.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.example", result.Profile.Email)
}

func TestSagaRegisterRejectedByGate(t *testing.T) {
	f := newSagaFixture()
	f.companies.On("ExistsByName", mock.Anything, mock.Anything).Return(true, nil)

	result, err := f.saga.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.Nil(t, result)

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, FieldCompanyName, rejected.Field)

	// a rejection at the gate must leave no side effects behind
	f.provider.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	f.tenants.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSagaRegisterGateStorageError(t *testing.T) {
	f := newSagaFixture()
	f.companies.On("ExistsByName", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))

	_, err := f.saga.Register(context.Background(), validInput())
	require.Error(t, err)

	var sysErr *SystemError
	require.ErrorAs(t, err, &sysErr)
	assert.Equal(t, StepValidateUniqueness, sysErr.Step)
	assert.False(t, sysErr.RolledBack)
	f.provider.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestSagaRegisterDuplicateIdentity(t *testing.T) {
	f := newSagaFixture()
	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.Nil, shared.ErrAlreadyExists)

	_, err := f.saga.Register(context.Background(), validInput())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, FieldEmail, rejected.Field)
	f.tenants.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSagaRegisterCompensatesInReverseOrder(t *testing.T) {
	f := newSagaFixture()
	identityID := uuid.New()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(identityID, nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.credentials.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.clientRecords.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.receipts.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.subscriptions.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	var order []string
	f.clientRecords.On("Delete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, StepCreateClientRecord)
	}).Return(nil)
	f.credentials.On("Delete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, StepWriteCredentials)
	}).Return(nil)
	f.companies.On("Delete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, StepCreateCompany)
	}).Return(nil)
	f.profiles.On("Delete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, StepCreateUserProfile)
	}).Return(nil)
	f.tenants.On("Delete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, StepCreateTenant)
	}).Return(nil)

	in := validInput()
	in.Credentials = []CredentialInput{{PlatformType: "eclm", Username: "acme-cae", Password: "pw"}}

	_, err := f.saga.Register(context.Background(), in)

	var sysErr *SystemError
	require.ErrorAs(t, err, &sysErr)
	assert.Equal(t, StepCreateSubscription, sysErr.Step)
	assert.True(t, sysErr.RolledBack)

	assert.Equal(t, []string{
		StepCreateClientRecord,
		StepWriteCredentials,
		StepCreateCompany,
		StepCreateUserProfile,
		StepCreateTenant,
	}, order)

	// the identity cannot be undone and is surfaced as a known gap
	assert.True(t, sysErr.PartialCompensation())
	require.Len(t, sysErr.CompensationErrs, 1)
	assert.Contains(t, sysErr.CompensationErrs[0], StepCreateIdentity)
	assert.Contains(t, sysErr.CompensationErrs[0], "compensation unsupported")
}

func TestSagaRegisterCompensationContinuesPastFailures(t *testing.T) {
	f := newSagaFixture()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.clientRecords.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.receipts.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.subscriptions.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	f.clientRecords.On("Delete", mock.Anything, mock.Anything).Return(errors.New("record locked"))
	f.companies.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.tenants.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := f.saga.Register(context.Background(), validInput())

	var sysErr *SystemError
	require.ErrorAs(t, err, &sysErr)
	assert.True(t, sysErr.RolledBack)

	// one failed Delete, one unsupported identity undo; the remaining
	// entries were still compensated
	assert.Len(t, sysErr.CompensationErrs, 2)
	f.companies.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.tenants.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSagaRegisterConcurrentDuplicateLosesRace(t *testing.T) {
	f := newSagaFixture()

	// the gate passes, then the unique index fires on the company insert
	f.companies.On("ExistsByName", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.companies.On("ExistsByTaxID", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.profiles.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil).Once()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
	f.profiles.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.tenants.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("ExistsByName", mock.Anything, mock.Anything).Return(true, nil).Once()

	_, err := f.saga.Register(context.Background(), validInput())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, FieldCompanyName, rejected.Field)

	// the rejection is only returned after the partial state was undone
	f.profiles.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.tenants.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.clientRecords.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSagaRegisterTenantInsertRaceIsRejected(t *testing.T) {
	f := newSagaFixture()

	// the gate passes, then the tenant name index fires on the insert
	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

	_, err := f.saga.Register(context.Background(), validInput())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, FieldCompanyName, rejected.Field)
	f.profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSagaRegisterProfileInsertRaceIsRejected(t *testing.T) {
	f := newSagaFixture()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)
	f.tenants.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := f.saga.Register(context.Background(), validInput())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, FieldEmail, rejected.Field)

	// the tenant created before the collision is undone first
	f.tenants.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
	f.companies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSagaRegisterReceiptStubFailureIsNonFatal(t *testing.T) {
	f := newSagaFixture()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.companies.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.clientRecords.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.receipts.On("Create", mock.Anything, mock.Anything).Return(errors.New("receipts table locked"))
	f.subscriptions.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.auditLog.On("Record", mock.Anything, mock.Anything).Return(errors.New("audit sink down"))

	result, err := f.saga.Register(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, result)
	f.tenants.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSagaRegisterCancellationIsCompensated(t *testing.T) {
	f := newSagaFixture()

	f.expectCleanGate()
	f.provider.On("SignUp", mock.Anything, mock.Anything, mock.Anything).Return(uuid.New(), nil)
	f.tenants.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.profiles.On("Save", mock.Anything, mock.Anything).Return(context.Canceled)
	f.tenants.On("Delete", mock.Anything, mock.Anything).Return(nil)

	_, err := f.saga.Register(context.Background(), validInput())

	var sysErr *SystemError
	require.ErrorAs(t, err, &sysErr)
	assert.Equal(t, StepCreateUserProfile, sysErr.Step)
	assert.True(t, sysErr.RolledBack)
	f.tenants.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSagaRegisterIdempotencyReplay(t *testing.T) {
	f := newSagaFixture()
	store := new(mockIdempotencyStore)
	f.saga.idempotency = store

	store.On("MarkProcessed", mock.Anything, "onboarding:req-42", mock.Anything).Return(false, nil)

	in := validInput()
	in.IdempotencyKey = "req-42"

	_, err := f.saga.Register(context.Background(), in)
	require.ErrorIs(t, err, ErrDuplicateRequest)
	f.provider.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	f.companies.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
}
