package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/adapters/storage/memory"
	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/SscSPs/vaultix_backend/internal/core/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SnapshotRepository ---
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context, key string) (*portsrepo.Snapshot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	args := m.Called(ctx, key, data, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

// MockTxSnapshotRepository also writes events in the snapshot transaction.
type MockTxSnapshotRepository struct {
	MockSnapshotRepository
}

func (m *MockTxSnapshotRepository) SaveWithEvents(ctx context.Context, key string, data []byte, expectedVersion int64, events []domain.ApplicationEvent) (int64, error) {
	args := m.Called(ctx, key, data, expectedVersion, events)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type ApplicationServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *testClock
	snapshots *memory.SnapshotStore
	events    *memory.EventStore
	service   *services.ApplicationService
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newTestClock()
	suite.snapshots = memory.NewSnapshotStore()
	suite.events = memory.NewEventStore()
	suite.service = suite.newRegistry()
}

func (suite *ApplicationServiceTestSuite) newRegistry() *services.ApplicationService {
	svc := services.NewApplicationService(suite.snapshots, suite.events, metrics.New(), testOptions(suite.clock)...)
	suite.Require().NoError(svc.Load(suite.ctx))
	return svc
}

func (suite *ApplicationServiceTestSuite) submit(email string) string {
	id, err := suite.service.CreateApplication(suite.ctx, validDraft(email))
	suite.Require().NoError(err)
	return id
}

func (suite *ApplicationServiceTestSuite) toKYCCompleted(email string) string {
	id := suite.submit(email)
	suite.Require().True(suite.service.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.Require().True(suite.service.CompleteKYC(suite.ctx, id, "notes"))
	return id
}

// --- Test Cases ---

func (suite *ApplicationServiceTestSuite) TestCreateApplication_Success() {
	id := suite.submit("Asha@Example.com ")

	app := suite.service.GetApplication(suite.ctx, id)
	suite.Require().NotNil(app)
	suite.Equal(domain.StatusDocumentsSubmitted, app.Status)
	suite.Equal(domain.KYCPending, app.KYCStatus)
	suite.True(app.Balance.IsZero())
	suite.False(app.CanPerformOperations)
	suite.Equal(suite.clock.Now(), app.SubmittedDate)

	customer := suite.service.FindCustomer(suite.ctx, "asha@example.com")
	suite.Require().NotNil(customer)
	suite.Equal(id, customer.ApplicationID)
	suite.Equal(domain.RoleCustomer, customer.Role)
	suite.NotEmpty(customer.PasswordHash)
	suite.NotEqual("secret1", customer.PasswordHash)

	history, err := suite.events.ListByApplication(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	suite.Equal(domain.EventApplicationSubmitted, history[0].Kind)
	suite.Nil(history[0].Before)
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_MissingRequiredFields() {
	tests := map[string]func(d *domain.ApplicationDraft){
		"first name":   func(d *domain.ApplicationDraft) { d.PersonalInfo.FirstName = "" },
		"last name":    func(d *domain.ApplicationDraft) { d.PersonalInfo.LastName = "" },
		"email":        func(d *domain.ApplicationDraft) { d.ContactInfo.Email = "" },
		"phone":        func(d *domain.ApplicationDraft) { d.ContactInfo.Phone = "" },
		"account type": func(d *domain.ApplicationDraft) { d.AccountInfo.AccountType = "" },
	}
	for name, mutate := range tests {
		suite.Run(name, func() {
			draft := validDraft("x@example.com")
			mutate(&draft)

			id, err := suite.service.CreateApplication(suite.ctx, draft)

			suite.Empty(id)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.Empty(suite.service.ListAll(suite.ctx))
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_SameEmailRepointsIdentity() {
	first := suite.submit("dup@example.com")
	second := suite.submit("dup@example.com")

	suite.NotEqual(first, second)
	suite.Len(suite.service.ListAll(suite.ctx), 2)
	suite.Equal(second, suite.service.GetApplicationByEmail(suite.ctx, "dup@example.com").ID)
}

func (suite *ApplicationServiceTestSuite) TestFullApprovalScenario() {
	suite.service = services.NewApplicationService(suite.snapshots, suite.events, metrics.New(),
		append(testOptions(suite.clock), services.WithAccountNumberGenerator(func(now time.Time) string {
			return "VLTX202612345678"
		}))...)
	suite.Require().NoError(suite.service.Load(suite.ctx))

	id := suite.submit("asha@example.com")
	suite.True(suite.service.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.True(suite.service.CompleteKYC(suite.ctx, id, "notes"))
	suite.Equal(domain.StatusKYCCompleted, suite.service.GetApplication(suite.ctx, id).Status)

	suite.True(suite.service.ApproveApplication(suite.ctx, id, "MNG001", "ok"))

	app := suite.service.GetApplication(suite.ctx, id)
	suite.Equal(domain.StatusApproved, app.Status)
	suite.Equal("VLTX202612345678", app.AccountNumber)
	suite.True(app.Balance.Equal(decimal.NewFromInt(5000)))
	suite.True(app.CanPerformOperations)
	suite.Equal("MNG001", app.ManagerID)
	suite.Require().NotNil(app.ApprovalDate)

	history, err := suite.events.ListByApplication(suite.ctx, id)
	suite.Require().NoError(err)
	suite.Require().Len(history, 4)
	suite.Equal("CLK001", history[2].ActorID, "completion is attributed to the assigned clerk")
	suite.Equal(domain.StatusKYCCompleted, history[3].Before.Status)
	suite.Equal(domain.StatusApproved, history[3].After.Status)
}

func (suite *ApplicationServiceTestSuite) TestDefaultAccountNumberFormat() {
	id := suite.toKYCCompleted("fmt@example.com")
	suite.Require().True(suite.service.ApproveApplication(suite.ctx, id, "MNG001", "ok"))

	suite.Regexp(`^VLTX\d{4}\d{8}$`, suite.service.GetApplication(suite.ctx, id).AccountNumber)
}

func (suite *ApplicationServiceTestSuite) TestStartVideoKYC_AtMostOnce() {
	id := suite.submit("a@example.com")

	suite.True(suite.service.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.False(suite.service.StartVideoKYC(suite.ctx, id, "CLK002"))

	suite.Equal("CLK001", suite.service.GetApplication(suite.ctx, id).ClerkID)
}

func (suite *ApplicationServiceTestSuite) TestStartVideoKYC_ConcurrentClaims() {
	id := suite.submit("race@example.com")

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.service.StartVideoKYC(suite.ctx, id, "CLK001")
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	suite.Equal(1, wins)
}

func (suite *ApplicationServiceTestSuite) TestApprove_IssuesAccountNumberOnce() {
	id := suite.toKYCCompleted("once@example.com")
	suite.Require().True(suite.service.ApproveApplication(suite.ctx, id, "MNG001", "ok"))
	number := suite.service.GetApplication(suite.ctx, id).AccountNumber

	suite.clock.Advance(time.Hour)
	suite.False(suite.service.ApproveApplication(suite.ctx, id, "MNG002", "again"))

	app := suite.service.GetApplication(suite.ctx, id)
	suite.Equal(number, app.AccountNumber)
	suite.Equal("MNG001", app.ManagerID)
}

func (suite *ApplicationServiceTestSuite) TestReject_FromDocumentsSubmittedRefused() {
	id := suite.submit("early@example.com")
	before := suite.service.GetApplication(suite.ctx, id)

	suite.False(suite.service.RejectApplication(suite.ctx, id, "MNG001", "no"))

	suite.Equal(before, suite.service.GetApplication(suite.ctx, id))
}

func (suite *ApplicationServiceTestSuite) TestReject_IsTerminal() {
	id := suite.toKYCCompleted("rej@example.com")
	suite.Require().True(suite.service.RejectApplication(suite.ctx, id, "MNG001", "blurry documents"))

	suite.False(suite.service.ApproveApplication(suite.ctx, id, "MNG001", "ok"))
	suite.False(suite.service.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.False(suite.service.UpdateBalance(suite.ctx, id, decimal.NewFromInt(1)))

	app := suite.service.GetApplication(suite.ctx, id)
	suite.Equal(domain.StatusRejected, app.Status)
	suite.Equal(domain.KYCCompleted, app.KYCStatus)
	suite.Equal("blurry documents", app.ManagerNotes)
	suite.Empty(app.AccountNumber)
}

func (suite *ApplicationServiceTestSuite) TestUpdateBalance_Gate() {
	id := suite.submit("bal@example.com")
	for _, amount := range []int64{0, 1, -5, 1000000} {
		suite.False(suite.service.UpdateBalance(suite.ctx, id, decimal.NewFromInt(amount)))
	}

	suite.Require().True(suite.service.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.Require().True(suite.service.CompleteKYC(suite.ctx, id, "n"))
	suite.Require().True(suite.service.ApproveApplication(suite.ctx, id, "MNG001", "ok"))

	for _, amount := range []int64{0, 1, -5, 1000000} {
		suite.True(suite.service.UpdateBalance(suite.ctx, id, decimal.NewFromInt(amount)))
	}
	suite.True(suite.service.GetApplication(suite.ctx, id).Balance.Equal(decimal.NewFromInt(1000000)))
}

func (suite *ApplicationServiceTestSuite) TestUnknownApplication() {
	suite.False(suite.service.StartVideoKYC(suite.ctx, "missing", "CLK001"))
	suite.Nil(suite.service.GetApplication(suite.ctx, "missing"))
	suite.Nil(suite.service.GetApplicationByEmail(suite.ctx, "nobody@example.com"))
}

func (suite *ApplicationServiceTestSuite) TestQueriesReturnCopies() {
	id := suite.submit("copy@example.com")

	app := suite.service.GetApplication(suite.ctx, id)
	app.Status = domain.StatusApproved
	app.AccountNumber = "tampered"

	fresh := suite.service.GetApplication(suite.ctx, id)
	suite.Equal(domain.StatusDocumentsSubmitted, fresh.Status)
	suite.Empty(fresh.AccountNumber)
}

func (suite *ApplicationServiceTestSuite) TestListApplications_Filter() {
	a := suite.submit("one@example.com")
	suite.clock.Advance(time.Minute)
	b := suite.submit("two@example.com")
	suite.Require().True(suite.service.StartVideoKYC(suite.ctx, b, "CLK007"))

	pending := suite.service.ListApplications(suite.ctx, domain.ApplicationFilter{Status: domain.StatusDocumentsSubmitted})
	suite.Require().Len(pending, 1)
	suite.Equal(a, pending[0].ID)

	mine := suite.service.ListApplications(suite.ctx, domain.ApplicationFilter{ClerkID: "CLK007"})
	suite.Require().Len(mine, 1)
	suite.Equal(b, mine[0].ID)

	all := suite.service.ListAll(suite.ctx)
	suite.Require().Len(all, 2)
	suite.Equal(a, all[0].ID)
}

func (suite *ApplicationServiceTestSuite) TestStateSurvivesReload() {
	id := suite.toKYCCompleted("persist@example.com")

	reloaded := suite.newRegistry()

	app := reloaded.GetApplication(suite.ctx, id)
	suite.Require().NotNil(app)
	suite.Equal(domain.StatusKYCCompleted, app.Status)
	suite.Equal("notes", app.ClerkNotes)
	suite.Equal(id, reloaded.GetApplicationByEmail(suite.ctx, "persist@example.com").ID)
}

func (suite *ApplicationServiceTestSuite) TestStaleWriterLoses() {
	id := suite.submit("stale@example.com")
	other := suite.newRegistry()

	suite.True(suite.service.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.False(other.StartVideoKYC(suite.ctx, id, "CLK002"), "second writer read a stale version")

	// after the conflict the loser has reloaded and sees the winner's claim
	app := other.GetApplication(suite.ctx, id)
	suite.Equal(domain.StatusKYCInProgress, app.Status)
	suite.Equal("CLK001", app.ClerkID)
	suite.True(other.CompleteKYC(suite.ctx, id, "done"))
}

func (suite *ApplicationServiceTestSuite) TestPersistenceFailureLeavesStateUnchanged() {
	repo := new(MockSnapshotRepository)
	repo.On("Load", suite.ctx, portsrepo.KeyApplicationsAndUsers).Return(nil, apperrors.ErrNotFound).Once()
	repo.On("Save", suite.ctx, portsrepo.KeyApplicationsAndUsers, mock.Anything, int64(0)).Return(int64(1), nil).Once()
	repo.On("Save", suite.ctx, portsrepo.KeyApplicationsAndUsers, mock.Anything, int64(1)).Return(int64(0), errors.New("disk full")).Once()

	svc := services.NewApplicationService(repo, memory.NewEventStore(), metrics.New(), testOptions(suite.clock)...)
	suite.Require().NoError(svc.Load(suite.ctx))
	id, err := svc.CreateApplication(suite.ctx, validDraft("fail@example.com"))
	suite.Require().NoError(err)

	suite.False(svc.StartVideoKYC(suite.ctx, id, "CLK001"))

	app := svc.GetApplication(suite.ctx, id)
	suite.Equal(domain.StatusDocumentsSubmitted, app.Status)
	suite.Empty(app.ClerkID)
	repo.AssertExpectations(suite.T())
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication_PersistenceFailure() {
	repo := new(MockSnapshotRepository)
	repo.On("Load", suite.ctx, portsrepo.KeyApplicationsAndUsers).Return(nil, apperrors.ErrNotFound).Once()
	repo.On("Save", suite.ctx, portsrepo.KeyApplicationsAndUsers, mock.Anything, int64(0)).Return(int64(0), errors.New("unavailable")).Once()

	svc := services.NewApplicationService(repo, memory.NewEventStore(), metrics.New(), testOptions(suite.clock)...)
	suite.Require().NoError(svc.Load(suite.ctx))

	id, err := svc.CreateApplication(suite.ctx, validDraft("down@example.com"))

	suite.Error(err)
	suite.Empty(id)
	suite.Empty(svc.ListAll(suite.ctx))
	suite.Nil(svc.FindCustomer(suite.ctx, "down@example.com"))
}

func (suite *ApplicationServiceTestSuite) TestEventWrittenWithSnapshotWhenStoreSupportsIt() {
	repo := new(MockTxSnapshotRepository)
	events := memory.NewEventStore()
	var written []domain.ApplicationEvent
	repo.On("Load", suite.ctx, portsrepo.KeyApplicationsAndUsers).Return(nil, apperrors.ErrNotFound)
	repo.On("SaveWithEvents", suite.ctx, portsrepo.KeyApplicationsAndUsers, mock.Anything, int64(0), mock.Anything).
		Run(func(args mock.Arguments) {
			written = append(written, args.Get(4).([]domain.ApplicationEvent)...)
		}).
		Return(int64(1), nil).Once()
	repo.On("SaveWithEvents", suite.ctx, portsrepo.KeyApplicationsAndUsers, mock.Anything, int64(1), mock.Anything).
		Return(int64(0), apperrors.ErrConflict).Once()

	svc := services.NewApplicationService(repo, events, metrics.New(), testOptions(suite.clock)...)
	suite.Require().NoError(svc.Load(suite.ctx))
	id, err := svc.CreateApplication(suite.ctx, validDraft("tx@example.com"))
	suite.Require().NoError(err)

	suite.Require().Len(written, 1)
	suite.Equal(id, written[0].ApplicationID)
	suite.Equal(domain.EventApplicationSubmitted, written[0].Kind)

	// a rejected snapshot carries its event down with it
	suite.False(svc.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.Len(written, 1)

	recent, err := events.ListRecent(suite.ctx, 0)
	suite.Require().NoError(err)
	suite.Empty(recent, "events must not also go through the standalone writer")
	repo.AssertNotCalled(suite.T(), "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(suite.T())
}

func TestApplicationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
