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
	"github.com/SscSPs/vaultix_backend/internal/core/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// CustomerServicesTestSuite covers the services layered on the registry:
// identity lookup, reporting and customer operations.
type CustomerServicesTestSuite struct {
	suite.Suite
	ctx          context.Context
	clock        *testClock
	events       *memory.EventStore
	applications *services.ApplicationService
	reporting    *services.ReportingService
	operations   *services.OperationsService
}

func (suite *CustomerServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newTestClock()
	suite.events = memory.NewEventStore()
	numbers := []string{"VLTX202600000001", "VLTX202600000002", "VLTX202600000003"}
	issued := 0
	opts := append(testOptions(suite.clock), services.WithAccountNumberGenerator(func(time.Time) string {
		issued++
		return numbers[issued-1]
	}))
	suite.applications = services.NewApplicationService(memory.NewSnapshotStore(), suite.events, metrics.New(), opts...)
	suite.Require().NoError(suite.applications.Load(suite.ctx))
	suite.reporting = services.NewReportingService(suite.applications, suite.events)
	suite.operations = services.NewOperationsService(suite.applications)
}

func (suite *CustomerServicesTestSuite) approved(email string) *domain.Application {
	id, err := suite.applications.CreateApplication(suite.ctx, validDraft(email))
	suite.Require().NoError(err)
	suite.Require().True(suite.applications.StartVideoKYC(suite.ctx, id, "CLK001"))
	suite.Require().True(suite.applications.CompleteKYC(suite.ctx, id, "ok"))
	suite.Require().True(suite.applications.ApproveApplication(suite.ctx, id, "MNG001", "ok"))
	return suite.applications.GetApplication(suite.ctx, id)
}

func (suite *CustomerServicesTestSuite) TestLogin_PlainLookupByDefault() {
	id, err := suite.applications.CreateApplication(suite.ctx, validDraft("asha@example.com"))
	suite.Require().NoError(err)
	identity := services.NewIdentityService(suite.applications, false)

	customer := identity.Login(suite.ctx, " ASHA@example.com", "anything")

	suite.Require().NotNil(customer)
	suite.Equal(id, customer.ApplicationID)
	suite.Nil(identity.Login(suite.ctx, "ghost@example.com", "secret1"))
	suite.Equal(id, identity.GetApplicationByOwner(suite.ctx, "asha@example.com").ID)
	suite.Nil(identity.GetApplicationByOwner(suite.ctx, "ghost@example.com"))
}

func (suite *CustomerServicesTestSuite) TestLogin_PasswordCheckEnabled() {
	_, err := suite.applications.CreateApplication(suite.ctx, validDraft("asha@example.com"))
	suite.Require().NoError(err)
	identity := services.NewIdentityService(suite.applications, true)

	suite.Nil(identity.Login(suite.ctx, "asha@example.com", "wrong"))
	suite.NotNil(identity.Login(suite.ctx, "asha@example.com", "secret1"))
}

func (suite *CustomerServicesTestSuite) TestSystemStats() {
	suite.approved("a@example.com")
	rejected, _ := suite.applications.CreateApplication(suite.ctx, validDraft("b@example.com"))
	suite.Require().True(suite.applications.StartVideoKYC(suite.ctx, rejected, "CLK001"))
	suite.Require().True(suite.applications.CompleteKYC(suite.ctx, rejected, "ok"))
	suite.Require().True(suite.applications.RejectApplication(suite.ctx, rejected, "MNG001", "no"))
	inProgress, _ := suite.applications.CreateApplication(suite.ctx, validDraft("c@example.com"))
	suite.Require().True(suite.applications.StartVideoKYC(suite.ctx, inProgress, "CLK001"))
	_, _ = suite.applications.CreateApplication(suite.ctx, validDraft("d@example.com"))

	stats := suite.reporting.SystemStats(suite.ctx)

	suite.Equal(4, stats.TotalApplications)
	suite.Equal(1, stats.PendingApplications)
	suite.Equal(1, stats.KYCInProgress)
	suite.Equal(0, stats.KYCCompleted)
	suite.Equal(1, stats.ApprovedApplications)
	suite.Equal(1, stats.RejectedApplications)
	suite.Equal(1, stats.ActiveCustomers)
	suite.True(stats.TotalApprovedBalance.Equal(decimal.NewFromInt(5000)))
}

func (suite *CustomerServicesTestSuite) TestAuditLogAndHistory() {
	app := suite.approved("a@example.com")

	entries, err := suite.reporting.AuditLog(suite.ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(domain.EventApplicationApproved, entries[0].Action)
	suite.Contains(entries[0].Message, "MNG001")
	suite.Contains(entries[0].Message, "VLTX202600000001")
	suite.Equal(domain.EventKYCCompleted, entries[1].Action)

	history, err := suite.reporting.ApplicationHistory(suite.ctx, app.ID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 4)
	suite.Equal(domain.EventApplicationSubmitted, history[0].Kind)

	_, err = suite.reporting.ApplicationHistory(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CustomerServicesTestSuite) TestDepositAndWithdraw() {
	suite.approved("a@example.com")

	app, err := suite.operations.Deposit(suite.ctx, "a@example.com", decimal.NewFromInt(250))
	suite.Require().NoError(err)
	suite.True(app.Balance.Equal(decimal.NewFromInt(5250)))

	app, err = suite.operations.Withdraw(suite.ctx, "a@example.com", decimal.NewFromInt(5000))
	suite.Require().NoError(err)
	suite.True(app.Balance.Equal(decimal.NewFromInt(250)))

	_, err = suite.operations.Withdraw(suite.ctx, "a@example.com", decimal.NewFromInt(251))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.operations.Deposit(suite.ctx, "a@example.com", decimal.Zero)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CustomerServicesTestSuite) TestOperationsGated() {
	_, err := suite.applications.CreateApplication(suite.ctx, validDraft("pending@example.com"))
	suite.Require().NoError(err)

	_, err = suite.operations.Deposit(suite.ctx, "pending@example.com", decimal.NewFromInt(10))
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.operations.Deposit(suite.ctx, "ghost@example.com", decimal.NewFromInt(10))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CustomerServicesTestSuite) TestTransfer() {
	from := suite.approved("a@example.com")
	to := suite.approved("b@example.com")

	updated, err := suite.operations.Transfer(suite.ctx, "a@example.com", to.AccountNumber, decimal.NewFromInt(1200))
	suite.Require().NoError(err)
	suite.True(updated.Balance.Equal(decimal.NewFromInt(3800)))
	suite.True(suite.applications.GetApplication(suite.ctx, to.ID).Balance.Equal(decimal.NewFromInt(6200)))

	_, err = suite.operations.Transfer(suite.ctx, "a@example.com", from.AccountNumber, decimal.NewFromInt(1))
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.operations.Transfer(suite.ctx, "a@example.com", "VLTX209900000000", decimal.NewFromInt(1))
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.operations.Transfer(suite.ctx, "a@example.com", to.AccountNumber, decimal.NewFromInt(100000))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CustomerServicesTestSuite) TestConcurrentDepositsAllLand() {
	app := suite.approved("busy@example.com")

	const workers = 20
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.operations.Deposit(suite.ctx, "busy@example.com", decimal.NewFromInt(10))
			suite.NoError(err)
		}()
	}
	wg.Wait()

	got := suite.applications.GetApplication(suite.ctx, app.ID).Balance
	suite.True(got.Equal(decimal.NewFromInt(5000+workers*10)), "balance %s", got)
}

func (suite *CustomerServicesTestSuite) TestWithdrawNeverOverdraws() {
	app := suite.approved("drain@example.com")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = suite.operations.Withdraw(suite.ctx, "drain@example.com", decimal.NewFromInt(1000))
		}()
	}
	wg.Wait()

	suite.True(suite.applications.GetApplication(suite.ctx, app.ID).Balance.IsZero())
}

// creditFailingRegistry refuses credits to one account. Before refusing it lets
// a deposit to the sender land, as a concurrent request would.
type creditFailingRegistry struct {
	*services.ApplicationService
	failFor     string
	interleaved func()
}

func (r *creditFailingRegistry) AdjustBalance(ctx context.Context, applicationID string, delta decimal.Decimal) (*domain.Application, error) {
	if applicationID == r.failFor && delta.IsPositive() {
		r.interleaved()
		return nil, errors.New("storage unavailable")
	}
	return r.ApplicationService.AdjustBalance(ctx, applicationID, delta)
}

func (suite *CustomerServicesTestSuite) TestTransferReversalKeepsConcurrentDeposit() {
	from := suite.approved("a@example.com")
	to := suite.approved("b@example.com")

	registry := &creditFailingRegistry{
		ApplicationService: suite.applications,
		failFor:            to.ID,
		interleaved: func() {
			_, err := suite.applications.AdjustBalance(suite.ctx, from.ID, decimal.NewFromInt(300))
			suite.Require().NoError(err)
		},
	}
	operations := services.NewOperationsService(registry)

	_, err := operations.Transfer(suite.ctx, "a@example.com", to.AccountNumber, decimal.NewFromInt(1000))
	suite.Error(err)

	// 5000 - 1000 debit + 300 concurrent deposit + 1000 reversal
	suite.True(suite.applications.GetApplication(suite.ctx, from.ID).Balance.Equal(decimal.NewFromInt(5300)))
	suite.True(suite.applications.GetApplication(suite.ctx, to.ID).Balance.Equal(decimal.NewFromInt(5000)))
}

func TestCustomerServicesTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServicesTestSuite))
}
