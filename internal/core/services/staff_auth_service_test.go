package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/adapters/storage/memory"
	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/SscSPs/vaultix_backend/internal/core/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/stretchr/testify/suite"
)

type StaffAuthServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *testClock
	codes     int
	employees *services.EmployeeService
	otp       *services.OTPService
	auth      *services.StaffAuthService
}

func (suite *StaffAuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.clock = newTestClock()
	suite.codes = 0

	opts := append(testOptions(suite.clock),
		services.WithOTPTTL(5*time.Minute),
		services.WithOTPGenerator(func() (string, error) {
			suite.codes++
			return fmt.Sprintf("%06d", 100000+suite.codes), nil
		}))

	m := metrics.New()
	suite.employees = services.NewEmployeeService(memory.NewSnapshotStore(), opts...)
	suite.Require().NoError(suite.employees.Load(suite.ctx))
	suite.Require().NoError(suite.employees.SeedDefaults(suite.ctx, "demo123"))
	suite.otp = services.NewOTPService(suite.employees, memory.NewOTPStore(), m, opts...)
	suite.auth = services.NewStaffAuthService(suite.employees, suite.otp, m, opts...)
}

func (suite *StaffAuthServiceTestSuite) requestOTP(id string, role domain.EmployeeRole) string {
	result, issue := suite.auth.RequestOTP(suite.ctx, id, "demo123", role)
	suite.Require().True(result.Success, result.Message)
	suite.Require().NotNil(issue)
	return issue.Code
}

func (suite *StaffAuthServiceTestSuite) TestGenerateOTP_SixDigitsWithDeadline() {
	svc := services.NewOTPService(suite.employees, memory.NewOTPStore(), metrics.New(), testOptions(suite.clock)...)

	code, expiresAt, err := svc.GenerateOTP(suite.ctx, "CLK001")

	suite.Require().NoError(err)
	suite.Regexp(`^\d{6}$`, code)
	suite.Equal(suite.clock.Now().Add(5*time.Minute), expiresAt)
}

func (suite *StaffAuthServiceTestSuite) TestGenerateOTP_UnknownOrInactive() {
	_, _, err := suite.otp.GenerateOTP(suite.ctx, "NOPE")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.Require().NoError(suite.employees.DeactivateEmployee(suite.ctx, "CLK001"))
	_, _, err = suite.otp.GenerateOTP(suite.ctx, "CLK001")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *StaffAuthServiceTestSuite) TestVerifyLogin_Success() {
	code := suite.requestOTP("MNG001", domain.RoleManager)

	result := suite.auth.VerifyLogin(suite.ctx, "MNG001", "demo123", domain.RoleManager, code)

	suite.True(result.Success)
	suite.Equal("/manager-dashboard", result.Redirect)
	suite.Require().NotNil(result.Employee)
	suite.Require().NotNil(result.Employee.LastLogin)

	emp, err := suite.employees.GetEmployee(suite.ctx, "MNG001")
	suite.Require().NoError(err)
	suite.Require().NotNil(emp.LastLogin)
	suite.Equal(suite.clock.Now(), *emp.LastLogin)
}

func (suite *StaffAuthServiceTestSuite) TestVerifyLogin_OTPSingleUse() {
	code := suite.requestOTP("CLK001", domain.RoleClerk)
	suite.Require().True(suite.auth.VerifyLogin(suite.ctx, "CLK001", "demo123", domain.RoleClerk, code).Success)

	second := suite.auth.VerifyLogin(suite.ctx, "CLK001", "demo123", domain.RoleClerk, code)

	suite.False(second.Success)
	suite.Equal(domain.LoginFailureOTPExpired, second.Failure)
}

func (suite *StaffAuthServiceTestSuite) TestVerifyLogin_CheckOrder() {
	code := suite.requestOTP("CLK001", domain.RoleClerk)

	tests := []struct {
		name     string
		id       string
		password string
		role     domain.EmployeeRole
		otp      string
		want     domain.LoginFailure
	}{
		{"unknown employee", "NOPE", "demo123", domain.RoleClerk, code, domain.LoginFailureUnknownEmployee},
		{"bad password", "CLK001", "wrong", domain.RoleClerk, code, domain.LoginFailureBadPassword},
		{"bad password wins over role", "CLK001", "wrong", domain.RoleAdmin, "000000", domain.LoginFailureBadPassword},
		{"role mismatch", "CLK001", "demo123", domain.RoleManager, code, domain.LoginFailureRoleMismatch},
		{"otp mismatch", "CLK001", "demo123", domain.RoleClerk, "000000", domain.LoginFailureOTPMismatch},
		{"no otp requested", "ADM001", "demo123", domain.RoleAdmin, code, domain.LoginFailureOTPMissing},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result := suite.auth.VerifyLogin(suite.ctx, tt.id, tt.password, tt.role, tt.otp)
			suite.False(result.Success)
			suite.Equal(tt.want, result.Failure)
			suite.NotEmpty(result.Message)
		})
	}

	// none of the failures consumed the challenge
	suite.True(suite.auth.VerifyLogin(suite.ctx, "CLK001", "demo123", domain.RoleClerk, code).Success)
}

func (suite *StaffAuthServiceTestSuite) TestVerifyLogin_InactiveBeforePassword() {
	code := suite.requestOTP("CLK001", domain.RoleClerk)
	suite.Require().NoError(suite.employees.DeactivateEmployee(suite.ctx, "CLK001"))

	result := suite.auth.VerifyLogin(suite.ctx, "CLK001", "wrong", domain.RoleClerk, code)

	suite.Equal(domain.LoginFailureInactive, result.Failure)
}

func (suite *StaffAuthServiceTestSuite) TestVerifyLogin_Expired() {
	code := suite.requestOTP("CLK001", domain.RoleClerk)
	suite.clock.Advance(5 * time.Minute)

	result := suite.auth.VerifyLogin(suite.ctx, "CLK001", "demo123", domain.RoleClerk, code)

	suite.False(result.Success)
	suite.Equal(domain.LoginFailureOTPExpired, result.Failure)
}

func (suite *StaffAuthServiceTestSuite) TestRequestOTP_ReplacesPreviousChallenge() {
	first := suite.requestOTP("CLK001", domain.RoleClerk)
	second := suite.requestOTP("CLK001", domain.RoleClerk)
	suite.NotEqual(first, second)

	suite.Equal(domain.LoginFailureOTPMismatch,
		suite.auth.VerifyLogin(suite.ctx, "CLK001", "demo123", domain.RoleClerk, first).Failure)
	suite.True(suite.auth.VerifyLogin(suite.ctx, "CLK001", "demo123", domain.RoleClerk, second).Success)
}

func (suite *StaffAuthServiceTestSuite) TestRequestOTP_RefusedCredentialsIssueNothing() {
	result, issue := suite.auth.RequestOTP(suite.ctx, "CLK001", "wrong", domain.RoleClerk)

	suite.False(result.Success)
	suite.Nil(issue)
	suite.Equal(0, suite.codes)
}

func TestStaffAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StaffAuthServiceTestSuite))
}
