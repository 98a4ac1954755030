package services

// ServiceContainer holds all service interfaces
type ServiceContainer struct {
	Application ApplicationSvcFacade
	Identity    IdentitySvcFacade
	Employee    EmployeeSvcFacade
	OTP         OTPSvcFacade
	StaffAuth   StaffAuthSvcFacade
	Token       TokenSvcFacade
	Reporting   ReportingSvcFacade
	Operations  OperationsSvcFacade
}
