package services

// ServiceContainer bundles all service implementations for injection into the
// HTTP layer.
type ServiceContainer struct {
	Transaction TransactionSvc
	Account     AccountSvc
}
