package constants

// Backing tables for the reportable collections. One table per data source;
// the reporting layer never writes to any of them.
const (
	TableContacts         = "contacts"
	TableCompanies        = "companies"
	TableDeals            = "deals"
	TableSites            = "sites"
	TableCustomers        = "customers"
	TableContracts        = "contracts"
	TableContractPayments = "contract_payments"

	// System tables owned by this service.
	TableNotification = "user_notifications"
)
