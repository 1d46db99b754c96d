package report

import "github.com/pulsecrm/reporting/pkg/constants"

// Source identifies a reportable collection. The set is closed: every
// switch over Source in this package is exhaustive, and anything outside
// the set is rejected at the validation boundary instead of falling back
// to stringly-typed lookups.
type Source string

const (
	SourceContacts         Source = "contacts"
	SourceCompanies        Source = "companies"
	SourceDeals            Source = "deals"
	SourceSites            Source = "sites"
	SourceCustomers        Source = "customers"
	SourceContracts        Source = "contracts"
	SourceContractPayments Source = "contract_payments"
)

// Field is one selectable column of a source: API identifier plus the
// label shown in the builder UI.
type Field struct {
	APIName string `json:"api_name"`
	Label   string `json:"label"`
}

// AllSources lists every supported source in display order.
func AllSources() []Source {
	return []Source{
		SourceContacts,
		SourceCompanies,
		SourceDeals,
		SourceSites,
		SourceCustomers,
		SourceContracts,
		SourceContractPayments,
	}
}

// Valid reports whether s is one of the supported sources.
func (s Source) Valid() bool {
	switch s {
	case SourceContacts, SourceCompanies, SourceDeals, SourceSites,
		SourceCustomers, SourceContracts, SourceContractPayments:
		return true
	}
	return false
}

// Label returns the human-readable name of the source.
func (s Source) Label() string {
	switch s {
	case SourceContacts:
		return "Contacts"
	case SourceCompanies:
		return "Companies"
	case SourceDeals:
		return "Deals"
	case SourceSites:
		return "Sites"
	case SourceCustomers:
		return "Customers"
	case SourceContracts:
		return "Contracts"
	case SourceContractPayments:
		return "Contract Payments"
	}
	return string(s)
}

// Table returns the backing table for the source.
func (s Source) Table() string {
	switch s {
	case SourceContacts:
		return constants.TableContacts
	case SourceCompanies:
		return constants.TableCompanies
	case SourceDeals:
		return constants.TableDeals
	case SourceSites:
		return constants.TableSites
	case SourceCustomers:
		return constants.TableCustomers
	case SourceContracts:
		return constants.TableContracts
	case SourceContractPayments:
		return constants.TableContractPayments
	}
	return ""
}

// Catalog returns the ordered field catalog for the source. The catalog
// is static; it is the single authority on which identifiers the builder
// may offer and the executor may query.
func (s Source) Catalog() []Field {
	switch s {
	case SourceContacts:
		return []Field{
			{APIName: "name", Label: "Name"},
			{APIName: "email", Label: "Email"},
			{APIName: "phone", Label: "Phone"},
			{APIName: "company_name", Label: "Company"},
			{APIName: "status", Label: "Status"},
			{APIName: "created_date", Label: "Created"},
		}
	case SourceCompanies:
		return []Field{
			{APIName: "name", Label: "Name"},
			{APIName: "industry", Label: "Industry"},
			{APIName: "website", Label: "Website"},
			{APIName: "city", Label: "City"},
			{APIName: "status", Label: "Status"},
			{APIName: "created_date", Label: "Created"},
		}
	case SourceDeals:
		return []Field{
			{APIName: "name", Label: "Name"},
			{APIName: "value", Label: "Value"},
			{APIName: "stage", Label: "Stage"},
			{APIName: "status", Label: "Status"},
			{APIName: "probability", Label: "Probability"},
			{APIName: "close_date", Label: "Close Date"},
			{APIName: "created_date", Label: "Created"},
		}
	case SourceSites:
		return []Field{
			{APIName: "name", Label: "Name"},
			{APIName: "address", Label: "Address"},
			{APIName: "city", Label: "City"},
			{APIName: "status", Label: "Status"},
			{APIName: "created_date", Label: "Created"},
		}
	case SourceCustomers:
		return []Field{
			{APIName: "name", Label: "Name"},
			{APIName: "email", Label: "Email"},
			{APIName: "customer_type", Label: "Type"},
			{APIName: "status", Label: "Status"},
			{APIName: "created_date", Label: "Created"},
		}
	case SourceContracts:
		return []Field{
			{APIName: "name", Label: "Name"},
			{APIName: "value", Label: "Value"},
			{APIName: "status", Label: "Status"},
			{APIName: "start_date", Label: "Start Date"},
			{APIName: "end_date", Label: "End Date"},
			{APIName: "created_date", Label: "Created"},
		}
	case SourceContractPayments:
		return []Field{
			{APIName: "name", Label: "Reference"},
			{APIName: "amount", Label: "Amount"},
			{APIName: "status", Label: "Status"},
			{APIName: "due_date", Label: "Due Date"},
			{APIName: "paid_at", Label: "Paid At"},
			{APIName: "created_date", Label: "Created"},
		}
	}
	return nil
}

// Has reports whether fieldID belongs to the source's catalog.
func (s Source) Has(fieldID string) bool {
	for _, f := range s.Catalog() {
		if f.APIName == fieldID {
			return true
		}
	}
	return false
}

// FieldLabel resolves the display label for a field identifier, falling
// back to the identifier itself for unknown fields.
func (s Source) FieldLabel(fieldID string) string {
	for _, f := range s.Catalog() {
		if f.APIName == fieldID {
			return f.Label
		}
	}
	return fieldID
}
