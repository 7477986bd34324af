package record_repo

import (
	"assettrack/internal/domain/catalogs/company"
	"assettrack/internal/domain/catalogs/contact"
	"assettrack/internal/domain/catalogs/country"
	"assettrack/internal/domain/catalogs/facility"
	"assettrack/internal/domain/catalogs/producttype"
	"assettrack/internal/domain/catalogs/window"
	"assettrack/internal/infrastructure/storage/postgres"
)

// Constructors for the plain reference catalogs. These have no
// read-side queries beyond the base store.

func NewCountryRepo(tm *postgres.TxManager) *BaseRecordRepo[*country.Country] {
	return NewBaseRecordRepo(
		"countries",
		postgres.ExtractDBColumns[country.Country](),
		func() *country.Country { return &country.Country{} },
		tm,
	)
}

func NewCompanyRepo(tm *postgres.TxManager) *BaseRecordRepo[*company.Company] {
	return NewBaseRecordRepo(
		"companies",
		postgres.ExtractDBColumns[company.Company](),
		func() *company.Company { return &company.Company{} },
		tm,
	)
}

func NewContactRepo(tm *postgres.TxManager) *BaseRecordRepo[*contact.Contact] {
	return NewBaseRecordRepo(
		"contacts",
		postgres.ExtractDBColumns[contact.Contact](),
		func() *contact.Contact { return &contact.Contact{} },
		tm,
	)
}

func NewFacilityRepo(tm *postgres.TxManager) *BaseRecordRepo[*facility.Facility] {
	return NewBaseRecordRepo(
		"facilities",
		postgres.ExtractDBColumns[facility.Facility](),
		func() *facility.Facility { return &facility.Facility{} },
		tm,
	)
}

func NewRoomRepo(tm *postgres.TxManager) *BaseRecordRepo[*facility.Room] {
	return NewBaseRecordRepo(
		"rooms",
		postgres.ExtractDBColumns[facility.Room](),
		func() *facility.Room { return &facility.Room{} },
		tm,
	)
}

func NewProductTypeRepo(tm *postgres.TxManager) *BaseRecordRepo[*producttype.ProductType] {
	return NewBaseRecordRepo(
		"product_types",
		postgres.ExtractDBColumns[producttype.ProductType](),
		func() *producttype.ProductType { return &producttype.ProductType{} },
		tm,
	)
}

func NewWindowRepo(tm *postgres.TxManager) *BaseRecordRepo[*window.MaintenanceWindow] {
	return NewBaseRecordRepo(
		"maintenance_windows",
		postgres.ExtractDBColumns[window.MaintenanceWindow](),
		func() *window.MaintenanceWindow { return &window.MaintenanceWindow{} },
		tm,
	)
}
