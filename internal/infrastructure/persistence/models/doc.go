// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared columns (BaseModel, TenantModel)
//   - identity.go: companies, users
//   - partner.go: vendors, clients
//   - project.go: projects, stages, measurements, comments, weekly reports
//   - procurement.go: quotations, purchase items
//   - finance.go: financial entries, invoices
//   - activity.go: activity log
package models
