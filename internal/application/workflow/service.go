// Package workflow holds the approval-triggered side effects. Each trigger
// writes all of its records in one transaction or none of them.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/finance"
	"github.com/erp-obras/backend/internal/domain/procurement"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message returned when paying a measurement changes nothing
const MeasurementNotPayableMessage = "Measurement not found or already paid"

// QuotationApproval holds the records written by an approval
type QuotationApproval struct {
	Quotation    *procurement.Quotation
	Entry        *finance.FinancialEntry
	PurchaseItem *procurement.PurchaseItem
}

// MeasurementPayment is the outcome of paying a measurement. When Paid is
// false nothing was written.
type MeasurementPayment struct {
	Paid        bool
	Message     string
	Measurement *project.Measurement
	Entry       *finance.FinancialEntry
}

// Service runs the workflow triggers
type Service struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new workflow Service
func NewService(txScope TransactionScope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ApproveQuotation approves a quotation and, in the same transaction,
// creates its PENDING expense entry and its PURCHASED purchase item.
func (s *Service) ApproveQuotation(ctx context.Context, tenantID, quotationID uuid.UUID) (*QuotationApproval, error) {
	now := s.now()
	result := &QuotationApproval{}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		quotation, err := repos.QuotationRepo().FindByIDForTenant(ctx, tenantID, quotationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError("Quotation")
			}
			return err
		}
		if err := quotation.Approve(now); err != nil {
			return err
		}

		vendorID := quotation.VendorID
		entry := finance.NewQuotationExpense(tenantID, quotation.ProjectID, quotation.ID, &vendorID,
			quotation.Description, quotation.Amount, now)
		if err := repos.EntryRepo().Save(ctx, entry); err != nil {
			return err
		}

		item := procurement.NewPurchaseItemFromQuotation(quotation, now)
		if err := repos.PurchaseItemRepo().Save(ctx, item); err != nil {
			return err
		}

		if err := repos.QuotationRepo().Save(ctx, quotation); err != nil {
			return err
		}

		result.Quotation = quotation
		result.Entry = entry
		result.PurchaseItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quotation approved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("quotation_id", quotationID.String()),
		zap.String("entry_id", result.Entry.ID.String()),
		zap.String("purchase_item_id", result.PurchaseItem.ID.String()))

	event.PublishPending(ctx, s.eventPublisher, s.logger, result.Quotation, result.Entry, result.PurchaseItem)
	return result, nil
}

// PayMeasurement pays a measurement: in one transaction it creates a PAID
// expense entry and marks the measurement PAID with a reference to it.
// A missing or already paid measurement yields Paid=false and no writes.
func (s *Service) PayMeasurement(ctx context.Context, tenantID, measurementID uuid.UUID) (*MeasurementPayment, error) {
	now := s.now()
	result := &MeasurementPayment{Message: MeasurementNotPayableMessage}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		measurement, err := repos.MeasurementRepo().FindByIDForTenant(ctx, tenantID, measurementID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if measurement.IsPaid() {
			return nil
		}

		entry := finance.NewMeasurementExpense(tenantID, measurement.ProjectID, measurement.ID,
			measurement.Description, measurement.Amount, measurement.MeasuredAt, now)
		if err := repos.EntryRepo().Save(ctx, entry); err != nil {
			return err
		}
		if err := measurement.MarkPaid(entry.ID, now); err != nil {
			return err
		}
		if err := repos.MeasurementRepo().Save(ctx, measurement); err != nil {
			return err
		}

		result.Paid = true
		result.Message = "Measurement paid"
		result.Measurement = measurement
		result.Entry = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Paid {
		s.logger.Debug("Measurement payment skipped",
			zap.String("tenant_id", tenantID.String()),
			zap.String("measurement_id", measurementID.String()))
		return result, nil
	}

	s.logger.Info("Measurement paid",
		zap.String("tenant_id", tenantID.String()),
		zap.String("measurement_id", measurementID.String()),
		zap.String("entry_id", result.Entry.ID.String()))

	event.PublishPending(ctx, s.eventPublisher, s.logger, result.Measurement, result.Entry)
	return result, nil
}
