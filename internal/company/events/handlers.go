package events

import (
	"context"
	"fmt"

	"github.com/gartstein/companyd/internal/company/domain"
	"go.uber.org/zap"
)

// NewCreatedLogger returns the handler that records company creations.
func NewCreatedLogger(logger *zap.Logger) Handler {
	log := logger.Named("company_created_handler")
	return HandlerFunc("company_created_logger", func(_ context.Context, event domain.Event) error {
		ev, ok := event.(domain.CompanyCreated)
		if !ok {
			return fmt.Errorf("unexpected event type %T", event)
		}
		log.Info("Company created",
			zap.String("company_id", ev.CompanyID.String()),
			zap.String("company_name", ev.CompanyName),
			zap.String("country_id", ev.CountryID.String()),
		)
		return nil
	})
}

// NewUpdatedLogger returns the handler that records company updates.
func NewUpdatedLogger(logger *zap.Logger) Handler {
	log := logger.Named("company_updated_handler")
	return HandlerFunc("company_updated_logger", func(_ context.Context, event domain.Event) error {
		ev, ok := event.(domain.CompanyUpdated)
		if !ok {
			return fmt.Errorf("unexpected event type %T", event)
		}
		log.Info("Company updated",
			zap.String("company_id", ev.CompanyID.String()),
			zap.String("company_name", ev.CompanyName),
			zap.String("country_id", ev.CountryID.String()),
		)
		return nil
	})
}
