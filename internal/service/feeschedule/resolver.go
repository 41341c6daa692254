// Package feeschedule resolves the fee amounts applied to a chalan and administers the stored
// class and standard schedules.
package feeschedule

import (
	"context"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"
)

// ResolveSchedule picks the first present schedule (class, then standard) and fills every unset
// field from the hard defaults. A configured zero is kept.
func ResolveSchedule(class, standard *models.FeeSchedule) (models.ResolvedFeeSchedule, models.FeeSource) {
	chosen, source := class, models.FeeSourceClass
	if chosen == nil {
		chosen, source = standard, models.FeeSourceStandard
	}
	if chosen == nil {
		chosen, source = &models.FeeSchedule{}, models.FeeSourceDefault
	}

	resolved := models.ResolvedFeeSchedule{
		MonthlyTuition:       orDefault(chosen.MonthlyTuition, consts.DefaultMonthlyTuition),
		ExaminationFee:       orDefault(chosen.ExaminationFee, consts.DefaultExaminationFee),
		LibraryFee:           orDefault(chosen.LibraryFee, consts.DefaultLibraryFee),
		SportsFee:            orDefault(chosen.SportsFee, consts.DefaultSportsFee),
		TransportFee:         orDefault(chosen.TransportFee, consts.DefaultTransportFee),
		OtherFees:            orDefault(chosen.OtherFees, consts.DefaultOtherFees),
		OtherFeesDescription: chosen.OtherFeesDescription,
		FinePercentage:       orDefault(chosen.FinePercentage, consts.DefaultFinePercentage),
		Discount:             orDefault(chosen.Discount, consts.DefaultDiscount),
	}
	if chosen.FineThresholdDay != nil {
		day := *chosen.FineThresholdDay
		resolved.FineThresholdDay = &day
	}
	return resolved, source
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Resolver loads schedules from an injected source before resolving.
type Resolver struct {
	source interfaces.FeeScheduleSource
}

func NewResolver(source interfaces.FeeScheduleSource) *Resolver {
	return &Resolver{source: source}
}

func (r *Resolver) Resolve(ctx context.Context, classID string) (models.ResolvedFeeSchedule, models.FeeSource, error) {
	class, err := r.source.ClassSchedule(ctx, classID)
	if err != nil {
		return models.ResolvedFeeSchedule{}, "", apperr.FromMongo("load class fee schedule", err)
	}

	standard, err := r.source.StandardSchedule(ctx)
	if err != nil {
		return models.ResolvedFeeSchedule{}, "", apperr.FromMongo("load standard fee schedule", err)
	}

	resolved, source := ResolveSchedule(class, standard)
	logger.CtxDebug(ctx, log_messages.FeeScheduleResolved,
		slog.String("class_id", classID),
		slog.String("fee_source", string(source)),
	)
	return resolved, source, nil
}

// ResolveStandard ignores any class schedule.
func (r *Resolver) ResolveStandard(ctx context.Context) (models.ResolvedFeeSchedule, models.FeeSource, error) {
	standard, err := r.source.StandardSchedule(ctx)
	if err != nil {
		return models.ResolvedFeeSchedule{}, "", apperr.FromMongo("load standard fee schedule", err)
	}
	resolved, source := ResolveSchedule(nil, standard)
	return resolved, source, nil
}

// Schedules returns the raw class and standard schedules, either of which may be nil.
func (r *Resolver) Schedules(ctx context.Context, classID string) (*models.FeeSchedule, *models.FeeSchedule, error) {
	class, err := r.source.ClassSchedule(ctx, classID)
	if err != nil {
		return nil, nil, apperr.FromMongo("load class fee schedule", err)
	}
	standard, err := r.source.StandardSchedule(ctx)
	if err != nil {
		return nil, nil, apperr.FromMongo("load standard fee schedule", err)
	}
	return class, standard, nil
}
