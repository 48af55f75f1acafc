// Package retro backdates batches of drinks the user forgot to log live.
package retro

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/internal/domain/units"
)

// maxSpanHours bounds how far back a batch may be spread.
const maxSpanHours = 24.0

// Plan validates a retro plan and assigns each drink a backdated timestamp
// spread evenly across the span. Validation is all-or-nothing: a single bad
// drink spec rejects the whole batch before any event is emitted.
//
// Drink i of k lands at now − (span − span/max(k−1,1)·i) hours, so the
// first listed drink sits at the start of the span and the last at now.
// For k == 1 the formula places the lone drink at now − span, the very
// start of the span. That is the literal behavior of the formula's i=0
// case, kept as-is rather than second-guessed.
func Plan(plan model.RetroPlan, now time.Time) ([]model.DrinkEvent, error) {
	if plan.SpanHours <= 0 || plan.SpanHours > maxSpanHours {
		return nil, fmt.Errorf("span %v hours outside (0, %v]: %w", plan.SpanHours, maxSpanHours, ErrInvalidTimeSpan)
	}
	if len(plan.Drinks) == 0 {
		return nil, fmt.Errorf("no drinks in plan: %w", units.ErrInvalidDrinkSpec)
	}

	// Convert everything first so a late failure cannot leave a partial batch.
	grams := make([]float64, len(plan.Drinks))
	for i, d := range plan.Drinks {
		g, err := units.MassOfEthanol(d.VolumeLiters, d.FractionByVolume)
		if err != nil {
			return nil, fmt.Errorf("drink %d: %w", i, err)
		}
		grams[i] = g
	}

	step := plan.SpanHours / float64(max(len(plan.Drinks)-1, 1))
	events := make([]model.DrinkEvent, len(plan.Drinks))
	for i, d := range plan.Drinks {
		hoursAgo := plan.SpanHours - step*float64(i)
		events[i] = model.DrinkEvent{
			EventID:      uuid.NewString(),
			EthanolGrams: grams[i],
			Description:  d.Description,
			OccurredAt:   now.Add(-time.Duration(hoursAgo * float64(time.Hour))),
		}
	}
	return events, nil
}
