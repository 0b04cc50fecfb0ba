package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/calebgardner/runway/internal/model"
)

// isoDate is the key format for occurrence skip sets.
const isoDate = "2006-01-02"

// NextOccurrence advances a date by exactly one period of the given
// frequency. Unrecognized frequencies are a programming error and fail fast.
func NextOccurrence(date time.Time, freq model.RecurrenceFrequency) (time.Time, error) {
	date = NormalizeDate(date)
	switch freq {
	case model.FrequencyDaily:
		return date.AddDate(0, 0, 1), nil
	case model.FrequencyWeekly:
		return date.AddDate(0, 0, 7), nil
	case model.FrequencyBiweekly:
		return date.AddDate(0, 0, 14), nil
	case model.FrequencyMonthly:
		return addMonthClamped(date), nil
	case model.FrequencyYearly:
		return addYearClamped(date), nil
	default:
		return time.Time{}, fmt.Errorf("unrecognized recurrence frequency %q", freq)
	}
}

// ExpandOptions bounds a recurrence expansion. ExistingDates holds ISO dates
// (2006-01-02) of occurrences already materialized for this template; those
// dates are skipped so re-expansion never duplicates saved events.
type ExpandOptions struct {
	ExistingDates map[string]bool
	StartDate     time.Time
	EndDate       time.Time
}

// GenerateOccurrences produces every occurrence of one template within
// [StartDate, EndDate] inclusive, capped by the template's own end date.
// Anchors far in the past are fast-forwarded without materializing the
// skipped history. The template itself is never mutated.
func GenerateOccurrences(tmpl model.Event, opts ExpandOptions) ([]model.Event, error) {
	if !tmpl.IsTemplate() {
		return nil, fmt.Errorf("event %q is not a recurring template", tmpl.ID)
	}

	start := NormalizeDate(opts.StartDate)
	end := NormalizeDate(opts.EndDate)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s",
			end.Format(isoDate), start.Format(isoDate))
	}
	if tmpl.RecurrenceEndDate != nil {
		if recEnd := NormalizeDate(*tmpl.RecurrenceEndDate); recEnd.Before(end) {
			end = recEnd
		}
	}

	current := NormalizeDate(tmpl.Date)
	for current.Before(start) {
		next, err := NextOccurrence(current, tmpl.RecurrenceFrequency)
		if err != nil {
			return nil, err
		}
		current = next
	}

	var occurrences []model.Event
	for !current.After(end) {
		if !opts.ExistingDates[current.Format(isoDate)] {
			occurrences = append(occurrences, occurrenceFromTemplate(tmpl, current))
		}
		next, err := NextOccurrence(current, tmpl.RecurrenceFrequency)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return occurrences, nil
}

// occurrenceFromTemplate copies the template's financial fields onto a dated
// PLANNED occurrence carrying a back-reference to the template.
func occurrenceFromTemplate(tmpl model.Event, date time.Time) model.Event {
	return model.Event{
		Date:        date,
		Description: tmpl.Description,
		AccountID:   tmpl.AccountID,
		TemplateID:  tmpl.ID,
		Type:        tmpl.Type,
		CostType:    tmpl.CostType,
		Status:      model.StatusPlanned,
		Priority:    tmpl.Priority,
		Amount:      tmpl.Amount,
	}
}

// GenerateFromTemplates expands every template over the same range and merges
// the results sorted ascending by date. Ties keep the templates' input order.
// ExistingByTemplate maps template id → ISO-date skip set.
func GenerateFromTemplates(templates []model.Event, start, end time.Time, existingByTemplate map[string]map[string]bool) ([]model.Event, error) {
	type indexed struct {
		event model.Event
		order int
	}

	var all []indexed
	for i, tmpl := range templates {
		occurrences, err := GenerateOccurrences(tmpl, ExpandOptions{
			StartDate:     start,
			EndDate:       end,
			ExistingDates: existingByTemplate[tmpl.ID],
		})
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", tmpl.ID, err)
		}
		for _, occ := range occurrences {
			all = append(all, indexed{event: occ, order: i})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].event.Date.Equal(all[j].event.Date) {
			return all[i].event.Date.Before(all[j].event.Date)
		}
		return all[i].order < all[j].order
	})

	merged := make([]model.Event, len(all))
	for i, occ := range all {
		merged[i] = occ.event
	}
	return merged, nil
}
