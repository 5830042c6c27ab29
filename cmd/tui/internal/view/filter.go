package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

// period is a creation-date window for invoice listings.
type period int

const (
	periodAll period = iota
	periodThisMonth
	periodLastMonth
	periodLast30Days
	periodThisYear
	periodCustom
)

var periodLabels = map[period]string{
	periodAll:        "All time",
	periodThisMonth:  "This month",
	periodLastMonth:  "Last month",
	periodLast30Days: "Last 30 days",
	periodThisYear:   "This year",
	periodCustom:     "Custom range",
}

func (p period) String() string {
	return periodLabels[p]
}

// invoiceFilterFields backs the filter form used by the invoice list and the
// export screen. It outlives the form so reopening it keeps the last choice.
type invoiceFilterFields struct {
	period period
	status string
	start  string
	end    string
}

func newInvoiceFilterFields(p period) *invoiceFilterFields {
	return &invoiceFilterFields{period: p}
}

// groups returns the filter form groups. hidden, when set, hides all of them.
func (f *invoiceFilterFields) groups(hidden func() bool) []*huh.Group {
	if hidden == nil {
		hidden = func() bool { return false }
	}

	periods := make([]huh.Option[period], 0, len(periodLabels))
	for p := periodAll; p <= periodCustom; p++ {
		periods = append(periods, huh.NewOption(p.String(), p))
	}

	statuses := []huh.Option[string]{huh.NewOption("Any", "")}
	for _, s := range invoice.Statuses {
		statuses = append(statuses, huh.NewOption(string(s), string(s)))
	}

	return []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[period]().
				Title("Created").
				Options(periods...).
				Value(&f.period),
			huh.NewSelect[string]().
				Title("Status").
				Options(statuses...).
				Value(&f.status),
		).WithHideFunc(hidden),
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("YYYY-MM-DD").
				Value(&f.start).
				Validate(validDate),
			huh.NewInput().
				Title("To").
				Placeholder("YYYY-MM-DD").
				Value(&f.end).
				Validate(f.validEnd),
		).WithHideFunc(func() bool { return hidden() || f.period != periodCustom }),
	}
}

func validDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (f *invoiceFilterFields) validEnd(s string) error {
	if err := validDate(s); err != nil {
		return err
	}

	if s < f.start {
		return errors.New("must not be before the start date")
	}

	return nil
}

// Filter turns the selection into a listing filter. Dates are widened to
// whole UTC days since invoices store creation times in milliseconds.
func (f *invoiceFilterFields) Filter(now time.Time) (invoice.ListFilter, error) {
	var filter invoice.ListFilter

	if f.status != "" {
		status := invoice.Status(f.status)
		filter.Status = &status
	}

	start, end, err := f.dateRange(now)
	if err != nil {
		return invoice.ListFilter{}, err
	}

	if start.IsZero() {
		return filter, nil
	}

	startDate := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDate := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	filter.StartDate = &startDate
	filter.EndDate = &endDate

	return filter, nil
}

func (f *invoiceFilterFields) dateRange(now time.Time) (time.Time, time.Time, error) {
	switch f.period {
	case periodThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	case periodLastMonth:
		first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, -1), nil
	case periodLast30Days:
		return now.AddDate(0, 0, -29), now, nil
	case periodThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now, nil
	case periodCustom:
		start, err := time.Parse(time.DateOnly, f.start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", f.start)
		}

		end, err := time.Parse(time.DateOnly, f.end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", f.end)
		}

		if end.Before(start) {
			return time.Time{}, time.Time{}, errors.New("end date is before start date")
		}

		return start, end, nil
	}

	return time.Time{}, time.Time{}, nil
}

// String summarises the selection for headers, e.g. "This month, issued".
func (f *invoiceFilterFields) String() string {
	label := f.period.String()
	if f.period == periodCustom {
		label = f.start + " to " + f.end
	}

	if f.status == "" {
		return label + ", any status"
	}

	return label + ", " + f.status
}
