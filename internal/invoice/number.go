package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
)

const numberPrefix = "NF"

// NextNumber is the number suggested for the next invoice. It is not
// reserved: two callers can receive the same value, and the loser of the
// insert gets apperr.ErrDuplicateInvoiceNumber.
type NextNumber struct {
	Number        int
	InvoiceNumber string
}

func FormatNumber(n int) string {
	return fmt.Sprintf("%s-%06d", numberPrefix, n)
}

// NextNumber derives the successor of the most recently created invoice's
// number. When that number has no parseable fragment after the first "-",
// the sequence restarts at 1 and a warning is logged.
func (s *Service) NextNumber(ctx context.Context) (*NextNumber, error) {
	last, err := s.repo.LatestInvoice(ctx)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("getting latest invoice: %w", err)
	}

	next := 1

	if last != nil && last.Number != "" {
		n, ok := sequenceOf(last.Number)
		if ok {
			next = n + 1
		} else {
			slog.Warn("invoice number not parseable, restarting sequence at 1",
				"last_invoice_number", last.Number,
				"last_invoice_id", last.ID.Hex(),
			)
		}
	}

	return &NextNumber{Number: next, InvoiceNumber: FormatNumber(next)}, nil
}

func sequenceOf(number string) (int, bool) {
	parts := strings.Split(number, "-")
	if len(parts) < 2 || parts[1] == "" {
		return 0, false
	}

	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	return n, true
}
