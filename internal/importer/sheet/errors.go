package sheet

import (
	"fmt"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
)

var (
	ErrUnknownLayout = apperr.Invalid("file", "no line-item header found: expected Descrição/Quantidade/Valor unitário or Description/Quantity/Unit price")
	ErrNoItems       = apperr.Invalid("file", "no line items found")
)

// RowError reports a malformed data row. It matches apperr.ErrValidation.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *RowError) Is(target error) bool {
	return target == apperr.ErrValidation
}
