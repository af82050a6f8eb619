package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/repository"
)

// mapRepoError converts repository sentinels into API errors. notFound is
// the resource-specific error for a missing or foreign row.
func mapRepoError(err error, notFound *apperrors.AppError) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrInvalidReference):
		return apperrors.Wrap(apperrors.ErrInvalidReference, err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// rejectNulls returns INVALID_INPUT naming every field sent as an explicit
// null that the column cannot hold.
func rejectNulls(nulls map[string]bool) error {
	fields := map[string]string{}
	for name, isNull := range nulls {
		if isNull {
			fields[name] = "must not be null"
		}
	}
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return apperrors.WithFields(apperrors.ErrInvalidInput, "null is not allowed for: "+strings.Join(names, ", "), fields)
}

// money rounds an amount to cents.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// formatMoney renders an amount with exactly two fractional digits.
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
