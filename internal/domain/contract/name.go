package contract

import (
	"strings"

	"github.com/Ontinet-com/contract/internal/types"
)

const (
	TokenPeriodStart = "#START#"
	TokenPeriodEnd   = "#END#"
)

// ResolveName replaces the period tokens in a line name with ISO dates
func ResolveName(name string, period Period) string {
	return strings.NewReplacer(
		TokenPeriodStart, types.FormatDate(period.Start),
		TokenPeriodEnd, types.FormatDate(period.End),
	).Replace(name)
}
