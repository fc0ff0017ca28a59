package order

import (
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// NewOrderNumber mints a human-readable order number of the form
// ORD-YYYYMMDD-XXXXXXXX. The suffix comes from a fresh UUID, so numbers are
// unique for practical purposes while staying short enough to read over the
// phone. Order numbers are immutable once assigned.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(kernel.NewUUID().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
