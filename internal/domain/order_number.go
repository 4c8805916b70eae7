package domain

import (
	"fmt"
	"time"
)

// OrderDay is the yyMMdd key that scopes the order number sequence.
func OrderDay(t time.Time) string {
	return t.Format("060102")
}

func FormatOrderNumber(day string, seq int64) string {
	return fmt.Sprintf("ORD%s%04d", day, seq)
}
