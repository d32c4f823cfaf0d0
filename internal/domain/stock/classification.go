package stock

import "time"

// Classification labels a stock item by its expiration proximity
type Classification string

const (
	ClassificationExpired           Classification = "EXPIRED"
	ClassificationCritical          Classification = "CRITICAL"
	ClassificationNearExpiry        Classification = "NEAR_EXPIRY"
	ClassificationNormal            Classification = "NORMAL"
	ClassificationExtendedShelfLife Classification = "EXTENDED_SHELF_LIFE"
)

// Classification window boundaries, in days until expiration
const (
	CriticalWindowDays    = 7
	NearExpiryWindowDays  = 30
	ExtendedShelfLifeDays = 365
)

// Classify derives the classification for an expiration date relative to
// "today". It is a pure function: no expiration date means NORMAL, otherwise
// the whole-day distance between the two dates selects the window.
func Classify(expirationDate *time.Time, today time.Time) Classification {
	if expirationDate == nil {
		return ClassificationNormal
	}

	days := DaysUntil(*expirationDate, today)
	switch {
	case days < 0:
		return ClassificationExpired
	case days <= CriticalWindowDays:
		return ClassificationCritical
	case days <= NearExpiryWindowDays:
		return ClassificationNearExpiry
	case days > ExtendedShelfLifeDays:
		return ClassificationExtendedShelfLife
	default:
		return ClassificationNormal
	}
}

// DaysUntil returns the number of whole days from today until the given
// date, comparing calendar dates and ignoring the time of day. The result
// is negative when the date lies in the past.
func DaysUntil(date, today time.Time) int {
	d := truncateToDay(date)
	t := truncateToDay(today)
	return int(d.Sub(t).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsValidClassification reports whether the value is a known classification
func IsValidClassification(c Classification) bool {
	switch c {
	case ClassificationExpired, ClassificationCritical, ClassificationNearExpiry,
		ClassificationNormal, ClassificationExtendedShelfLife:
		return true
	default:
		return false
	}
}

// AlertThreshold returns the expiring-alert threshold (in days) associated
// with a classification, or 0 when the classification carries no alert.
func AlertThreshold(c Classification) int {
	switch c {
	case ClassificationCritical:
		return CriticalWindowDays
	case ClassificationNearExpiry:
		return NearExpiryWindowDays
	default:
		return 0
	}
}
