package reports

import "time"

// Filter: dashboard'un sembolik tarih aralıkları.
type Filter string

const (
	FilterDaily   Filter = "daily"
	FilterWeekly  Filter = "weekly"
	FilterMonthly Filter = "monthly"
	FilterYearly  Filter = "yearly"
	FilterAllTime Filter = "all-time"
)

// Range: çözülmüş somut zaman aralığı. Bounded false ise filtre uygulanmaz
// (all-time).
type Range struct {
	Start   time.Time
	End     time.Time
	Bounded bool
}

// Resolve: sembolik filtreyi now'a göre somut aralığa çevirir.
//   daily   -> bugün 00:00 .. now
//   weekly  -> en son Pazar 00:00 .. now (hafta Pazar başlar)
//   monthly -> ayın 1'i 00:00 .. now
//   yearly  -> 1 Ocak 00:00 .. now
// Tanınmayan değerler all-time sayılır.
func Resolve(f Filter, now time.Time) Range {
	loc := now.Location()

	switch f {
	case FilterDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return Range{Start: start, End: now, Bounded: true}

	case FilterWeekly:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		start := day.AddDate(0, 0, -int(now.Weekday())) // Pazar = 0
		return Range{Start: start, End: now, Bounded: true}

	case FilterMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: now, Bounded: true}

	case FilterYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: now, Bounded: true}

	default:
		return Range{}
	}
}
