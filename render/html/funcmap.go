package html

import (
	"fmt"
	"html/template"
	"time"

	"github.com/sonnes/bellhop/core"
	"github.com/sonnes/bellhop/metrics"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatClock":    formatClock,
		"formatNumber":   core.FormatNumber,
		"formatSeconds":  formatSeconds,
		"formatDuration": formatRecordDuration,
		"relativeTime":   core.RelativeTime,
		"categoryClass":  categoryClass,
		"ratingClass":    ratingClass,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

func formatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.2fs", s)
}

func formatRecordDuration(d metrics.Duration) string {
	return core.FormatDuration(time.Duration(d.Milliseconds) * time.Millisecond)
}

func categoryClass(c metrics.Category) string {
	switch c {
	case metrics.CategoryBooking:
		return "bg-emerald-100 text-emerald-800 dark:bg-emerald-900 dark:text-emerald-200"
	case metrics.CategorySupport:
		return "bg-amber-100 text-amber-800 dark:bg-amber-900 dark:text-amber-200"
	case metrics.CategoryPayment:
		return "bg-violet-100 text-violet-800 dark:bg-violet-900 dark:text-violet-200"
	case metrics.CategoryCancellation:
		return "bg-red-100 text-red-800 dark:bg-red-900 dark:text-red-200"
	case metrics.CategoryInformation:
		return "bg-blue-100 text-blue-800 dark:bg-blue-900 dark:text-blue-200"
	default:
		return "bg-slate-100 text-slate-700 dark:bg-slate-800 dark:text-slate-300"
	}
}

func ratingClass(rating string) string {
	switch rating {
	case metrics.RatingExcellent:
		return "text-emerald-600 dark:text-emerald-400"
	case metrics.RatingGood:
		return "text-blue-600 dark:text-blue-400"
	case metrics.RatingFair:
		return "text-amber-600 dark:text-amber-400"
	default:
		return "text-red-600 dark:text-red-400"
	}
}
