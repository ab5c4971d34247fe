package domain

import (
	"net/url"
	"sort"
	"time"
)

// DateLayout is the YYYY-MM-DD form the report endpoint takes.
const DateLayout = "2006-01-02"

// ReportRange bounds /api/sites/{id}/report. The zero value lets the backend
// pick its default of the last 30 days.
type ReportRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no bounds are set.
func (r ReportRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Query encodes the range as start_date and end_date. Both are sent or
// neither, since the backend ignores a half-open range.
func (r ReportRange) Query() url.Values {
	q := url.Values{}
	if r.Start.IsZero() || r.End.IsZero() {
		return q
	}
	q.Set("start_date", r.Start.Format(DateLayout))
	q.Set("end_date", r.End.Format(DateLayout))
	return q
}

// Report is the decoded part of the comprehensive site report. The backend
// sends many more sections; only what the clients render is kept.
type Report struct {
	WebsiteName       string          `json:"website_name"`
	URL               string          `json:"url"`
	ReportGeneratedAt string          `json:"report_generated_at,omitempty"`
	DateRange         string          `json:"date_range,omitempty"`
	TotalVisitors     int             `json:"total_visitors"`
	UniqueVisitors    int             `json:"unique_visitors"`
	TotalPageviews    int             `json:"total_pageviews"`
	AvgTimeOnSiteSec  int             `json:"avg_time_spent_on_site_sec"`
	BounceRatePercent float64         `json:"bounce_rate_percent"`
	TotalPages        int             `json:"total_pages"`
	Pages             []PageStat      `json:"pages"`
	TrafficSources    []TrafficSource `json:"traffic_sources"`
	TimeSeries        TimeSeries      `json:"time_series_data"`
	Message           string          `json:"message,omitempty"`
}

// PageStat is one row of the report's page table.
type PageStat struct {
	PageTitle         string   `json:"page_title"`
	Path              string   `json:"path"`
	Views             int      `json:"views"`
	UniqueVisitors    int      `json:"unique_visitors"`
	AvgLoadTimeMs     int      `json:"avg_load_time_ms"`
	AvgTimeSpentSec   int      `json:"avg_time_spent_sec"`
	BounceRatePercent *float64 `json:"bounce_rate_percent"`
}

// TrafficSource is a referrer bucket with its share of visitors.
type TrafficSource struct {
	Source   string  `json:"source"`
	Visitors int     `json:"visitors"`
	Percent  float64 `json:"percent"`
}

// TimeSeries holds the report's trend data.
type TimeSeries struct {
	Trend []TrendPoint `json:"visitors_pageviews_trend"`
}

// TrendPoint is one bucket of the visitors and pageviews trend. Period is an
// hour, a day or a week depending on how wide the range is.
type TrendPoint struct {
	Period    string `json:"period"`
	Visitors  int    `json:"visitors"`
	Pageviews int    `json:"pageviews"`
}

// TopPages returns up to n pages ordered by views, then path. n <= 0 means all.
func (r *Report) TopPages(n int) []PageStat {
	if r == nil {
		return nil
	}
	pages := make([]PageStat, len(r.Pages))
	copy(pages, r.Pages)
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Views != pages[j].Views {
			return pages[i].Views > pages[j].Views
		}
		return pages[i].Path < pages[j].Path
	})
	if n > 0 && len(pages) > n {
		pages = pages[:n]
	}
	return pages
}

// Trend returns the trend buckets in period order.
func (r *Report) Trend() []TrendPoint {
	if r == nil {
		return nil
	}
	points := make([]TrendPoint, len(r.TimeSeries.Trend))
	copy(points, r.TimeSeries.Trend)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}
