package services

import (
	"context"
	"sync"
	"time"

	"github.com/UmangSachdeva/MessMate/metrics"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultWindow is the dashboard range when the caller gives none.
const DefaultWindow = 30 * 24 * time.Hour

type AnalyticsService struct {
	analytics store.AnalyticsRepository
	log       *logrus.Entry
	now       Clock
}

func NewAnalyticsService(analytics store.AnalyticsRepository, log *logrus.Entry, now Clock) *AnalyticsService {
	return &AnalyticsService{
		analytics: analytics,
		log:       log.WithField("component", "analytics"),
		now:       clockOrNow(now),
	}
}

type Dashboard struct {
	From          time.Time              `json:"from"`
	To            time.Time              `json:"to"`
	TotalRevenue  float64                `json:"totalRevenue"`
	TotalBookings int                    `json:"totalBookings"`
	Revenue       []models.DailyAmount   `json:"revenue"`
	TopUps        []models.DailyAmount   `json:"topUps"`
	Bookings      []models.StatusCount   `json:"bookingsByStatus"`
	MealTypes     []models.MealTypeStat  `json:"mealTypes"`
	TopItems      []models.TopItem       `json:"topItems"`
	UserGrowth    []models.DailyAmount   `json:"userGrowth"`
	Attendance    models.AttendanceStat  `json:"attendance"`
	Feedback      models.FeedbackSummary `json:"feedback"`
	// Degraded names the sections that failed and are reported empty.
	Degraded []string `json:"degraded"`
}

type BookingStats struct {
	ByStatus  []models.StatusCount  `json:"byStatus"`
	MealTypes []models.MealTypeStat `json:"mealTypes"`
	TopItems  []models.TopItem      `json:"topItems"`
}

// Range fills open ends: To defaults to now and From to DefaultWindow
// before To.
func (s *AnalyticsService) Range(r store.DateRange) store.DateRange {
	if r.To.IsZero() {
		r.To = s.now()
	}
	if r.From.IsZero() {
		r.From = r.To.Add(-DefaultWindow)
	}
	return r
}

// Dashboard runs every aggregation concurrently and waits for all of them.
// A failing section is logged, left at its zero value and listed in
// Degraded; the dashboard itself only fails when ctx is done.
func (s *AnalyticsService) Dashboard(ctx context.Context, r store.DateRange) (*Dashboard, error) {
	r = s.Range(r)
	d := &Dashboard{
		From:       r.From,
		To:         r.To,
		Revenue:    []models.DailyAmount{},
		TopUps:     []models.DailyAmount{},
		Bookings:   []models.StatusCount{},
		MealTypes:  []models.MealTypeStat{},
		TopItems:   []models.TopItem{},
		UserGrowth: []models.DailyAmount{},
		Feedback:   models.FeedbackSummary{ByRating: map[int]int{}, ByCategory: map[string]int{}},
		Degraded:   []string{},
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	section := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				mu.Lock()
				d.Degraded = append(d.Degraded, name)
				mu.Unlock()
				metrics.DashboardDegraded.WithLabelValues(name).Inc()
				s.log.WithError(err).WithField("section", name).Warn("Dashboard section failed")
			}
			return nil
		})
	}

	section("revenue", func() error {
		rows, err := s.analytics.RevenueByDay(ctx, r)
		if err == nil {
			d.Revenue = rows
		}
		return err
	})
	section("topUps", func() error {
		rows, err := s.analytics.TopUpsByDay(ctx, r)
		if err == nil {
			d.TopUps = rows
		}
		return err
	})
	section("bookings", func() error {
		rows, err := s.analytics.BookingsByStatus(ctx, r)
		if err == nil {
			d.Bookings = rows
		}
		return err
	})
	section("mealTypes", func() error {
		rows, err := s.analytics.MealTypeBreakdown(ctx, r)
		if err == nil {
			d.MealTypes = rows
		}
		return err
	})
	section("topItems", func() error {
		rows, err := s.analytics.TopMenuItems(ctx, r, 5)
		if err == nil {
			d.TopItems = rows
		}
		return err
	})
	section("userGrowth", func() error {
		rows, err := s.analytics.UserGrowth(ctx, r)
		if err == nil {
			d.UserGrowth = rows
		}
		return err
	})
	section("feedback", func() error {
		summary, err := s.analytics.FeedbackSummary(ctx, r)
		if err == nil {
			d.Feedback = summary
		}
		return err
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, day := range d.Revenue {
		d.TotalRevenue += day.Amount
	}
	for _, st := range d.Bookings {
		d.TotalBookings += st.Count
	}
	d.Attendance = Attendance(d.Bookings)
	return d, nil
}

func (s *AnalyticsService) Revenue(ctx context.Context, r store.DateRange) ([]models.DailyAmount, error) {
	return s.analytics.RevenueByDay(ctx, s.Range(r))
}

func (s *AnalyticsService) Bookings(ctx context.Context, r store.DateRange) (*BookingStats, error) {
	r = s.Range(r)
	var (
		g     errgroup.Group
		stats BookingStats
	)
	g.Go(func() (err error) {
		stats.ByStatus, err = s.analytics.BookingsByStatus(ctx, r)
		return err
	})
	g.Go(func() (err error) {
		stats.MealTypes, err = s.analytics.MealTypeBreakdown(ctx, r)
		return err
	})
	g.Go(func() (err error) {
		stats.TopItems, err = s.analytics.TopMenuItems(ctx, r, 10)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AnalyticsService) Users(ctx context.Context, r store.DateRange) ([]models.DailyAmount, error) {
	return s.analytics.UserGrowth(ctx, s.Range(r))
}

func (s *AnalyticsService) Attendance(ctx context.Context, r store.DateRange) (models.AttendanceStat, error) {
	rows, err := s.analytics.BookingsByStatus(ctx, s.Range(r))
	if err != nil {
		return models.AttendanceStat{}, err
	}
	return Attendance(rows), nil
}

func (s *AnalyticsService) Feedback(ctx context.Context, r store.DateRange) (models.FeedbackSummary, error) {
	return s.analytics.FeedbackSummary(ctx, s.Range(r))
}

// Attendance derives pickup figures from booking counts: served and
// completed bookings were attended, no-shows were not. Rate is attended
// over attended plus no-shows.
func Attendance(rows []models.StatusCount) models.AttendanceStat {
	var a models.AttendanceStat
	for _, row := range rows {
		switch models.BookingStatus(row.Status) {
		case models.BookingServed, models.BookingCompleted:
			a.Served += row.Count
		case models.BookingNoShow:
			a.NoShow += row.Count
		case models.BookingCancelled:
			a.Cancelled += row.Count
		}
		a.Total += row.Count
	}
	if decided := a.Served + a.NoShow; decided > 0 {
		a.Rate = float64(a.Served) / float64(decided) * 100
	}
	return a
}
