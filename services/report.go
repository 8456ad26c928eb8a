package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/UmangSachdeva/MessMate/store"
	"github.com/sirupsen/logrus"
)

// Report is a flat table that renders as JSON or CSV.
type Report struct {
	Name        string              `json:"name"`
	GeneratedAt time.Time           `json:"generatedAt"`
	From        time.Time           `json:"from"`
	To          time.Time           `json:"to"`
	Columns     []string            `json:"columns"`
	Rows        []map[string]string `json:"rows"`
	Totals      map[string]float64  `json:"totals"`
}

// WriteCSV writes the header row followed by one line per row.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	line := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, col := range r.Columns {
			line[i] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Report) Filename() string {
	return fmt.Sprintf("%s-report-%s.csv", r.Name, r.GeneratedAt.Format("20060102"))
}

type ReportService struct {
	bookings  store.BookingRepository
	analytics *AnalyticsService
	log       *logrus.Entry
	now       Clock
}

func NewReportService(bookings store.BookingRepository, analytics *AnalyticsService, log *logrus.Entry, now Clock) *ReportService {
	return &ReportService{
		bookings:  bookings,
		analytics: analytics,
		log:       log.WithField("component", "reports"),
		now:       clockOrNow(now),
	}
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Bookings lists every booking whose meal date falls in the range.
func (s *ReportService) Bookings(ctx context.Context, filter store.BookingFilter) (*Report, error) {
	filter.Range = s.analytics.Range(filter.Range)
	rows, _, err := s.bookings.List(ctx, filter, store.Page{})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:        "bookings",
		GeneratedAt: s.now(),
		From:        filter.Range.From,
		To:          filter.Range.To,
		Columns:     []string{"bookingId", "user", "menuItem", "mealType", "bookingDate", "quantity", "finalAmount", "status", "paymentStatus", "createdAt"},
		Rows:        make([]map[string]string, 0, len(rows)),
		Totals:      map[string]float64{},
	}
	for _, b := range rows {
		report.Rows = append(report.Rows, map[string]string{
			"bookingId":     b.BookingID,
			"user":          b.User.Hex(),
			"menuItem":      b.MenuItemName,
			"mealType":      string(b.MealType),
			"bookingDate":   b.BookingDate.Format(dateLayout),
			"quantity":      strconv.Itoa(b.Quantity),
			"finalAmount":   money(b.FinalAmount),
			"status":        string(b.Status),
			"paymentStatus": string(b.PaymentStatus),
			"createdAt":     b.CreatedAt.Format(time.RFC3339),
		})
		report.Totals["bookings"]++
		report.Totals["quantity"] += float64(b.Quantity)
		report.Totals["amount"] += b.FinalAmount
	}
	return report, nil
}

// Revenue lists paid booking revenue per day.
func (s *ReportService) Revenue(ctx context.Context, r store.DateRange) (*Report, error) {
	r = s.analytics.Range(r)
	days, err := s.analytics.Revenue(ctx, r)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:        "revenue",
		GeneratedAt: s.now(),
		From:        r.From,
		To:          r.To,
		Columns:     []string{"date", "bookings", "revenue"},
		Rows:        make([]map[string]string, 0, len(days)),
		Totals:      map[string]float64{},
	}
	for _, d := range days {
		report.Rows = append(report.Rows, map[string]string{
			"date":     d.Date,
			"bookings": strconv.Itoa(d.Count),
			"revenue":  money(d.Amount),
		})
		report.Totals["bookings"] += float64(d.Count)
		report.Totals["revenue"] += d.Amount
	}
	return report, nil
}
