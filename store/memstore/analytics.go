package memstore

import (
	"context"
	"sort"

	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/store"
)

const dayLayout = "2006-01-02"

type analyticsRepo struct{ db *DB }

func sortedDaily(byDay map[string]*models.DailyAmount) []models.DailyAmount {
	out := make([]models.DailyAmount, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func addDaily(byDay map[string]*models.DailyAmount, day string, amount float64) {
	d, ok := byDay[day]
	if !ok {
		d = &models.DailyAmount{Date: day}
		byDay[day] = d
	}
	d.Amount += amount
	d.Count++
}

func (r *analyticsRepo) RevenueByDay(ctx context.Context, rng store.DateRange) ([]models.DailyAmount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	byDay := make(map[string]*models.DailyAmount)
	for _, b := range r.db.bookings {
		if b.PaymentStatus != models.PaymentPaid || !rng.Contains(b.CreatedAt) {
			continue
		}
		addDaily(byDay, b.CreatedAt.UTC().Format(dayLayout), b.FinalAmount)
	}
	return sortedDaily(byDay), nil
}

func (r *analyticsRepo) BookingsByStatus(ctx context.Context, rng store.DateRange) ([]models.StatusCount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	byStatus := make(map[string]*models.StatusCount)
	for _, b := range r.db.bookings {
		if !rng.Contains(b.BookingDate) {
			continue
		}
		s, ok := byStatus[string(b.Status)]
		if !ok {
			s = &models.StatusCount{Status: string(b.Status)}
			byStatus[string(b.Status)] = s
		}
		s.Count++
		s.Amount += b.FinalAmount
	}
	out := make([]models.StatusCount, 0, len(byStatus))
	for _, s := range byStatus {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *analyticsRepo) MealTypeBreakdown(ctx context.Context, rng store.DateRange) ([]models.MealTypeStat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	byMeal := make(map[models.MealType]*models.MealTypeStat)
	for _, b := range r.db.bookings {
		if b.Status == models.BookingCancelled || !rng.Contains(b.BookingDate) {
			continue
		}
		s, ok := byMeal[b.MealType]
		if !ok {
			s = &models.MealTypeStat{MealType: string(b.MealType)}
			byMeal[b.MealType] = s
		}
		s.Bookings++
		s.Quantity += b.Quantity
		s.Revenue += b.FinalAmount
	}
	out := make([]models.MealTypeStat, 0, len(byMeal))
	for _, s := range byMeal {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out, nil
}

func (r *analyticsRepo) TopMenuItems(ctx context.Context, rng store.DateRange, limit int) ([]models.TopItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	byItem := make(map[string]*models.TopItem)
	for _, b := range r.db.bookings {
		if b.Status == models.BookingCancelled || !rng.Contains(b.BookingDate) {
			continue
		}
		key := b.MenuItem.Hex()
		t, ok := byItem[key]
		if !ok {
			t = &models.TopItem{MenuItem: key, Name: b.MenuItemName}
			byItem[key] = t
		}
		t.Quantity += b.Quantity
		t.Revenue += b.FinalAmount
	}
	out := make([]models.TopItem, 0, len(byItem))
	for _, t := range byItem {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *analyticsRepo) UserGrowth(ctx context.Context, rng store.DateRange) ([]models.DailyAmount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	byDay := make(map[string]*models.DailyAmount)
	for _, u := range r.db.users {
		if !rng.Contains(u.CreatedAt) {
			continue
		}
		addDaily(byDay, u.CreatedAt.UTC().Format(dayLayout), 0)
	}
	return sortedDaily(byDay), nil
}

func (r *analyticsRepo) FeedbackSummary(ctx context.Context, rng store.DateRange) (models.FeedbackSummary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sum := models.FeedbackSummary{ByRating: map[int]int{}, ByCategory: map[string]int{}}
	var total int
	for _, fb := range r.db.feedback {
		if !rng.Contains(fb.CreatedAt) {
			continue
		}
		sum.Count++
		total += fb.Rating
		sum.ByRating[fb.Rating]++
		sum.ByCategory[fb.Category]++
	}
	if sum.Count > 0 {
		sum.AverageRating = float64(total) / float64(sum.Count)
	}
	return sum, nil
}

func (r *analyticsRepo) TopUpsByDay(ctx context.Context, rng store.DateRange) ([]models.DailyAmount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	byDay := make(map[string]*models.DailyAmount)
	for _, p := range r.db.payments {
		if p.Status != models.PaymentPaid || !rng.Contains(p.CreatedAt) {
			continue
		}
		addDaily(byDay, p.CreatedAt.UTC().Format(dayLayout), p.Amount)
	}
	return sortedDaily(byDay), nil
}
