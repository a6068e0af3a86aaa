package congregation

import (
	"context"

	"church-admin-go/internal/domain/agecalc"
)

// DashboardStats returns the aggregate counts behind the admin dashboard,
// served from the TTL cache when fresh.
func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	if stats, ok := s.cache.Get(s.now()); ok {
		return stats, nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}

	s.cache.Set(stats, s.now().Add(s.statsTTL))
	return stats, nil
}

// Reminders lists believers whose birthday or wedding anniversary falls
// within the next days, year wrap included.
func (s *Service) Reminders(ctx context.Context, days int) ([]Reminder, error) {
	if days < 0 {
		return nil, invalidField("days", "must not be negative")
	}

	believers, _, err := s.repo.ListBelievers(ctx, BelieverFilter{Page: 1, Limit: maxReminderScan})
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	reminders := make([]Reminder, 0)
	for _, b := range believers {
		if agecalc.RecurringWithinDays(b.DateOfBirth, days, now) {
			reminders = append(reminders, Reminder{
				BelieverID: b.ID,
				Name:       b.Name,
				Kind:       ReminderBirthday,
				Date:       b.DateOfBirth,
			})
		}
		if b.WeddingDate != nil && agecalc.RecurringWithinDays(*b.WeddingDate, days, now) {
			reminders = append(reminders, Reminder{
				BelieverID: b.ID,
				Name:       b.Name,
				Kind:       ReminderAnniversary,
				Date:       *b.WeddingDate,
			})
		}
	}
	return reminders, nil
}

const maxReminderScan = 5000
