package services

import "github.com/BradenHooton/dashboard/internal/models"

// StatsService serves the headline cards on the dashboard overview
type StatsService struct {
	cards []models.StatCard
}

// DefaultStatCards are the overview figures shown until real analytics exist
func DefaultStatCards() []models.StatCard {
	return []models.StatCard{
		{Label: "Total Users", Value: 100},
		{Label: "Active Users", Value: 50},
		{Label: "Total Orders", Value: 80},
	}
}

func NewStatsService(cards []models.StatCard) *StatsService {
	return &StatsService{cards: cards}
}

// Cards returns a copy of the configured cards
func (s *StatsService) Cards() []models.StatCard {
	out := make([]models.StatCard, len(s.cards))
	copy(out, s.cards)
	return out
}
