package selections

import "time"

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockselections github.com/KirkDiggler/shinobi-codex/internal/repositories/selections TimeProvider

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}
