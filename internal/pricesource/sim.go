package pricesource

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"trade-monitorv1/internal/model"
)

// Sim is a random-walk price source for development and tests: each symbol
// starts at a deterministic base price and drifts ±1% per fetch. A rolling
// synthetic candle history backs technical snapshots.
type Sim struct {
	mu      sync.Mutex
	rng     *rand.Rand
	prices  map[string]float64
	history map[string]model.Series
}

// NewSim creates a simulated source. The same seed replays the same walk.
func NewSim(seed int64) *Sim {
	return &Sim{
		rng:     rand.New(rand.NewSource(seed)),
		prices:  make(map[string]float64),
		history: make(map[string]model.Series),
	}
}

// SetPrice pins the current price for a symbol. Test hook.
func (s *Sim) SetPrice(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}

func (s *Sim) FetchLatest(ctx context.Context, symbols []string) []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotes := make([]Quote, 0, len(symbols))
	for _, symbol := range symbols {
		price := s.step(symbol)
		quotes = append(quotes, Quote{Symbol: symbol, Price: price})
	}
	return quotes
}

func (s *Sim) FetchTechnicalSnapshot(ctx context.Context, symbol string) (*model.TechnicalSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildTechnicalSnapshot(symbol, s.history[symbol]), nil
}

// step advances the walk one bar and records the candle. Caller holds the lock.
func (s *Sim) step(symbol string) float64 {
	price, ok := s.prices[symbol]
	if !ok {
		// Deterministic-ish base in [50, 500) from the seeded rng.
		price = 50 + s.rng.Float64()*450
	}
	next := price * (1 + (s.rng.Float64()-0.5)*0.02)
	s.prices[symbol] = next

	series := s.history[symbol]
	var ts time.Time
	if len(series) == 0 {
		ts = time.Now().UTC()
	} else {
		ts = series[len(series)-1].TS.Add(time.Minute)
	}
	series = append(series, model.Candle{
		TS:     ts,
		Open:   price,
		High:   math.Max(price, next),
		Low:    math.Min(price, next),
		Close:  next,
		Volume: int64(100000 + s.rng.Intn(900000)),
	})
	if len(series) > 500 {
		series = series[len(series)-500:]
	}
	s.history[symbol] = series
	return next
}
