package indicator

import (
	"math"
	"testing"

	"trade-monitorv1/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (diff=%.6f)", label, got, want, math.Abs(got-want))
	}
}

// ────────────────────────────────────────────────────────────
// EMA
// ────────────────────────────────────────────────────────────

func TestEMA_HandCalculated_Span3(t *testing.T) {
	// alpha = 2/(3+1) = 0.5, first bar seeds itself:
	// 100
	// 0.5*102 + 0.5*100    = 101
	// 0.5*104 + 0.5*101    = 102.5
	// 0.5*103 + 0.5*102.5  = 102.75
	// 0.5*105 + 0.5*102.75 = 103.875
	prices := []float64{100, 102, 104, 103, 105}
	want := []float64{100, 101, 102.5, 102.75, 103.875}

	got := EMA(prices, 3)
	if len(got) != len(prices) {
		t.Fatalf("len=%d, want %d", len(got), len(prices))
	}
	for i := range want {
		assertClose(t, "EMA(3)", got[i], want[i], 1e-9)
	}
}

func TestEMA_Empty(t *testing.T) {
	if got := EMA(nil, 10); len(got) != 0 {
		t.Errorf("EMA(nil) len=%d, want 0", len(got))
	}
}

func TestEMA_SingleBar(t *testing.T) {
	got := EMA([]float64{42}, 20)
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("EMA single bar = %v, want [42]", got)
	}
}

// ────────────────────────────────────────────────────────────
// RSI
// ────────────────────────────────────────────────────────────

func TestRSI_WarmupIsNaN(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i%5)
	}
	rsi := RSI(prices, 14)

	for i := 0; i < 13; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("rsi[%d]=%.4f, want NaN during warm-up", i, rsi[i])
		}
	}
	for i := 13; i < len(rsi); i++ {
		if math.IsNaN(rsi[i]) {
			t.Errorf("rsi[%d] is NaN, want a value", i)
		}
	}
}

func TestRSI_HandCalculated_Period3(t *testing.T) {
	// Deltas: +0.34, -0.25. Smoothing alpha = 2/(3+1) = 0.5, seeded at the
	// first delta:
	//   avgGain[2] = 0.5*0    + 0.5*0.34 = 0.17
	//   avgLoss[2] = 0.5*0.25 + 0.5*0    = 0.125
	//   RS = 1.36, RSI = 100 - 100/2.36 = 57.627119
	prices := []float64{44.00, 44.34, 44.09}
	rsi := RSI(prices, 3)

	if !math.IsNaN(rsi[0]) || !math.IsNaN(rsi[1]) {
		t.Fatalf("warm-up bars not NaN: %v", rsi[:2])
	}
	assertClose(t, "RSI(3)", rsi[2], 57.627119, 1e-5)
}

func TestRSI_AllGainsSaturatesAt100(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	rsi := RSI(prices, 3)
	for i := 2; i < len(rsi); i++ {
		if rsi[i] != 100 {
			t.Errorf("rsi[%d]=%.4f, want 100 on a pure uptrend", i, rsi[i])
		}
	}
}

func TestRSI_StaysInRange(t *testing.T) {
	prices := []float64{50, 52, 49, 51, 48, 53, 47, 55, 54, 56, 50, 52, 58, 57, 59, 60, 55, 61}
	rsi := RSI(prices, 14)
	for i, v := range rsi {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Errorf("rsi[%d]=%.4f outside [0,100]", i, v)
		}
	}
}

func TestRSI_TooShort(t *testing.T) {
	for _, prices := range [][]float64{nil, {100}} {
		rsi := RSI(prices, 14)
		for i, v := range rsi {
			if !math.IsNaN(v) {
				t.Errorf("len=%d rsi[%d]=%v, want NaN", len(prices), i, v)
			}
		}
	}
}

// ────────────────────────────────────────────────────────────
// MACD
// ────────────────────────────────────────────────────────────

func TestMACD_BarForBarIdentities(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/5)
	}

	line, sig, hist := MACD(prices, 12, 26, 9)
	emaFast := EMA(prices, 12)
	emaSlow := EMA(prices, 26)
	wantSig := EMA(line, 9)

	for i := range prices {
		assertClose(t, "line", line[i], emaFast[i]-emaSlow[i], 1e-9)
		assertClose(t, "signal", sig[i], wantSig[i], 1e-9)
		assertClose(t, "histogram", hist[i], line[i]-sig[i], 1e-9)
	}
}

func TestMACD_ConstantPricesAreZero(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 250
	}
	line, sig, hist := MACD(prices, 12, 26, 9)
	for i := range prices {
		assertClose(t, "line", line[i], 0, 1e-9)
		assertClose(t, "signal", sig[i], 0, 1e-9)
		assertClose(t, "histogram", hist[i], 0, 1e-9)
	}
}

// ────────────────────────────────────────────────────────────
// Snapshot
// ────────────────────────────────────────────────────────────

func TestCompute_EmptySeries(t *testing.T) {
	snap := Compute(nil)
	if snap.HasRSI() {
		t.Error("empty series should have NaN RSI")
	}
	for label, v := range map[string]float64{
		"macd_line": snap.MACDLine, "macd_signal": snap.MACDSignal,
		"histogram": snap.MACDHistogram, "ema20": snap.EMA20, "ema50": snap.EMA50,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s=%v, want NaN", label, v)
		}
	}
}

func TestCompute_LongSeries(t *testing.T) {
	series := make(model.Series, 60)
	for i := range series {
		series[i] = model.Candle{Close: 100 + float64(i)}
	}
	snap := Compute(series)

	if !snap.HasRSI() {
		t.Fatal("expected RSI after 60 bars")
	}
	// Pure uptrend saturates RSI and keeps the fast EMA above the slow.
	assertClose(t, "RSI", snap.RSI, 100, 1e-9)
	if snap.EMA20 <= snap.EMA50 {
		t.Errorf("EMA20=%.4f should exceed EMA50=%.4f on an uptrend", snap.EMA20, snap.EMA50)
	}
	if snap.MACDLine <= 0 {
		t.Errorf("MACD line %.4f should be positive on an uptrend", snap.MACDLine)
	}
}
