package papertrader

import "math"

// Trend is the directional reading of a price history.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendNeutral Trend = "NEUTRAL"
)

// Signal is the categorical trading action derived from a prediction.
type Signal string

const (
	StrongBuy  Signal = "STRONG_BUY"
	Buy        Signal = "BUY"
	Hold       Signal = "HOLD"
	Sell       Signal = "SELL"
	StrongSell Signal = "STRONG_SELL"
)

// Classifier constants. The lookback caps the analysis window, momentum looks
// min(momentumSteps, n-1) observations back, and the signal bands are
// percentage deviations of the predicted price from the current price: the
// HOLD band is symmetric at ±0.5%, the strong signals start at ±10%.
const (
	lookback      = 20
	momentumSteps = 10
	holdBandPct   = 0.5
	strongPct     = 10.0
)

// relative tolerance under which two prices count as equal
const priceEps = 1e-9

// Prediction is the Trend Classifier's output for one instrument.
type Prediction struct {
	Symbol     string  `json:"symbol,omitempty"`
	Current    float64 `json:"current_price"`
	Predicted  float64 `json:"predicted_price"`
	Confidence float64 `json:"confidence"`
	Trend      Trend   `json:"trend"`
	Signal     Signal  `json:"signal"`
	Momentum   float64 `json:"momentum"`
	Volatility float64 `json:"volatility"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

// Predict estimates the next-step price for a history of closing prices
// (oldest to newest) and classifies it into a trading signal. It always
// returns a value: fewer than two data points, or a non-positive current
// price, yield the degenerate result (predicted = current, confidence 0,
// NEUTRAL/HOLD, support and resistance at ±5% of current).
//
// The predicted price blends three projections anchored at the current price:
// the least-squares trend line extended one step, the moving-average
// divergence (sma5 vs sma10) applied to current, and the tanh-squashed
// momentum applied at 2% full scale. Confidence grows with the agreement of
// the three projections and with momentum, and shrinks with volatility:
//
//	confidence = (0.6·agreement + 0.4·|momentum|) / (1 + volatility/10)
//
// clamped to [0, 1], where agreement is |sum of direction votes|/3 and
// volatility is the sample standard deviation of period returns in percent.
func Predict(history []float64, current float64) Prediction {
	if len(history) < 2 || current <= 0 {
		return degenerate(current)
	}

	window := history
	if len(window) > lookback {
		window = window[len(window)-lookback:]
	}
	n := len(window)

	sma5 := mean(tail(window, 5))
	sma10 := mean(tail(window, 10))
	sma20 := mean(tail(window, lookback))

	momentum := 0.0
	steps := min(momentumSteps, n-1)
	if past := window[n-1-steps]; past > 0 {
		momentum = math.Tanh(10 * (current - past) / past)
	}

	volatility := sampleStdDev(returns(window)) * 100
	slope := leastSquaresSlope(window)

	slopeProj := window[n-1] + slope
	maProj := current
	if sma10 > 0 {
		maProj = current * (1 + (sma5-sma10)/sma10)
	}
	momProj := current * (1 + 0.02*momentum)

	predicted := 0.4*slopeProj + 0.3*maProj + 0.3*momProj
	if predicted < 0.01 {
		predicted = 0.01
	}

	votes := directionVote(slopeProj, current) +
		directionVote(maProj, current) +
		directionVote(momProj, current)
	agreement := math.Abs(float64(votes)) / 3

	confidence := (0.6*agreement + 0.4*math.Abs(momentum)) / (1 + volatility/10)
	confidence = math.Max(0, math.Min(1, confidence))

	support, resistance := window[0], window[0]
	for _, p := range window[1:] {
		support = math.Min(support, p)
		resistance = math.Max(resistance, p)
	}

	return Prediction{
		Current:    current,
		Predicted:  predicted,
		Confidence: confidence,
		Trend:      classifyTrend(sma5, sma10, sma20),
		Signal:     classifySignal(predicted, current),
		Momentum:   momentum,
		Volatility: volatility,
		Support:    support,
		Resistance: resistance,
	}
}

func degenerate(current float64) Prediction {
	return Prediction{
		Current:    current,
		Predicted:  current,
		Confidence: 0,
		Trend:      TrendNeutral,
		Signal:     Hold,
		Support:    current * 0.95,
		Resistance: current * 1.05,
	}
}

// classifyTrend reads the stacking of the moving averages: strictly
// descending windows mean UP, strictly ascending mean DOWN.
func classifyTrend(sma5, sma10, sma20 float64) Trend {
	switch {
	case strictlyAbove(sma5, sma10) && strictlyAbove(sma10, sma20):
		return TrendUp
	case strictlyAbove(sma10, sma5) && strictlyAbove(sma20, sma10):
		return TrendDown
	}
	return TrendNeutral
}

func classifySignal(predicted, current float64) Signal {
	dev := 100 * (predicted - current) / current
	switch {
	case dev >= strongPct:
		return StrongBuy
	case dev <= -strongPct:
		return StrongSell
	case dev > holdBandPct:
		return Buy
	case dev < -holdBandPct:
		return Sell
	}
	return Hold
}

// directionVote is -1, 0 or +1 for a projection relative to current, with
// sub-tolerance differences counting as flat.
func directionVote(proj, current float64) int {
	diff := proj - current
	if math.Abs(diff) <= priceEps*math.Max(1, math.Abs(current)) {
		return 0
	}
	if diff > 0 {
		return 1
	}
	return -1
}

func strictlyAbove(a, b float64) bool {
	return a-b > priceEps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func tail(prices []float64, k int) []float64 {
	if len(prices) <= k {
		return prices
	}
	return prices[len(prices)-k:]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// returns computes period-over-period relative changes, skipping divisions
// by zero.
func returns(prices []float64) []float64 {
	rs := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		rs = append(rs, (prices[i]-prices[i-1])/prices[i-1])
	}
	return rs
}

// sampleStdDev is the n-1 denominator standard deviation; fewer than two
// observations yield 0.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// leastSquaresSlope fits price = a + b·index over the window and returns b.
func leastSquaresSlope(prices []float64) float64 {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}
