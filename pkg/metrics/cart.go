package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	CheckoutSuccess  = "success"
	CheckoutInvalid  = "invalid"
	CheckoutConflict = "conflict"
)

// CartMetrics counts cart mutations, checkouts and evictions.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	checkouts *prometheus.CounterVec
	evicted   prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Checkout attempts, by result.",
	}, []string{"result"})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "carts_evicted_total",
		Help: "Idle carts dropped by the sweeper.",
	})
	reg.MustRegister(mutations, checkouts, evicted)
	return &CartMetrics{
		mutations: mutations,
		checkouts: checkouts,
		evicted:   evicted,
	}
}

func (m *CartMetrics) IncMutation(op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *CartMetrics) IncCheckout(result string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *CartMetrics) AddEvicted(n int) {
	if m == nil || m.evicted == nil || n <= 0 {
		return
	}
	m.evicted.Add(float64(n))
}
