package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса бронирования
type Metrics struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Бизнес-метрики движка бронирования
	slotChecksTotal      *prometheus.CounterVec
	bookingsCreatedTotal *prometheus.CounterVec
	bookingsRejected     *prometheus.CounterVec
	repairsTotal         *prometheus.CounterVec

	// База данных
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	return build(promauto.With(prometheus.DefaultRegisterer), serviceName)
}

// NewNop создает коллектор на изолированном registry.
// Используется, когда метрики выключены: значения пишутся, но никуда не экспонируются.
func NewNop() *Metrics {
	return build(promauto.With(prometheus.NewRegistry()), "nop")
}

func build(f promauto.Factory, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		slotChecksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_slot_checks_total",
			Help:        "Total number of per-slot feasibility checks by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		bookingsCreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of successfully created bookings",
			ConstLabels: constLabels,
		}, []string{"business_id"}),

		bookingsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_rejected_total",
			Help:        "Total number of booking attempts rejected at commit time",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		repairsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_repairs_total",
			Help:        "Total number of worker reassignments performed at commit time",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		dbQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		dbPoolOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolIdle: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolInUse: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
	}
}

// ObserveHTTPRequest записывает метрики одного HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncSlotCheck записывает результат проверки одного кандидатного слота
// outcome: "valid" | "no_eligible" | "outside_hours"
func (m *Metrics) IncSlotCheck(outcome string) {
	m.slotChecksTotal.WithLabelValues(outcome).Inc()
}

// IncBookingCreated записывает успешно созданное бронирование
func (m *Metrics) IncBookingCreated(businessID string) {
	m.bookingsCreatedTotal.WithLabelValues(businessID).Inc()
}

// IncBookingRejected записывает отклонённую попытку бронирования
func (m *Metrics) IncBookingRejected(reason string) {
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

// IncRepair записывает результат repair-прохода (outcome: "noop" | "reassigned" | "failed")
func (m *Metrics) IncRepair(outcome string) {
	m.repairsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats записывает состояние connection pool
func (m *Metrics) SetDBPoolStats(dbName string, open, idle, inUse int) {
	m.dbPoolOpen.WithLabelValues(dbName).Set(float64(open))
	m.dbPoolIdle.WithLabelValues(dbName).Set(float64(idle))
	m.dbPoolInUse.WithLabelValues(dbName).Set(float64(inUse))
}
