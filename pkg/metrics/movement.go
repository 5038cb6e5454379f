package metrics

import "github.com/prometheus/client_golang/prometheus"

// MovementMetrics tracks kiosk check-in/check-out traffic and live occupancy.
type MovementMetrics struct {
	checkIns  prometheus.Counter
	checkOuts prometheus.Counter
	lateOuts  prometheus.Counter
	occupancy prometheus.Gauge
}

// NewMovementMetrics registers the movement metrics on the provided registerer.
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	if reg == nil {
		return &MovementMetrics{}
	}
	checkIns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resident_check_ins_total",
		Help: "Total resident check-in events recorded.",
	})
	checkOuts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resident_check_outs_total",
		Help: "Total resident check-out events recorded.",
	})
	lateOuts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resident_late_check_ins_total",
		Help: "Check-ins flagged as past the resident's curfew.",
	})
	occupancy := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "residents_checked_in",
		Help: "Residents currently checked in.",
	})
	reg.MustRegister(checkIns, checkOuts, lateOuts, occupancy)
	return &MovementMetrics{
		checkIns:  checkIns,
		checkOuts: checkOuts,
		lateOuts:  lateOuts,
		occupancy: occupancy,
	}
}

// IncCheckIn records a check-in event, optionally flagged late.
func (m *MovementMetrics) IncCheckIn(late bool) {
	if m == nil || m.checkIns == nil {
		return
	}
	m.checkIns.Inc()
	if late {
		m.lateOuts.Inc()
	}
}

// IncCheckOut records a check-out event.
func (m *MovementMetrics) IncCheckOut() {
	if m == nil || m.checkOuts == nil {
		return
	}
	m.checkOuts.Inc()
}

// SetOccupancy reports the current number of checked-in residents.
func (m *MovementMetrics) SetOccupancy(count int) {
	if m == nil || m.occupancy == nil {
		return
	}
	m.occupancy.Set(float64(count))
}
