package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters incremented on the write paths.
var (
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_scans_total",
		Help: "Presence toggles recorded.",
	})
	ActivitiesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_activities_total",
		Help: "Activity records inserted.",
	})
	ActivityConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_activity_conflicts_total",
		Help: "Duplicate activity submissions rejected.",
	})
	ImportedParticipantsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkin_imported_participants_total",
		Help: "Participants registered through CSV import.",
	})
)

// Gauges refreshed by the stats worker from the roster projection.
var (
	ParticipantsOutside = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "checkin_participants_outside",
		Help: "Participants whose latest toggle marks them outside.",
	})
	ParticipantsNeverScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "checkin_participants_never_scanned",
		Help: "Registered participants with no toggle history.",
	})
)
