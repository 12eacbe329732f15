package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(loginsTotal, registrationsTotal, redemptionsTotal, sessionsCleaned) }

// Result labels shared by the counters below.
const (
	ResultSuccess          = "success"
	ResultInvalid          = "invalid"
	ResultConflict         = "conflict"
	ResultAlreadyActivated = "already_activated"
	ResultError            = "error"
)

var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registration attempts by result.",
		},
		[]string{"result"},
	)

	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_redemptions_total",
			Help: "Activation code redemptions by result.",
		},
		[]string{"result"},
	)

	sessionsCleaned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_sessions_cleaned_total",
			Help: "Expired or revoked sessions deleted by the janitor.",
		},
	)
)

func IncLogin(result string)        { loginsTotal.WithLabelValues(result).Inc() }
func IncRegistration(result string) { registrationsTotal.WithLabelValues(result).Inc() }
func IncRedemption(result string)   { redemptionsTotal.WithLabelValues(result).Inc() }

func AddSessionsCleaned(n int64) {
	if n > 0 {
		sessionsCleaned.Add(float64(n))
	}
}
