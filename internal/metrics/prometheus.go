package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	LoginSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hospital_api_logins_success_total",
		Help: "Total number of successful logins.",
	})
	LoginFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hospital_api_logins_failure_total",
		Help: "Total number of rejected logins.",
	})
	TokenRefreshSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hospital_api_token_refresh_success_total",
		Help: "Total number of successful token refreshes.",
	})
	TokenRefreshFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hospital_api_token_refresh_failure_total",
		Help: "Total number of rejected token refreshes.",
	})
	RevokedRefreshRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hospital_api_revoked_refresh_rejected_total",
		Help: "Refresh attempts rejected because the token was on the deny list.",
	})
	AuditWriteFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hospital_api_session_audit_write_failures_total",
		Help: "Session audit writes that failed and were absorbed.",
	})
)

// Register registers the authentication metrics with the given registerer.
// It should be called once at application startup.
func Register(reg prometheus.Registerer) {
	collectors := []prometheus.Collector{
		LoginSuccessTotal,
		LoginFailureTotal,
		TokenRefreshSuccessTotal,
		TokenRefreshFailureTotal,
		RevokedRefreshRejectedTotal,
		AuditWriteFailureTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msg("Failed to register metric")
		}
	}
}
