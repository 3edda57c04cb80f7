package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_code_requests_total",
			Help: "Total number of verification code requests.",
		},
		[]string{"channel", "result"},
	)

	CodeVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_code_verifications_total",
			Help: "Total number of verification code checks.",
		},
		[]string{"result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of completed logins by flow.",
		},
		[]string{"flow", "result"},
	)

	SocialActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_actions_total",
			Help: "Total number of social graph and content toggles.",
		},
		[]string{"action"},
	)
)

// MustRegister installs all collectors on the default registry.
func MustRegister() {
	prometheus.MustRegister(
		CodeRequestsTotal,
		CodeVerificationsTotal,
		LoginsTotal,
		SocialActionsTotal,
	)
}
