package session

import "expvar"

var (
	metricEventsTotal    = expvar.NewInt("session_events_total")
	metricEventsRejected = expvar.NewInt("session_events_rejected_total")
	metricGamesCompleted = expvar.NewInt("session_games_completed_total")

	metricStoreRetries  = expvar.NewInt("session_store_retries_total")
	metricStoreFailures = expvar.NewInt("session_store_failures_total")

	metricJanitorFolds = expvar.NewInt("session_janitor_folds_total")
)
