package httptransport

import "expvar"

var (
	metricSlackCommandsTotal     = expvar.NewInt("slack_commands_total")
	metricSlackEventsTotal       = expvar.NewInt("slack_events_total")
	metricSlackInteractionsTotal = expvar.NewInt("slack_interactions_total")
	metricSlackRejectedTotal     = expvar.NewInt("slack_signature_rejected_total")
	metricGamesOpenedTotal       = expvar.NewInt("games_opened_total")
	metricAnnounceErrorsTotal    = expvar.NewInt("slack_announce_errors_total")
)
