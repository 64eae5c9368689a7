package chatpush

import "expvar"

var (
	metricPushQueuedTotal       = expvar.NewInt("chat_push_queued_total")
	metricPushDroppedTotal      = expvar.NewInt("chat_push_dropped_total")
	metricPushRetryTotal        = expvar.NewInt("chat_push_retry_total")
	metricPushRetryDroppedTotal = expvar.NewInt("chat_push_retry_dropped_total")
	metricPushSentTotal         = expvar.NewInt("chat_push_sent_total")
	metricPushFailedTotal       = expvar.NewInt("chat_push_failed_total")
	metricPushCircuitOpenTotal  = expvar.NewInt("chat_push_circuit_open_total")
	metricPushQueueLen          = expvar.NewInt("chat_push_queue_len")
	metricPushConfigReloadTotal = expvar.NewInt("chat_push_config_reload_total")
	metricPushConfigReloadError = expvar.NewInt("chat_push_config_reload_error_total")
)
