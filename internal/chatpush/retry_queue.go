package chatpush

import "time"

type retryQueue struct {
	dispatch func(pushJob) bool
	done     <-chan struct{}
}

func newRetryQueue(dispatch func(pushJob) bool, done <-chan struct{}) *retryQueue {
	return &retryQueue{dispatch: dispatch, done: done}
}

func (q *retryQueue) Enqueue(job pushJob, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		select {
		case <-q.done:
			return
		default:
		}
		if !q.dispatch(job) {
			metricPushDroppedTotal.Add(1)
		}
	})
}
