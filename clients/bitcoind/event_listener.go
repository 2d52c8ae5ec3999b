package bitcoind

import "time"

type EventListener interface {
	OnRequest(method string, id any)
	OnResponse(method string, status int, took time.Duration)
}

type SelectiveListener struct {
	OnRequestCb  func(method string, id any)
	OnResponseCb func(method string, status int, took time.Duration)
}

func (l *SelectiveListener) OnRequest(method string, id any) {
	if l.OnRequestCb != nil {
		l.OnRequestCb(method, id)
	}
}

func (l *SelectiveListener) OnResponse(method string, status int, took time.Duration) {
	if l.OnResponseCb != nil {
		l.OnResponseCb(method, status, took)
	}
}
