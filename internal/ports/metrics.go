package ports

import "github.com/bnema/pairline/internal/domain"

type JoinResult string

const (
	JoinAccepted  JoinResult = "accepted"
	JoinDuplicate JoinResult = "duplicate"
	JoinInvalid   JoinResult = "invalid"
	JoinRejected  JoinResult = "rejected"
)

type Metrics interface {
	Join(result JoinResult)
	SessionCreated()
	SessionCompleted(reason domain.CompletionReason)
	SessionsSwept(n int)
	Population(connected, waiting, sessions int)
}

type NoopMetrics struct{}

func (NoopMetrics) Join(JoinResult) {}

func (NoopMetrics) SessionCreated() {}

func (NoopMetrics) SessionCompleted(domain.CompletionReason) {}

func (NoopMetrics) SessionsSwept(int) {}

func (NoopMetrics) Population(int, int, int) {}
