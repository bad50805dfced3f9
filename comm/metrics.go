package comm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the communicator metrics. It is separate from the
// Prometheus default registry so that embedding programs opt in explicitly.
var Registry = prometheus.NewRegistry()

var (
	// messagesTotal counts point-to-point messages by the operation that issued them.
	messagesTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "lvdist_comm_messages_total",
		Help: "Messages posted to rank mailboxes, by issuing operation",
	}, []string{"op"})

	// elementsTotal counts payload elements by issuing operation.
	elementsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "lvdist_comm_elements_total",
		Help: "Payload elements posted to rank mailboxes, by issuing operation",
	}, []string{"op"})

	abortsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "lvdist_comm_aborts_total",
		Help: "Worlds aborted because a rank failed or the context was canceled",
	})
)

// Operation labels.
const (
	opSend      = "send"
	opBcast     = "broadcast"
	opAllReduce = "allreduce"
	opRedScat   = "reducescatter"
	opAllGather = "allgather"
	opAllToAll  = "alltoall"
)
