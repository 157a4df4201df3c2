package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SlipFinalizedTotal counts finalized slips.
	SlipFinalizedTotal prometheus.Counter
	// SlipDraftResetTotal counts draft resets.
	SlipDraftResetTotal prometheus.Counter
	// PaymentURITotal counts payment link build outcomes.
	PaymentURITotal *prometheus.CounterVec
	// ShareDispatchTotal counts share webhook dispatch outcomes.
	ShareDispatchTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SlipFinalizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slip_finalized_total",
			Help:      "Number of slips issued a number and finalized.",
		})
		SlipDraftResetTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slip_draft_reset_total",
			Help:      "Number of draft resets.",
		})
		PaymentURITotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_uri_total",
			Help:      "Count of UPI payment link build outcomes.",
		}, []string{"result"})
		ShareDispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_dispatch_total",
			Help:      "Count of share webhook dispatch outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, SlipFinalizedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				SlipFinalizedTotal = v
			}
		})
		mustRegisterCollector(reg, SlipDraftResetTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				SlipDraftResetTotal = v
			}
		})
		mustRegisterCollector(reg, PaymentURITotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentURITotal = v
			}
		})
		mustRegisterCollector(reg, ShareDispatchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ShareDispatchTotal = v
			}
		})
	})
}

// ObserveShareDispatch records one share dispatch outcome. Safe to call before
// metrics registration; it is a no-op until the collectors exist.
func ObserveShareDispatch(result string) {
	if ShareDispatchTotal != nil {
		ShareDispatchTotal.WithLabelValues(result).Inc()
	}
}

// ObserveSlipFinalized records one finalized slip.
func ObserveSlipFinalized() {
	if SlipFinalizedTotal != nil {
		SlipFinalizedTotal.Inc()
	}
}

// ObserveDraftReset records one draft reset.
func ObserveDraftReset() {
	if SlipDraftResetTotal != nil {
		SlipDraftResetTotal.Inc()
	}
}

// ObservePaymentURI records one payment link build outcome.
func ObservePaymentURI(result string) {
	if PaymentURITotal != nil {
		PaymentURITotal.WithLabelValues(result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
