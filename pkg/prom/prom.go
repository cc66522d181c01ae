package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/Jojie16/SafeZone/pkg/http"
	"github.com/Jojie16/SafeZone/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemAlerts = "alerts"
	SystemChat   = "chat"
)

const (
	MetricAlertsTriggered       = "triggered_total"
	MetricAlertsResolved        = "resolved_total"
	MetricAlertTriggerDuration  = "trigger_duration_seconds"
	MetricChatMessages          = "messages_total"
	MetricChatMediaUploads      = "media_uploads_total"
	MetricChatMediaRejected     = "media_rejected_total"
	MetricChatSummaryUpdateFail = "summary_update_failures_total"
)

const (
	TypeCounter   = "counter"
	TypeHistogram = "histogram"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionHistogram = make(map[string]prometheus.Histogram)

var defaultLabels prometheus.Labels

func Create(host string, env string, nameSpace string) error {
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	MetricSystemEnabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	// Alerts
	hasError(createCounter(SystemAlerts, MetricAlertsTriggered))
	hasError(createCounter(SystemAlerts, MetricAlertsResolved))
	hasError(createHistogram(SystemAlerts, MetricAlertTriggerDuration))

	// Chat
	hasError(createCounter(SystemChat, MetricChatMessages))
	hasError(createCounter(SystemChat, MetricChatMediaUploads))
	hasError(createCounter(SystemChat, MetricChatMediaRejected))
	hasError(createCounter(SystemChat, MetricChatSummaryUpdateFail))

	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string) error {
	switch metricType {
	case TypeCounter:
		return createCounter(metricSubsystem, metricName)
	case TypeHistogram:
		return createHistogram(metricSubsystem, metricName)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounters[subsystem+name] = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	})
	return prometheus.Register(MetricCollectionCounters[subsystem+name])
}

func createHistogram(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogram[subsystem+name] = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	})
	return prometheus.Register(MetricCollectionHistogram[subsystem+name])
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func Observe(subsystem, name string, value float64) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionHistogram[subsystem+name]; ok {
		v.Observe(value)
		return
	}
	logger.Warn("[metrics-server] histogram not found", "subsystem", subsystem, "name", name)
}
