package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SystemMetrics интерфейс для системных метрик процесса
type SystemMetrics interface {
	Record()
	StartRecording(interval time.Duration)
	Stop()
}

type systemMetrics struct {
	log          *logger.Logger
	goroutines   prometheus.Gauge
	memoryAlloc  prometheus.Gauge
	memorySystem prometheus.Gauge
	gcRuns       prometheus.Counter

	mu       sync.Mutex
	lastGC   uint32
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSystemMetrics создает системные метрики в указанном реестре
func NewSystemMetrics(registry *prometheus.Registry, log *logger.Logger) SystemMetrics {
	factory := promauto.With(registry)

	return &systemMetrics{
		log: log,
		goroutines: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_goroutines",
			Help:      "Current number of goroutines",
		}),
		memoryAlloc: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_memory_alloc_bytes",
			Help:      "Currently allocated memory in bytes",
		}),
		memorySystem: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_memory_system_bytes",
			Help:      "Total memory obtained from system in bytes",
		}),
		gcRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "system_gc_runs_total",
			Help:      "Total number of completed GC cycles",
		}),
		stopCh: make(chan struct{}),
	}
}

// Record снимает текущие показатели runtime.
// Счетчик GC увеличивается только на число циклов с прошлого замера.
func (m *systemMetrics) Record() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.goroutines.Set(float64(runtime.NumGoroutine()))
	m.memoryAlloc.Set(float64(memStats.Alloc))
	m.memorySystem.Set(float64(memStats.Sys))

	m.mu.Lock()
	if memStats.NumGC > m.lastGC {
		m.gcRuns.Add(float64(memStats.NumGC - m.lastGC))
		m.lastGC = memStats.NumGC
	}
	m.mu.Unlock()
}

// StartRecording начинает запись метрик с заданным интервалом
func (m *systemMetrics) StartRecording(interval time.Duration) {
	m.Record()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.Record()
			case <-m.stopCh:
				return
			}
		}
	}()
	m.log.Info("System metrics recording started with interval %s", interval)
}

// Stop останавливает запись метрик. Повторный вызов ничего не делает.
func (m *systemMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.log.Info("System metrics recording stopped")
	})
}
