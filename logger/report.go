package logger

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type platformStat struct {
	requests int64
	pages    int64
	records  int64
}

var (
	errorsFetch    int64
	errorsExport   int64
	warnsFetch     int64
	warnsExport    int64
	retries        int64
	rateLimitWaits int64
	rowsNormalized int64
	exportsWritten int64
	platforms      sync.Map // map[string]*platformStat
)

func recordWarn(component string) {
	if strings.Contains(component, "export") || strings.Contains(component, "s3") {
		atomic.AddInt64(&warnsExport, 1)
	} else {
		atomic.AddInt64(&warnsFetch, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "export") || strings.Contains(component, "s3") {
		atomic.AddInt64(&errorsExport, 1)
	} else {
		atomic.AddInt64(&errorsFetch, 1)
	}
}

// IncrementRequest counts one HTTP request issued against a platform.
func IncrementRequest(platform string) {
	st := platformStats(platform)
	atomic.AddInt64(&st.requests, 1)
}

// IncrementPage counts one fully fetched page and the records it carried.
func IncrementPage(platform string, records int) {
	st := platformStats(platform)
	atomic.AddInt64(&st.pages, 1)
	atomic.AddInt64(&st.records, int64(records))
}

// IncrementRetry counts one backoff retry of a failed request.
func IncrementRetry() {
	atomic.AddInt64(&retries, 1)
}

// IncrementRateLimitWait counts one 429-induced wait.
func IncrementRateLimitWait() {
	atomic.AddInt64(&rateLimitWaits, 1)
}

// AddRowsNormalized counts normalized sale rows produced in this run.
func AddRowsNormalized(n int) {
	atomic.AddInt64(&rowsNormalized, int64(n))
}

// IncrementExport counts one export artifact written.
func IncrementExport() {
	atomic.AddInt64(&exportsWritten, 1)
}

func platformStats(platform string) *platformStat {
	v, _ := platforms.LoadOrStore(platform, &platformStat{})
	return v.(*platformStat)
}

// LogRunReport emits a single end-of-run summary of request, page, retry
// and export counters together with process statistics, and publishes the
// same figures to CloudWatch when the client has been initialised.
func LogRunReport(ctx context.Context, log *Log, runtimeDur time.Duration) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}
	memMB := int64(0)
	if memStats != nil {
		memMB = int64(memStats.Used) / 1024 / 1024
	}

	platformData := map[string]map[string]int64{}
	platforms.Range(func(k, v any) bool {
		name := k.(string)
		st := v.(*platformStat)
		platformData[name] = map[string]int64{
			"requests": atomic.LoadInt64(&st.requests),
			"pages":    atomic.LoadInt64(&st.pages),
			"records":  atomic.LoadInt64(&st.records),
		}
		return true
	})

	fields := Fields{
		"errors_fetch":     atomic.LoadInt64(&errorsFetch),
		"errors_export":    atomic.LoadInt64(&errorsExport),
		"warns_fetch":      atomic.LoadInt64(&warnsFetch),
		"warns_export":     atomic.LoadInt64(&warnsExport),
		"retries":          atomic.LoadInt64(&retries),
		"rate_limit_waits": atomic.LoadInt64(&rateLimitWaits),
		"rows_normalized":  atomic.LoadInt64(&rowsNormalized),
		"exports_written":  atomic.LoadInt64(&exportsWritten),
		"goroutines":       runtime.NumGoroutine(),
		"cpu_percent":      cpuPct,
		"memory_mb":        memMB,
		"platforms":        platformData,
		"duration_ms":      runtimeDur.Milliseconds(),
	}

	log.WithComponent("report").WithFields(fields).Info("run report")

	data := []cwtypes.MetricDatum{
		{MetricName: aws.String("ErrorsFetch"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsFetch)))},
		{MetricName: aws.String("ErrorsExport"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsExport)))},
		{MetricName: aws.String("Retries"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&retries)))},
		{MetricName: aws.String("RateLimitWaits"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&rateLimitWaits)))},
		{MetricName: aws.String("RowsNormalized"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&rowsNormalized)))},
		{MetricName: aws.String("ExportsWritten"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&exportsWritten)))},
		{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memMB))},
	}

	for name, stats := range platformData {
		dims := []cwtypes.Dimension{{Name: aws.String("Platform"), Value: aws.String(name)}}
		data = append(data,
			cwtypes.MetricDatum{
				MetricName: aws.String("Requests"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
				Value:      aws.Float64(float64(stats["requests"])),
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("PagesFetched"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dims,
				Value:      aws.Float64(float64(stats["pages"])),
			},
		)
	}

	publishMetrics(ctx, data)
}
