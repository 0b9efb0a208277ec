package observability

import (
	"strings"
	"time"
)

// ObserveCatalog wraps one outbound catalog API call (logical op, not URL).
func (p *Prom) ObserveCatalog(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.CatalogErrors.WithLabelValues(op, classifyCatalogErr(err)).Inc()
	}
	p.CatalogOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

func classifyCatalogErr(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "operation failed"):
		return "status"
	case strings.Contains(msg, "unavailable") || strings.Contains(msg, "connection"):
		return "unavailable"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	default:
		return "unknown"
	}
}
