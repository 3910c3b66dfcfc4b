package analytics

import (
	"fmt"

	"github.com/google/uuid"
)

// MetricsCachePrefix returns the cache key prefix covering every cached
// metrics payload of a tenant. Ingest invalidates this whole prefix after
// each write, so cached figures never outlive the data they summarize.
func MetricsCachePrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("metrics:%s:", tenantID)
}

// metricsCacheKey builds the cache key for one named metrics payload
func metricsCacheKey(tenantID uuid.UUID, name string) string {
	return MetricsCachePrefix(tenantID) + name
}
