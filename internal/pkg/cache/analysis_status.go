package cache

import (
	"fmt"
	"time"
)

// Processing states for a submitted analysis. The status endpoint reports
// STATUS_PENDING when the key is missing or expired.
const (
	STATUS_PENDING    = "pending"
	STATUS_PROCESSING = "processing"
	STATUS_COMPLETED  = "completed"
	STATUS_FAILED     = "failed"
)

const analysisStatusTTL = 24 * time.Hour

func analysisStatusKey(analysisUUID string) string {
	return fmt.Sprintf("analysis:status:%s", analysisUUID)
}

// SetAnalysisStatus records the processing state of an analysis.
func SetAnalysisStatus(analysisUUID string, status string) error {
	return set(analysisStatusKey(analysisUUID), status, analysisStatusTTL)
}

// GetAnalysisStatus reads the processing state of an analysis.
func GetAnalysisStatus(analysisUUID string) (string, error) {
	return get(analysisStatusKey(analysisUUID))
}
