package services

import (
	"context"
	"fmt"

	"github.com/localnerve/lofreports/internal/config"
	"github.com/localnerve/lofreports/internal/metrics"
	"github.com/localnerve/lofreports/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Narrative    string            `json:"narrative"`
	StateVersion uint64            `json:"stateVersion"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck pings the database and the narrative endpoint. An unreachable
// narrative endpoint only degrades the service since reporting still works.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logrus.Entry) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.WithError(err).Error("health check failed - database connection")
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.WithError(err).Error("health check failed - database ping")
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
		metrics.RecordPoolStats(sqlDB.Stats())

		if version, err := NewStateRepository(db, cfg.StateKey).Version(ctx); err == nil {
			result.StateVersion = version
		}
	}

	// Check narrative endpoint connectivity
	switch {
	case cfg.NarrativeAPIKey == "":
		result.Narrative = "disabled"
	default:
		if err := utils.PingNarrative(cfg.NarrativeURL); err != nil {
			if result.Status == "healthy" {
				result.Status = "degraded"
			}
			result.Narrative = "unreachable"
			result.Details["narrative_error"] = err.Error()
			log.WithError(err).Warn("health check - narrative endpoint unreachable")
		} else {
			result.Narrative = "ok"
			result.Details["narrative_url"] = cfg.NarrativeURL
		}
	}

	return result
}
