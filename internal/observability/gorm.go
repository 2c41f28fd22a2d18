package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/JohnSOGO/ChatMan/internal/config"
)

// InstrumentDB registers the GORM tracing plugin so every store statement
// becomes a child span of the calling request. Query parameters are left
// out of the spans since they carry chat text.
func InstrumentDB(db *gorm.DB, cfg config.OTELConfig) error {
	if !cfg.Enabled || db == nil {
		return nil
	}
	return db.Use(tracing.NewPlugin(
		tracing.WithDBSystem("sqlite"),
		tracing.WithAttributes(attribute.String("db.namespace", "chat")),
		tracing.WithoutMetrics(),
		tracing.WithoutQueryVariables(),
	))
}
