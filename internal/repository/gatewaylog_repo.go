package repository

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"inpaygate/internal/models"
)

// GatewayLogRepository persists gateway audit entries.
type GatewayLogRepository struct {
	db *gorm.DB
}

func NewGatewayLogRepository(db *gorm.DB) *GatewayLogRepository {
	return &GatewayLogRepository{db: db}
}

// Create inserts one gateway log row.
func (r *GatewayLogRepository) Create(module, message, status string) error {
	row := &models.GatewayLog{
		Module:  module,
		Message: message,
		Status:  status,
		Time:    fmt.Sprintf("%d", time.Now().Unix()),
	}
	return r.db.Create(row).Error
}

// TransactionLogger implements the gateway audit log, gated by the
// gatewayLogs configuration flag. Writes never fail the request.
type TransactionLogger struct {
	repo    *GatewayLogRepository
	module  string
	enabled bool
	logger  *zap.Logger
}

func NewTransactionLogger(repo *GatewayLogRepository, module string, enabled bool, logger *zap.Logger) *TransactionLogger {
	return &TransactionLogger{
		repo:    repo,
		module:  module,
		enabled: enabled,
		logger:  logger,
	}
}

// Log records a gateway decision when logging is enabled.
func (l *TransactionLogger) Log(message, status string) {
	if !l.enabled {
		return
	}
	if err := l.repo.Create(l.module, message, status); err != nil {
		l.logger.Warn("gateway log write failed", zap.Error(err))
	}
	l.logger.Debug("gateway log",
		zap.String("module", l.module),
		zap.String("status", status),
		zap.String("message", message))
}
