package app

import (
	"fmt"

	auditHTTP "github.com/cosecrets/cosecrets/internal/audit/http"
	auditRepository "github.com/cosecrets/cosecrets/internal/audit/repository"
	auditUsecase "github.com/cosecrets/cosecrets/internal/audit/usecase"
)

// AuditLogRepository returns the audit log repository instance.
func (c *Container) AuditLogRepository() (auditUsecase.AuditLogRepository, error) {
	c.auditLogRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditLogRepo"] = fmt.Errorf("failed to get database for audit log repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.auditLogRepo = auditRepository.NewMySQLAuditLogRepository(db)
		case "postgres":
			c.auditLogRepo = auditRepository.NewPostgreSQLAuditLogRepository(db)
		default:
			c.initErrors["auditLogRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// Recorder returns the audit recorder shared by all use cases.
func (c *Container) Recorder() (auditUsecase.Recorder, error) {
	c.recorderInit.Do(func() {
		auditLogRepo, err := c.AuditLogRepository()
		if err != nil {
			c.initErrors["recorder"] = fmt.Errorf("failed to get audit log repository for recorder: %w", err)
			return
		}
		c.recorder = auditUsecase.NewRecorder(auditLogRepo, c.Logger())
	})
	if storedErr, exists := c.initErrors["recorder"]; exists {
		return nil, storedErr
	}
	return c.recorder, nil
}

// AuditLogUseCase returns the audit log query use case.
func (c *Container) AuditLogUseCase() (auditUsecase.AuditLogUseCase, error) {
	c.auditLogUseCaseInit.Do(func() {
		auditLogRepo, err := c.AuditLogRepository()
		if err != nil {
			c.initErrors["auditLogUseCase"] = fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
			return
		}
		membershipRepo, err := c.MembershipRepository()
		if err != nil {
			c.initErrors["auditLogUseCase"] = fmt.Errorf("failed to get membership repository for audit log use case: %w", err)
			return
		}
		c.auditLogUseCase = auditUsecase.NewAuditLogUseCase(auditLogRepo, membershipRepo)
	})
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// AuditLogHandler returns the audit log HTTP handler.
func (c *Container) AuditLogHandler() (*auditHTTP.AuditLogHandler, error) {
	c.auditLogHandlerInit.Do(func() {
		useCase, err := c.AuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogHandler"] = fmt.Errorf("failed to get audit log use case for audit log handler: %w", err)
			return
		}
		c.auditLogHandler = auditHTTP.NewAuditLogHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["auditLogHandler"]; exists {
		return nil, storedErr
	}
	return c.auditLogHandler, nil
}
