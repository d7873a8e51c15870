package mapping

import (
	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/SscSPs/kudi_commerce/internal/models"
)

// ToModelAuditFields converts domain audit fields to their column form.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields(d)
}

// ToDomainAuditFields converts audit columns to domain audit fields.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields(m)
}
