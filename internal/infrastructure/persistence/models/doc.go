package models

// AllModels returns every persistence model in migration order. Used by
// AutoMigrate in tests; production schemas come from versioned SQL
// migrations.
func AllModels() []any {
	return []any{
		&TenantModel{},
		&UserProfileModel{},
		&CompanyModel{},
		&PlatformCredentialModel{},
		&LegacyCredentialModel{},
		&ClientRecordModel{},
		&SubscriptionModel{},
		&ReceiptModel{},
		&ProjectModel{},
		&DocumentModel{},
		&AuditEventModel{},
	}
}
