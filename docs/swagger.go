// Package docs AuditGate API documentation
package docs

// Swagger documentation info
// @title AuditGate API
// @version 1.0
// @description API documentation for the AuditGate security audit management backend

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name auth
// @tag.description Authentication and session management

// @tag.name organizations
// @tag.description Organization management

// @tag.name users
// @tag.description User management

// @tag.name projects
// @tag.description Project and assignment management

// @tag.name templates
// @tag.description Finding checklist templates

// @tag.name audits
// @tag.description Audit lifecycle

// @tag.name findings
// @tag.description Findings, evidence and comments

// @tag.name notifications
// @tag.description Per-user notifications and live delivery

// @tag.name activity
// @tag.description Activity trail

// @tag.name analytics
// @tag.description Dashboard statistics

// @tag.name reports
// @tag.description Report export
