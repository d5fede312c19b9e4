// Package project provides project context management for multi-project support.
package project

import (
	"github.com/schemascope/schemascope-go/internal/infrastructure/graphql"
	"github.com/schemascope/schemascope-go/internal/infrastructure/persistence/scans"
)

// Context holds project-specific request context
type Context struct {
	ProjectID string
	Config    *Config
	GraphQL   *graphql.Client
	Database  *scans.Database
	ScanStore *scans.Store
	Status    string
}

// Close cleans up the project context
func (ctx *Context) Close() error {
	if ctx.Database != nil {
		return ctx.Database.Close()
	}
	return nil
}

// GetProjectID returns the project ID for this context
func (ctx *Context) GetProjectID() string {
	return ctx.ProjectID
}

// GetConfig returns the project configuration
func (ctx *Context) GetConfig() *Config {
	return ctx.Config
}

// IsActive returns true if the project is active
func (ctx *Context) IsActive() bool {
	return ctx.Status == "active"
}

// GetDatabaseInfo returns database connection information for logging
func (ctx *Context) GetDatabaseInfo() string {
	if ctx.Database != nil {
		return ctx.Database.GetConnectionInfo()
	}
	return "no database connection"
}
