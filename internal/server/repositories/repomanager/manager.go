package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/residentportal/internal/dbx"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/apartments"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/otps"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/residents"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, so services can pick either per call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Apartments(db dbx.DBTX) apartments.Repository
	Residents(db dbx.DBTX) residents.Repository
	OTPs(db dbx.DBTX) otps.Repository
}
