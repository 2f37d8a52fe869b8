package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarin/turnario/internal/config"
	"github.com/lucabarin/turnario/pkg/core/booking"
	"github.com/lucabarin/turnario/pkg/core/importer"
	"github.com/lucabarin/turnario/pkg/core/marketplace"
	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/core/rotation"
	"github.com/lucabarin/turnario/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg         *config.Config
	Store       db.Store
	Booking     *booking.Engine
	Marketplace *marketplace.Engine
	Importer    *importer.Importer
	Rotation    *rotation.Calendar
	Location    *time.Location
	Logger      *zap.Logger
	Ctx         context.Context
}

// parseRole converts a command argument into a seat role
func parseRole(s string) (model.Role, error) {
	switch model.Role(s) {
	case model.RoleTechnician, model.RoleHelper:
		return model.Role(s), nil
	default:
		return "", fmt.Errorf("role must be %q or %q, got: %s",
			model.RoleTechnician, model.RoleHelper, s)
	}
}
