package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/mattdrummond/netroster/internal/config"
	"github.com/mattdrummond/netroster/pkg/clients/gmailclient"
	"github.com/mattdrummond/netroster/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg         *config.Config
	GmailClient *gmailclient.Client
	Database    *postgres.DB
	Logger      *zap.Logger
	Ctx         context.Context
}
