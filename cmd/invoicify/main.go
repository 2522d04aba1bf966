package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/invoicify/invoicify/internal/clock"
	"github.com/invoicify/invoicify/internal/config"
	"github.com/invoicify/invoicify/internal/server"
	"github.com/invoicify/invoicify/pkg/db"
	"github.com/invoicify/invoicify/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		clock.Module,
		db.Module,
		fx.Provide(RegisterSnowflake),

		server.Module,
	)

	app.Run()
}

// RegisterSnowflake provides the node used to mint invoice identities.
func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
