package invoice

import (
	"github.com/invoicify/invoicify/internal/invoice/repository"
	"github.com/invoicify/invoicify/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewCollectionStore),
	fx.Provide(service.NewService),
)
