//go:build wireinject

package main

import (
	"github.com/google/wire"

	"companion-server/internal/domain"
	"companion-server/internal/infrastructure"
	"companion-server/internal/interfaces"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
