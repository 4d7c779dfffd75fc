//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
)

// InitializeContainer creates a fully wired container. The manual path
// in container.go stays the default build; this injector keeps the
// wiring checkable with the wire tool.
func InitializeContainer() (*Container, error) {
	wire.Build(
		SuperSet,
		wire.Struct(new(Container),
			"Config",
			"Logger",
			"Store",
			"GraphRepository",
			"MetricsCollector",
			"GraphService",
			"Router",
		),
	)
	return nil, nil // Wire will replace this
}
