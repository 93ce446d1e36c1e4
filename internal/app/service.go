package app

import (
	"resym/internal/adapters"
	"resym/internal/core"
	"resym/internal/ports"
)

// Service bundles the ports and the compilation engine behind the CLI
// surface.
type Service struct {
	Manifest  ports.ManifestPort
	ResTree   ports.ResTreePort
	Symbols   ports.SymbolFilePort
	GraphSpec ports.GraphSpecPort
	Engine    core.Engine
}

func NewService() Service {
	symbols := adapters.NewSymbolFileAdapter()
	return Service{
		Manifest:  adapters.NewManifestXMLAdapter(),
		ResTree:   adapters.NewResTreeAdapter(),
		Symbols:   symbols,
		GraphSpec: adapters.NewGraphSpecAdapter(),
		Engine:    core.NewEngine(symbols),
	}
}
