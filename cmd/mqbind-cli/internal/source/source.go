// Package source resolves the event catalog a CLI command works on.
package source

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/nfrund/mqbind/internal/app"
	"github.com/nfrund/mqbind/internal/events"
)

// Catalog is a catalog together with the service it belongs to.
type Catalog struct {
	*events.Catalog
	// Service is the service recorded in the catalog file, if any.
	Service string
	// Origin names where the catalog came from, for display.
	Origin string
}

// Load returns the catalog in file, or the compiled-in service catalog when
// file is empty.
func Load(fs afero.Fs, file string) (*Catalog, error) {
	if file == "" {
		return &Catalog{Catalog: app.ServiceCatalog(), Origin: "built-in"}, nil
	}

	catalog, service, err := events.LoadCatalog(fs, file)
	if err != nil {
		return nil, err
	}
	return &Catalog{Catalog: catalog, Service: service, Origin: file}, nil
}

// Quiet keeps the CLI output clean: library logs are dropped and a .env file,
// if present, is loaded so AMQP_URL can be picked up.
func Quiet() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	_ = godotenv.Load()
}
