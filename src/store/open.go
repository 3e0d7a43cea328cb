package store

import (
	"context"
	"fmt"
	"log"
)

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Options struct {
	Driver        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		log.Println("Score store: in-memory (scores are lost on restart).")
		return NewMemory(), nil
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL missing")
		}
		log.Println("Score store: postgres.")
		return OpenPostgres(ctx, opts.DatabaseURL)
	case DriverMongo:
		log.Printf("Score store: mongo database %q.", opts.MongoDatabase)
		return ConnectMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
