package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/storage/database"
	filestore "github.com/trezcool/masomo-setup/storage/progress/file"
	inmemstore "github.com/trezcool/masomo-setup/storage/progress/inmem"
	redisstore "github.com/trezcool/masomo-setup/storage/progress/redis"
	sqlxstore "github.com/trezcool/masomo-setup/storage/progress/sqlx"
)

var errUnknownDriver = errors.New("unknown store driver")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore returns the progress store selected by conf.Store.Driver and the resource to release with it.
func openStore(ctx context.Context, conf *core.Config) (setup.ProgressStore, io.Closer, error) {
	switch conf.Store.Driver {
	case "", "file":
		store, err := filestore.New(conf.Store.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening file store")
		}
		return store, nopCloser{}, nil

	case "memory":
		return inmemstore.New(), nopCloser{}, nil

	case "redis":
		client, err := redisstore.NewClient(ctx, conf.Redis)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connecting to redis")
		}
		return redisstore.New(client, conf.Redis.Prefix, conf.Store.Namespace), client, nil

	case "postgres":
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening database")
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlxstore.New(db, conf.Store.Namespace), db, nil

	default:
		return nil, nil, errors.Wrapf(errUnknownDriver, "%q", conf.Store.Driver)
	}
}
