package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/bootstrap"
	"github.com/yigit/campusfeedback/internal/db"
	"github.com/yigit/campusfeedback/internal/pkg/cache"
)

func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	repos := repositories.NewRepositories(database.Pool)
	cli := commandLine{
		staff: bootstrap.NewUserService(cfg, repos, cache.NewStatusCache(nil, 0), nil, lgr),
		migrate: func(ctx context.Context) error {
			return bootstrap.Migrate(ctx, database.Pool, cfg.Server.MigrationsDir, lgr)
		},
		out: os.Stdout,
	}

	if err := cli.run(context.Background(), os.Args); err != nil {
		if err != errHelp {
			lgr.Error().Err(err).Msg("Command failed")
		}
		database.Close()
		os.Exit(1)
	}
}
