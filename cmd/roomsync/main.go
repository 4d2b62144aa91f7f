package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/santiolivoo/hotel-elefante2-sub001/internal/adapters/observability"
	"github.com/santiolivoo/hotel-elefante2-sub001/internal/app"
	"github.com/santiolivoo/hotel-elefante2-sub001/internal/shared"
	mysqlrepo "github.com/santiolivoo/hotel-elefante2-sub001/internal/storage/mysql"
)

// roomsync reconciles every room's flat status label with the reservation set
// for today. Meant to run from cron shortly after midnight UTC.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().Int("workers", cfg.SyncWorkers).Msg("roomsync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	svc := app.NewRoomSyncService(repo, repo)

	ids, err := svc.RoomIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing rooms failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.SyncWorkers))
	var wg sync.WaitGroup

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(roomID int64) {
			defer wg.Done()
			defer sem.Release(int64(1))

			changed, err := svc.SyncRoom(ctx, roomID)
			if err != nil {
				log.Warn().Int64("room", roomID).Err(err).Msg("sync failed")
				return
			}
			if changed {
				log.Info().Int64("room", roomID).Msg("status updated")
			}
		}(id)
	}

	wg.Wait()
	log.Info().Int("rooms", len(ids)).Msg("roomsync completed")
}
