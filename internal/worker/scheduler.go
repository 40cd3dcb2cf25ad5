package worker

// scheduler.go runs periodic housekeeping with gocron:
//   - nightly summary of the day's completed sales
//   - DLQ size report, so stuck receipt emails show up in the logs

import (
	"context"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"

	"github.com/go-co-op/gocron"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SchedulerConfig holds the dependencies of the periodic jobs.
type SchedulerConfig struct {
	Ventas   repository.VentaRepository
	RDB      *redis.Client // optional
	Location *time.Location
}

// StartScheduler registers the jobs and starts them in the background.
// Call Stop on the returned scheduler during shutdown.
func StartScheduler(ctx context.Context, cfg SchedulerConfig) (*gocron.Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	s := gocron.NewScheduler(loc)

	if _, err := s.Every(1).Day().At("23:55").Do(func() {
		ResumenDiario(ctx, cfg.Ventas, time.Now().In(loc))
	}); err != nil {
		return nil, err
	}

	if cfg.RDB != nil {
		if _, err := s.Every(15).Minutes().Do(func() {
			reportDLQ(ctx, cfg.RDB)
		}); err != nil {
			return nil, err
		}
	}

	s.StartAsync()
	log.Info().Msg("scheduler: started")
	return s, nil
}

// ResumenDiario logs count and revenue of completed sales for the day of ref.
func ResumenDiario(ctx context.Context, ventas repository.VentaRepository, ref time.Time) (int, decimal.Decimal) {
	desde := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	hasta := desde.AddDate(0, 0, 1)

	list, err := ventas.ListEntre(ctx, desde, hasta, model.VentaCompletada)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: daily summary query failed")
		return 0, decimal.Zero
	}
	total := decimal.Zero
	for _, v := range list {
		total = total.Add(v.Total)
	}
	log.Info().
		Str("dia", desde.Format("2006-01-02")).
		Int("ventas", len(list)).
		Str("total", total.StringFixed(2)).
		Msg("scheduler: daily sales summary")
	return len(list), total
}

func reportDLQ(ctx context.Context, rdb *redis.Client) {
	n, err := DLQLength(ctx, rdb, QueueBoletaEmail)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: DLQ length query failed")
		return
	}
	if n == 0 {
		return
	}
	var ids []uint
	if recientes, err := PeekDLQ(ctx, rdb, QueueBoletaEmail, 10); err == nil {
		for _, e := range recientes {
			if e.BoletaID != 0 {
				ids = append(ids, e.BoletaID)
			}
		}
	}
	log.Warn().
		Int64("entries", n).
		Str("queue", QueueBoletaEmail).
		Interface("boletas_recientes", ids).
		Msg("scheduler: DLQ not empty")
}
