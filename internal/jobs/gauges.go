package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brewlog/brewbot-server-go/internal/repository"
)

// GaugeSetter receives refreshed ledger and registry sizes.
type GaugeSetter interface {
	SetLedgerPairings(count int64)
	SetRegistryParticipants(count int)
}

// GaugeJob periodically refreshes the ledger and registry size gauges.
type GaugeJob struct {
	eventRepo       repository.PairingEventRepository
	participantRepo repository.ParticipantRepository
	gauges          GaugeSetter
	interval        time.Duration
	done            chan struct{}
}

func NewGaugeJob(
	eventRepo repository.PairingEventRepository,
	participantRepo repository.ParticipantRepository,
	gauges GaugeSetter,
	interval time.Duration,
) *GaugeJob {
	return &GaugeJob{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		gauges:          gauges,
		interval:        interval,
		done:            make(chan struct{}),
	}
}

func (j *GaugeJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("gauge refresh job started")
}

func (j *GaugeJob) Stop() {
	close(j.done)
	log.Info().Msg("gauge refresh job stopped")
}

func (j *GaugeJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.refresh()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.refresh()
		}
	}
}

func (j *GaugeJob) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pairings, err := j.eventRepo.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count pairing events")
	} else {
		j.gauges.SetLedgerPairings(pairings)
	}

	participants, err := j.participantRepo.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to count participants")
	} else {
		j.gauges.SetRegistryParticipants(participants)
	}
}
