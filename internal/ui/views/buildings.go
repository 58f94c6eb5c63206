package views

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

var (
	buildingsCopy = fetch.Copy{Empty: "No buildings registered yet."}
	workersCopy   = fetch.Copy{Empty: "No workers registered yet."}
)

// BuildingsView is the administrator overview: buildings and workers are
// loaded concurrently and rendered independently.
type BuildingsView struct {
	api       BuildingsAPI
	log       zerolog.Logger
	scope     *fetch.Scope
	buildings *fetch.Slot[[]domain.Building]
	workers   *fetch.Slot[[]domain.Worker]
}

func NewBuildingsView(api BuildingsAPI, log zerolog.Logger) *BuildingsView {
	scope := fetch.NewScope()
	return &BuildingsView{
		api:       api,
		log:       log.With().Str("view", "buildings").Logger(),
		scope:     scope,
		buildings: fetch.NewSlot[[]domain.Building](scope),
		workers:   fetch.NewSlot[[]domain.Worker](scope),
	}
}

func (v *BuildingsView) Mount(ctx context.Context) {
	v.scope.Mount(ctx)
	v.Reload()
}

func (v *BuildingsView) Unmount() {
	v.scope.Unmount()
	v.buildings.Reset()
	v.workers.Reset()
}

func (v *BuildingsView) Reload() {
	fetch.Load(v.scope, v.buildings, func(ctx context.Context) ([]domain.Building, error) {
		out, err := v.api.ListBuildings(ctx)
		if err != nil {
			v.log.Warn().Err(err).Msg("list buildings failed")
		}
		return out, err
	})
	fetch.Load(v.scope, v.workers, func(ctx context.Context) ([]domain.Worker, error) {
		out, err := v.api.ListWorkers(ctx)
		if err != nil {
			v.log.Warn().Err(err).Msg("list workers failed")
		}
		return out, err
	})
}

func (v *BuildingsView) Wait() { v.scope.Wait() }

func (v *BuildingsView) RenderBuildings() fetch.Render {
	data, ok := v.buildings.State().Data()
	return fetch.Decide(false, ok && len(data) == 0, buildingsCopy, v.buildings)
}

func (v *BuildingsView) RenderWorkers() fetch.Render {
	data, ok := v.workers.State().Data()
	return fetch.Decide(false, ok && len(data) == 0, workersCopy, v.workers)
}

func (v *BuildingsView) Buildings() []domain.Building {
	data, _ := v.buildings.State().Data()
	return data
}

func (v *BuildingsView) Workers() []domain.Worker {
	data, _ := v.workers.State().Data()
	return data
}
