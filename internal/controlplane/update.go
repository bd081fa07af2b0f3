package controlplane

import (
	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

// applyUpdate implements §4.8 steps 1-4 as a pure function over the current
// desired-state list and an incoming request, so it can be unit tested
// without a live store. Step 5 (persist with retry) is the caller's job.
func applyUpdate(cat *catalog.Catalog, current []model.Instance, incoming []model.Instance) ([]model.Instance, error) {
	for _, in := range incoming {
		if _, ok := cat.GetService(in.Service); !ok {
			return nil, catalog.NewUnknownServiceError(in.Service)
		}
	}

	result := make([]model.Instance, len(current))
	copy(result, current)

	byName := make(map[string]int, len(result))
	for i := range result {
		byName[result[i].Name] = i
	}

	incomingNames := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		incomingNames[in.Name] = true

		if idx, ok := byName[in.Name]; ok {
			if result[idx].Status == model.StatusStopping {
				result[idx].Status = model.StatusStarting
			}
			continue
		}

		result = append(result, model.Instance{
			Name:    in.Name,
			Service: in.Service,
			Profile: in.Profile,
			Variety: in.Variety,
			Status:  model.StatusStarting,
			Info:    map[string]string{},
		})
		byName[in.Name] = len(result) - 1
	}

	for i := range result {
		if !incomingNames[result[i].Name] {
			result[i].Status = model.StatusStopping
		}
	}

	return result, nil
}
