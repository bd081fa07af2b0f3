package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

type stubProvisioner struct{}

func (stubProvisioner) Start(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	return nil
}

func (stubProvisioner) Stop(ctx context.Context, inst *model.Instance, eff *catalog.EffectiveDefinition) error {
	return nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("container", stubProvisioner{}))

	p, err := r.Get("container")
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("container", stubProvisioner{}))

	err := r.Register("container", stubProvisioner{})
	var dup *DuplicateRegistrationError
	assert.ErrorAs(t, err, &dup)
}

func TestRegistry_UnknownType(t *testing.T) {
	r := New()
	_, err := r.Get("nope")
	var noImpl *NoImplementationError
	assert.ErrorAs(t, err, &noImpl)
}
