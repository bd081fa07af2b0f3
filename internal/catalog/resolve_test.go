package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return &Catalog{
		services: map[string]*ServiceDefinition{
			"svc1": {
				Name: "svc1",
				Type: "generic",
				Layer: Layer{
					Image:       "base-image",
					Environment: map[string]string{"A": "s", "X": "s"},
				},
				Varieties: map[string]Layer{
					"v": {Environment: map[string]string{"A": "v", "V": "v"}},
				},
				Profiles: map[string]Layer{
					"p": {Environment: map[string]string{"A": "p", "P": "p"}},
				},
			},
		},
	}
}

func TestEffectiveDefinition_LayeredEnv(t *testing.T) {
	cat := testCatalog()

	eff, err := cat.EffectiveDefinition("svc1", "p", "v")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "p", "X": "s", "V": "v", "P": "p"}, eff.Environment)
	assert.Equal(t, "base-image", eff.Image)
}

func TestEffectiveDefinition_ScalarPrecedence(t *testing.T) {
	cat := &Catalog{
		services: map[string]*ServiceDefinition{
			"svc": {
				Name:  "svc",
				Layer: Layer{Image: "base"},
				Varieties: map[string]Layer{
					"v": {Image: "variety-image"},
				},
				Profiles: map[string]Layer{
					"p": {},
				},
			},
		},
	}

	eff, err := cat.EffectiveDefinition("svc", "p", "v")
	require.NoError(t, err)
	assert.Equal(t, "variety-image", eff.Image, "profile has no image, so variety wins over base")
}

func TestEffectiveDefinition_UnknownService(t *testing.T) {
	cat := testCatalog()
	_, err := cat.EffectiveDefinition("nope", "", "")
	var unknownSvc *UnknownServiceError
	assert.ErrorAs(t, err, &unknownSvc)
}

func TestEffectiveDefinition_SelectionRequired(t *testing.T) {
	cat := testCatalog()
	_, err := cat.EffectiveDefinition("svc1", "", "")
	var selReq *SelectionRequiredError
	assert.ErrorAs(t, err, &selReq)
}

func TestEffectiveDefinition_UnknownProfile(t *testing.T) {
	cat := testCatalog()
	_, err := cat.EffectiveDefinition("svc1", "missing", "v")
	var unknownProfile *UnknownProfileError
	assert.ErrorAs(t, err, &unknownProfile)
}

func TestResolveToken_Ambiguous(t *testing.T) {
	cat := &Catalog{
		services: map[string]*ServiceDefinition{
			"svc": {
				Name:      "svc",
				Profiles:  map[string]Layer{"x": {}},
				Varieties: map[string]Layer{"x": {}},
			},
		},
	}
	_, _, err := cat.ResolveToken("svc", "x")
	var ambiguous *AmbiguousTokenError
	assert.ErrorAs(t, err, &ambiguous)
}

func TestResolveToken_Profile(t *testing.T) {
	cat := testCatalog()
	profile, variety, err := cat.ResolveToken("svc1", "p")
	require.NoError(t, err)
	assert.Equal(t, "p", profile)
	assert.Equal(t, "", variety)
}
