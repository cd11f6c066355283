package qrmodel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/qreason/qrmodel"
	"github.com/katalvlaran/qreason/qrvalue"
)

func TestNewModel_ResolvesRelationIndicesBothWays(t *testing.T) {
	m, err := qrmodel.NewModel(
		qrmodel.WithQuantity("inflow", qrmodel.WithMagnitudes(qrvalue.NULL, qrvalue.POS)),
		qrmodel.WithQuantity("volume", qrmodel.WithMagnitudes(qrvalue.NULL, qrvalue.POS, qrvalue.MAX)),
		qrmodel.WithInfluence(qrvalue.Positive, "inflow", "volume"),
	)
	require.NoError(t, err)

	inflowIdx := m.QuantityIndex("inflow")
	volumeIdx := m.QuantityIndex("volume")
	require.GreaterOrEqual(t, inflowIdx, 0)
	require.GreaterOrEqual(t, volumeIdx, 0)

	outgoing := m.Quantities[inflowIdx].Outgoing()
	require.Len(t, outgoing, 1)
	assert.Equal(t, volumeIdx, outgoing[0].OtherIdx)

	incoming := m.Quantities[volumeIdx].Incoming()
	require.Len(t, incoming, 1)
	assert.Equal(t, inflowIdx, incoming[0].OtherIdx)
	assert.Equal(t, qrmodel.Influence, m.Relations[incoming[0].RelationIdx].Kind)
}

func TestNewModel_DefaultsDerivativesToAllThree(t *testing.T) {
	m, err := qrmodel.NewModel(
		qrmodel.WithQuantity("q", qrmodel.WithMagnitudes(qrvalue.NULL)),
	)
	require.NoError(t, err)
	assert.Equal(t, []qrvalue.Derivative{qrvalue.Falling, qrvalue.Steady, qrvalue.Rising}, m.Quantities[0].Derivatives)
}

func TestNewModel_UnknownQuantityReferenceIsConfigError(t *testing.T) {
	_, err := qrmodel.NewModel(
		qrmodel.WithQuantity("q", qrmodel.WithMagnitudes(qrvalue.NULL)),
		qrmodel.WithInfluence(qrvalue.Positive, "q", "missing"),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, qrmodel.ErrUnknownQuantity)
	var cfgErr *qrmodel.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestNewModel_DuplicateQuantityNameIsConfigError(t *testing.T) {
	_, err := qrmodel.NewModel(
		qrmodel.WithQuantity("q", qrmodel.WithMagnitudes(qrvalue.NULL)),
		qrmodel.WithQuantity("q", qrmodel.WithMagnitudes(qrvalue.POS)),
	)
	assert.ErrorIs(t, err, qrmodel.ErrDuplicateQuantity)
}

func TestNewModel_EmptyMagnitudesIsConfigError(t *testing.T) {
	_, err := qrmodel.NewModel(qrmodel.WithQuantity("q"))
	assert.ErrorIs(t, err, qrmodel.ErrEmptyMagnitudes)
}

func TestNewModel_RandomizedQuantityNeedsAdjacentDerivatives(t *testing.T) {
	_, err := qrmodel.NewModel(
		qrmodel.WithQuantity("q",
			qrmodel.WithMagnitudes(qrvalue.NULL, qrvalue.POS),
			qrmodel.WithDerivatives(qrvalue.Falling, qrvalue.Rising),
			qrmodel.Randomized(),
		),
	)
	assert.ErrorIs(t, err, qrmodel.ErrNarrowRandomDerivatives)
}

func TestNewModel_EntityRelationResolvesEntityNames(t *testing.T) {
	m, err := qrmodel.NewModel(
		qrmodel.WithEntity("tap"),
		qrmodel.WithEntity("container"),
		qrmodel.WithEntityRelation("Above of", "tap", "container"),
	)
	require.NoError(t, err)
	require.Len(t, m.EntityRelations, 1)
	assert.Equal(t, "tap", m.EntityRelations[0].From)
	assert.Equal(t, "container", m.EntityRelations[0].To)
}

func TestNewModel_UnknownEntityReferenceIsConfigError(t *testing.T) {
	_, err := qrmodel.NewModel(
		qrmodel.WithEntity("tap"),
		qrmodel.WithEntityRelation("Above of", "tap", "missing"),
	)
	assert.ErrorIs(t, err, qrmodel.ErrUnknownEntity)
}

func TestNewModel_EmptyModelSucceeds(t *testing.T) {
	m, err := qrmodel.NewModel()
	require.NoError(t, err)
	assert.Empty(t, m.Quantities)
	assert.Empty(t, m.Relations)
}
