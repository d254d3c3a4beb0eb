package store

import (
	"context"
	"testing"

	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleMakes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	toyota, err := s.AddVehicleMake(ctx, "Toyota", []string{"Corolla", "corolla", " Hilux "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Corolla", "Hilux"}, toyota.Models)

	_, err = s.AddVehicleMake(ctx, "toyota", nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	v, err := s.AddVehicleModel(ctx, toyota.ID, "Prado")
	require.NoError(t, err)
	assert.Equal(t, []string{"Corolla", "Hilux", "Prado"}, v.Models)

	_, err = s.AddVehicleModel(ctx, toyota.ID, "PRADO")
	assert.ErrorIs(t, err, ErrDuplicate)

	v, err = s.RemoveVehicleModel(ctx, toyota.ID, "hilux")
	require.NoError(t, err)
	assert.Equal(t, []string{"Corolla", "Prado"}, v.Models)

	_, err = s.RemoveVehicleModel(ctx, toyota.ID, "Hilux")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.AddVehicleMake(ctx, "Nissan", nil)
	require.NoError(t, err)

	all, err := s.ListVehicleMakes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Nissan", all[0].Make)
	assert.Equal(t, []string{"Corolla", "Prado"}, all[1].Models)

	require.NoError(t, s.DeleteVehicleMake(ctx, toyota.ID))
	assert.ErrorIs(t, s.DeleteVehicleMake(ctx, toyota.ID), models.ErrNotFound)
}
