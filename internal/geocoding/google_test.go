package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/antennaproject/proximity/internal/geocoding"
	"github.com/antennaproject/proximity/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, address)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		point, err := provider.Geocode(ctx, address)

		require.Nil(t, point)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successfull geocoding", func(t *testing.T) {
		address := "55 Rue du Faubourg Saint-Honoré, Paris"
		req := &maps.GeocodingRequest{Address: address}
		mockReponse := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 48.8704, Lng: 2.3168}}},
		}

		mockClient.On("Geocode", ctx, req).Return(mockReponse, nil).Once()

		point, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.NotNil(t, point)
		require.InEpsilon(t, 48.8704, point.Latitude, 0.01)
		require.InEpsilon(t, 2.3168, point.Longitude, 0.01)
		mockClient.AssertExpectations(t)
	})
}
