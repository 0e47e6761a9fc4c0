package geocoding_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/antennaproject/proximity/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHTTPClient replays canned responses in order and records the requests
// it received.
type stubHTTPClient struct {
	responses []*http.Response
	err       error
	requests  []*http.Request
}

func (s *stubHTTPClient) Do(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}

	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestNominatimGeocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	t.Run("successfull geocoding", func(t *testing.T) {
		client := &stubHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusOK, `[{"lat": "48.8566", "lon": "2.3522"}]`),
		}}
		provider := geocoding.NewNominatimProviderWithClient(client, logger)

		point, err := provider.Geocode(ctx, "Place de l'Hôtel de Ville, Paris")

		require.NoError(t, err)
		require.NotNil(t, point)
		assert.InEpsilon(t, 48.8566, point.Latitude, 0.001)
		assert.InEpsilon(t, 2.3522, point.Longitude, 0.001)

		require.Len(t, client.requests, 1)
		assert.Contains(t, client.requests[0].Header.Get("User-Agent"), "antenna-locator")
		assert.Equal(t, "fr,en", client.requests[0].Header.Get("Accept-Language"))
	})

	t.Run("falls back to a simpler address variation", func(t *testing.T) {
		client := &stubHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusOK, `[]`),
			jsonResponse(http.StatusOK, `[{"lat": "47.2184", "lon": "-1.5536"}]`),
		}}
		provider := geocoding.NewNominatimProviderWithClient(client, logger)

		point, err := provider.Geocode(ctx, "10 Quai de la Loire, Nantes")

		require.NoError(t, err)
		require.NotNil(t, point)
		assert.InEpsilon(t, 47.2184, point.Latitude, 0.001)
		require.Len(t, client.requests, 2)
	})

	t.Run("all fallbacks exhausted", func(t *testing.T) {
		client := &stubHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusOK, `[]`),
			jsonResponse(http.StatusOK, `[]`),
		}}
		provider := geocoding.NewNominatimProviderWithClient(client, logger)

		point, err := provider.Geocode(ctx, "Nowhere, Atlantis")

		require.Nil(t, point)
		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("http error propagates", func(t *testing.T) {
		client := &stubHTTPClient{err: assert.AnError}
		provider := geocoding.NewNominatimProviderWithClient(client, logger)

		_, err := provider.Geocode(ctx, "Paris")

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		client := &stubHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusTooManyRequests, `rate limited`),
		}}
		provider := geocoding.NewNominatimProviderWithClient(client, logger)

		_, err := provider.Geocode(ctx, "Paris")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("invalid coordinates in response", func(t *testing.T) {
		client := &stubHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusOK, `[{"lat": "not-a-float", "lon": "2.35"}]`),
		}}
		provider := geocoding.NewNominatimProviderWithClient(client, logger)

		_, err := provider.Geocode(ctx, "Paris")

		require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
	})
}
