package loader_test

import (
	"log/slog"
	"testing"

	"github.com/Flaque/filet"
	"github.com/antennaproject/proximity/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture files mirror the ANFR export layout: semicolon delimiter, latin1
// encoding (\xe9 is 'é'), and comma decimal separators in some rows.
const (
	antennasFixture = "Num\xe9ro de support;Exploitant\n" +
		"100;Orange France\n" +
		"101;free\n" +
		"102;SFR\n" +
		"103;ORANGE\n"

	supportsFixture = "Num\xe9ro du support;Longitude;Latitude\n" +
		"100;2,3522;48,8566\n" +
		"101;2.35;48.85\n" +
		"102;not-a-number;48.80\n" +
		"104;200;48.00\n"
)

func TestLoadAntennas(t *testing.T) {
	defer filet.CleanUp(t)

	datasets := loader.NewLoader(slog.Default())

	t.Run("merges antennas with support coordinates", func(t *testing.T) {
		antennasFile := filet.TmpFile(t, "", antennasFixture)
		supportsFile := filet.TmpFile(t, "", supportsFixture)

		antennas, err := datasets.LoadAntennas(antennasFile.Name(), supportsFile.Name())

		require.NoError(t, err)
		// 102 has an unparsable coordinate, 104 is out of range, and 103
		// has no support row at all.
		require.Len(t, antennas, 2)

		assert.Equal(t, "100", antennas[0].SupportID)
		assert.Equal(t, "ORANGE", antennas[0].Operator)
		assert.InDelta(t, 48.8566, antennas[0].Location.Latitude, 1e-9)
		assert.InDelta(t, 2.3522, antennas[0].Location.Longitude, 1e-9)

		assert.Equal(t, "101", antennas[1].SupportID)
		assert.Equal(t, "FREE MOBILE", antennas[1].Operator)
	})

	t.Run("missing column fails with its name", func(t *testing.T) {
		antennasFile := filet.TmpFile(t, "", "Support;Exploitant\n100;Orange\n")
		supportsFile := filet.TmpFile(t, "", supportsFixture)

		_, err := datasets.LoadAntennas(antennasFile.Name(), supportsFile.Name())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Numéro de support")
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := datasets.LoadAntennas("does/not/exist.csv", "neither/does/this.csv")
		require.Error(t, err)
	})
}

func TestLoadParcelsCSV(t *testing.T) {
	defer filet.CleanUp(t)

	datasets := loader.NewLoader(slog.Default())

	t.Run("keeps located and geocodable parcels", func(t *testing.T) {
		content := "id;address;owner;latitude;longitude\n" +
			"P1;;Dupont;48,85;2,35\n" +
			"P2;1 Rue de Rivoli, Paris;;;\n" +
			"P3;;;;\n" +
			"P4;;;91;0\n"
		parcelsFile := filet.TmpFile(t, "", content)

		parcels, err := datasets.LoadParcelsCSV(parcelsFile.Name())

		require.NoError(t, err)
		// P3 has neither coordinates nor address; P4 is out of range.
		require.Len(t, parcels, 2)

		require.NotNil(t, parcels[0].Location)
		assert.Equal(t, "P1", parcels[0].ID)
		assert.Equal(t, "Dupont", parcels[0].Owner)
		assert.InDelta(t, 48.85, parcels[0].Location.Latitude, 1e-9)

		assert.Equal(t, "P2", parcels[1].ID)
		assert.Nil(t, parcels[1].Location)
		assert.Equal(t, "1 Rue de Rivoli, Paris", parcels[1].Address)
	})

	t.Run("missing id column fails", func(t *testing.T) {
		parcelsFile := filet.TmpFile(t, "", "ref;latitude;longitude\nP1;48;2\n")

		_, err := datasets.LoadParcelsCSV(parcelsFile.Name())

		require.Error(t, err)
		assert.Contains(t, err.Error(), `"id"`)
	})

	t.Run("empty file fails", func(t *testing.T) {
		parcelsFile := filet.TmpFile(t, "", "")

		_, err := datasets.LoadParcelsCSV(parcelsFile.Name())

		require.Error(t, err)
	})
}
