// Package proximity evaluates parcels against a set of antennas: nearest
// antenna per parcel, threshold classification, and aggregate coverage
// figures over the antenna set.
package proximity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/antennaproject/proximity/internal/geo"
	"github.com/antennaproject/proximity/internal/models"
)

// ErrNoAntennaData is returned when an evaluation is attempted against an
// empty antenna set.
var ErrNoAntennaData = errors.New("no antenna data")

// ErrParcelNotLocated is returned when a parcel without coordinates reaches
// the evaluator. Such parcels must be geocoded first.
var ErrParcelNotLocated = errors.New("parcel has no coordinates")

// tieEpsilonMeters is the window within which two antenna distances are
// considered equal; the antenna appearing first in the input wins.
const tieEpsilonMeters = 1e-6

// Evaluate finds the nearest antenna for every parcel and classifies it
// against thresholdMeters (inclusive comparison). Results preserve the
// parcel input order, one result per parcel.
//
// The antenna set must be non-empty, every parcel must carry coordinates,
// and all coordinates must be valid; otherwise the evaluation fails with
// the offending record identifier in the error.
func Evaluate(
	parcels []models.Parcel,
	antennas []models.Antenna,
	thresholdMeters float64,
) ([]models.ProximityResult, error) {
	if len(antennas) == 0 {
		return nil, ErrNoAntennaData
	}

	results := make([]models.ProximityResult, 0, len(parcels))
	for _, parcel := range parcels {
		result, err := Nearest(parcel, antennas)
		if err != nil {
			return nil, err
		}
		result.WithinThreshold = result.DistanceMeters <= thresholdMeters
		results = append(results, result)
	}

	return results, nil
}

// Nearest returns the nearest antenna to the given parcel as an unclassified
// ProximityResult (WithinThreshold left false). Antennas equidistant within
// tieEpsilonMeters resolve to the earliest one in the input slice.
func Nearest(parcel models.Parcel, antennas []models.Antenna) (models.ProximityResult, error) {
	if len(antennas) == 0 {
		return models.ProximityResult{}, fmt.Errorf("%w (parcel %q)", ErrNoAntennaData, parcel.ID)
	}
	if parcel.Location == nil {
		return models.ProximityResult{}, fmt.Errorf("%w (parcel %q)", ErrParcelNotLocated, parcel.ID)
	}

	nearestIdx := 0
	minDist := 0.0
	for idx, antenna := range antennas {
		dist, err := geo.Distance(*parcel.Location, antenna.Location)
		if err != nil {
			return models.ProximityResult{}, err
		}
		if idx == 0 || dist < minDist-tieEpsilonMeters {
			minDist = dist
			nearestIdx = idx
		}
	}

	return models.ProximityResult{
		Parcel:         parcel,
		Antenna:        antennas[nearestIdx],
		DistanceMeters: minDist,
	}, nil
}

// operatorAliases maps common operator name variants to the form used in the
// antenna dataset.
var operatorAliases = map[string]string{
	"FREE":          "FREE MOBILE",
	"ORANGE FRANCE": "ORANGE",
	"BOUYGUES":      "BOUYGUES TELECOM",
}

// NormalizeOperator upper-cases an operator name and resolves known aliases.
func NormalizeOperator(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if canonical, ok := operatorAliases[name]; ok {
		return canonical
	}

	return name
}

// FilterByOperator returns the antennas belonging to the given operator,
// preserving input order. The operator name is normalized before matching.
// An empty result means the operator has no antennas in the dataset.
func FilterByOperator(antennas []models.Antenna, operator string) []models.Antenna {
	target := NormalizeOperator(operator)

	var subset []models.Antenna
	for _, antenna := range antennas {
		if antenna.Operator == target {
			subset = append(subset, antenna)
		}
	}

	return subset
}

// EvaluateOperator restricts the antenna set to one operator before
// evaluating. It fails with ErrNoAntennaData, wrapped with the operator
// name, when the dataset has no antennas for that operator.
func EvaluateOperator(
	parcels []models.Parcel,
	antennas []models.Antenna,
	operator string,
	thresholdMeters float64,
) ([]models.ProximityResult, error) {
	subset := FilterByOperator(antennas, operator)
	if len(subset) == 0 {
		return nil, fmt.Errorf("%w for operator %q", ErrNoAntennaData, NormalizeOperator(operator))
	}

	return Evaluate(parcels, subset, thresholdMeters)
}

// OperatorSpacing computes, per operator, the mean distance from each
// antenna to its nearest same-operator neighbor. Operators with fewer than
// two antennas are skipped.
func OperatorSpacing(antennas []models.Antenna) (map[string]float64, error) {
	byOperator := make(map[string][]models.Antenna)
	for _, antenna := range antennas {
		byOperator[antenna.Operator] = append(byOperator[antenna.Operator], antenna)
	}

	spacing := make(map[string]float64)
	for operator, subset := range byOperator {
		if len(subset) < 2 {
			continue
		}

		var sum float64
		for i, antenna := range subset {
			minDist := math.MaxFloat64
			for j, other := range subset {
				if i == j {
					continue
				}
				dist, err := geo.Distance(antenna.Location, other.Location)
				if err != nil {
					return nil, err
				}
				if dist < minDist {
					minDist = dist
				}
			}
			sum += minDist
		}
		spacing[operator] = sum / float64(len(subset))
	}

	return spacing, nil
}

// CoverageStats summarizes an antenna dataset: coordinate bounds, total and
// unique antenna locations, and the sorted list of operators present.
type CoverageStats struct {
	MinLatitude     float64
	MaxLatitude     float64
	MinLongitude    float64
	MaxLongitude    float64
	Antennas        int
	UniqueLocations int
	Operators       []string
}

// Stats computes CoverageStats over the given antennas. It returns
// ErrNoAntennaData for an empty set.
func Stats(antennas []models.Antenna) (CoverageStats, error) {
	if len(antennas) == 0 {
		return CoverageStats{}, ErrNoAntennaData
	}

	stats := CoverageStats{
		MinLatitude:  antennas[0].Location.Latitude,
		MaxLatitude:  antennas[0].Location.Latitude,
		MinLongitude: antennas[0].Location.Longitude,
		MaxLongitude: antennas[0].Location.Longitude,
		Antennas:     len(antennas),
	}

	type coord struct{ lat, lon float64 }
	locations := make(map[coord]struct{}, len(antennas))
	operators := make(map[string]struct{})

	for _, antenna := range antennas {
		loc := antenna.Location
		stats.MinLatitude = math.Min(stats.MinLatitude, loc.Latitude)
		stats.MaxLatitude = math.Max(stats.MaxLatitude, loc.Latitude)
		stats.MinLongitude = math.Min(stats.MinLongitude, loc.Longitude)
		stats.MaxLongitude = math.Max(stats.MaxLongitude, loc.Longitude)
		locations[coord{loc.Latitude, loc.Longitude}] = struct{}{}
		operators[antenna.Operator] = struct{}{}
	}

	stats.UniqueLocations = len(locations)
	for operator := range operators {
		stats.Operators = append(stats.Operators, operator)
	}
	sort.Strings(stats.Operators)

	return stats, nil
}
