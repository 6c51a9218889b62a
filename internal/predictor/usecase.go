package predictor

import "github.com/beaconx/disaster-predict/internal/artifact"

// UseCase is the closed set of prediction operations the service offers.
// Dispatch goes through this enum and the fixed key table below rather than
// free-form strings, so an unhandled case is a compile-time visible hole.
type UseCase int

const (
	EarthquakeSeverity UseCase = iota
	CyclonePath
	CycloneKinematics
	CycloneSeverity
)

var useCaseNames = [...]string{
	"earthquake_severity",
	"cyclone_path",
	"cyclone_kinematics",
	"cyclone_severity",
}

func (u UseCase) String() string {
	if u < EarthquakeSeverity || u > CycloneSeverity {
		return "unknown"
	}
	return useCaseNames[u]
}

// useCaseKeys maps each use case to the artifact that serves it.
var useCaseKeys = map[UseCase]artifact.Key{
	EarthquakeSeverity: {Domain: artifact.DomainEarthquake, Kind: artifact.KindSeverity},
	CyclonePath:        {Domain: artifact.DomainCyclone, Kind: artifact.KindPath},
	CycloneKinematics:  {Domain: artifact.DomainCyclone, Kind: artifact.KindKinematics},
	CycloneSeverity:    {Domain: artifact.DomainCyclone, Kind: artifact.KindSeverity},
}

// Key returns the artifact key backing this use case.
func (u UseCase) Key() artifact.Key { return useCaseKeys[u] }
