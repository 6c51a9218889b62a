package domain

import "github.com/golang/geo/s2"

const earthRadiusKm = 6371.0

// refPoint is a named reference coordinate.
type refPoint struct {
	name string
	lat  float64
	lon  float64
}

// majorCities are the population centers the earthquake feature pipeline
// measures proximity against. The set mirrors the training data's reference
// table; changing it changes the feature distribution and requires retraining.
var majorCities = []refPoint{
	{"Tokyo", 35.6762, 139.6503},
	{"Delhi", 28.7041, 77.1025},
	{"Shanghai", 31.2304, 121.4737},
	{"Dhaka", 23.8103, 90.4125},
	{"Mexico City", 19.4326, -99.1332},
	{"Cairo", 30.0444, 31.2357},
	{"Mumbai", 19.0760, 72.8777},
	{"Beijing", 39.9042, 116.4074},
	{"Osaka", 34.6937, 135.5023},
	{"Karachi", 24.8607, 67.0011},
	{"Istanbul", 41.0082, 28.9784},
	{"Manila", 14.5995, 120.9842},
	{"Lagos", 6.5244, 3.3792},
	{"Los Angeles", 34.0522, -118.2437},
	{"Jakarta", -6.2088, 106.8456},
	{"Lima", -12.0464, -77.0428},
	{"Santiago", -33.4489, -70.6693},
	{"San Francisco", 37.7749, -122.4194},
	{"Anchorage", 61.2181, -149.9003},
	{"Wellington", -41.2866, 174.7756},
}

// faultLines are sample points along major active fault systems and
// subduction zones, used for the distance-to-nearest-fault feature.
var faultLines = []refPoint{
	{"San Andreas (Parkfield)", 35.8997, -120.4327},
	{"San Andreas (San Bernardino)", 34.1083, -117.2898},
	{"Cascadia Subduction Zone", 44.0000, -125.0000},
	{"Denali Fault", 63.5000, -147.0000},
	{"Middle America Trench", 15.0000, -94.0000},
	{"Peru-Chile Trench", -20.0000, -71.0000},
	{"North Anatolian Fault", 40.8000, 31.0000},
	{"East Anatolian Fault", 37.5000, 37.5000},
	{"Main Himalayan Thrust", 28.0000, 84.0000},
	{"Sagaing Fault", 21.5000, 96.0000},
	{"Sumatra Megathrust", 2.0000, 97.0000},
	{"Java Trench", -10.0000, 110.0000},
	{"Philippine Trench", 10.0000, 127.0000},
	{"Nankai Trough", 33.0000, 136.0000},
	{"Japan Trench", 38.0000, 143.5000},
	{"Kuril-Kamchatka Trench", 47.0000, 155.0000},
	{"Alpine Fault", -43.5000, 170.0000},
	{"Hikurangi Margin", -40.0000, 177.5000},
	{"East African Rift", -3.0000, 36.0000},
	{"Dead Sea Transform", 32.0000, 35.5000},
}

// greatCircleKm returns the great-circle distance between two coordinates in
// kilometers.
func greatCircleKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

// NearestCityKm returns the distance from (lat, lon) to the nearest major
// city in the reference table, in kilometers.
func NearestCityKm(lat, lon float64) float64 {
	return nearestKm(lat, lon, majorCities)
}

// NearestFaultKm returns the distance from (lat, lon) to the nearest sampled
// fault-line point, in kilometers.
func NearestFaultKm(lat, lon float64) float64 {
	return nearestKm(lat, lon, faultLines)
}

func nearestKm(lat, lon float64, points []refPoint) float64 {
	best := -1.0
	for _, p := range points {
		d := greatCircleKm(lat, lon, p.lat, p.lon)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
