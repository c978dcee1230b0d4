package models

import "strings"

// packaging preference
const (
	PackagingReusable    = "reusable"
	PackagingCompostable = "compostable"
	PackagingMinimal     = "minimal"
)

// eco reward points per packaging type
const (
	ecoRewardReusable    = 30
	ecoRewardCompostable = 20
	ecoRewardMinimal     = 10
)

// driver green delivery incentives, points per delivery
const (
	driverIncentiveEV      = 25
	driverIncentiveBike    = 30
	driverIncentiveScooter = 15
	driverIncentiveDefault = 5
)

// CombineRewardPoints is credited to each customer involved in a combined delivery
const CombineRewardPoints = 20

// NormalizePackaging returns known packaging preference, defaulting to minimal
func NormalizePackaging(p string) string {
	switch p {
	case PackagingReusable, PackagingCompostable, PackagingMinimal:
		return p
	}
	return PackagingMinimal
}

// EcoReward returns eco reward points for packaging preference
func EcoReward(packaging string) int {
	switch packaging {
	case PackagingReusable:
		return ecoRewardReusable
	case PackagingCompostable:
		return ecoRewardCompostable
	default:
		return ecoRewardMinimal
	}
}

// DriverIncentive returns delivery incentive points based on vehicle type
func DriverIncentive(vehicleType string) int {
	vt := strings.ToLower(vehicleType)
	switch {
	case vt == "":
		return driverIncentiveDefault
	case strings.Contains(vt, "ev"), strings.Contains(vt, "electric"):
		return driverIncentiveEV
	case strings.Contains(vt, "bike"), strings.Contains(vt, "bicycle"):
		return driverIncentiveBike
	case strings.Contains(vt, "scooter"), strings.Contains(vt, "low"):
		return driverIncentiveScooter
	default:
		return driverIncentiveDefault
	}
}
