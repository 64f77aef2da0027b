package models

// FenceType enumerates the fence products a contractor can quote.
type FenceType string

const (
	FenceWoodPrivacy FenceType = "wood_privacy"
	FenceWoodPicket  FenceType = "wood_picket"
	FenceChainLink   FenceType = "chain_link"
	FenceVinyl       FenceType = "vinyl"
	FenceAluminum    FenceType = "aluminum"
)

// FenceTypes lists every supported fence type in display order.
var FenceTypes = []FenceType{FenceWoodPrivacy, FenceWoodPicket, FenceChainLink, FenceVinyl, FenceAluminum}

// Valid reports whether t is one of the supported fence types.
func (t FenceType) Valid() bool {
	for _, known := range FenceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Terrain describes how hard the ground is to work.
type Terrain string

const (
	TerrainFlat   Terrain = "flat"
	TerrainSloped Terrain = "sloped"
	TerrainRocky  Terrain = "rocky"
)

// Terrains lists every supported terrain.
var Terrains = []Terrain{TerrainFlat, TerrainSloped, TerrainRocky}

// Valid reports whether t is a known terrain.
func (t Terrain) Valid() bool {
	switch t {
	case TerrainFlat, TerrainSloped, TerrainRocky:
		return true
	}
	return false
}

// InfillStyle determines how the space between posts is filled and priced.
type InfillStyle string

const (
	InfillPickets InfillStyle = "pickets"
	InfillPanels  InfillStyle = "panels"
	InfillFabric  InfillStyle = "fabric"
)
