package models

// Closed sets. Every enum type implements Valid so the "enum" validation tag can
// check it without repeating the members in struct tags.

type CropType string

const (
	CropTypeCereal    CropType = "Cereal"
	CropTypePulse     CropType = "Pulse"
	CropTypeVegetable CropType = "Vegetable"
	CropTypeFruit     CropType = "Fruit"
	CropTypeCashCrop  CropType = "Cash Crop"
	CropTypeOther     CropType = "Other"
)

func (t CropType) Valid() bool {
	switch t {
	case CropTypeCereal, CropTypePulse, CropTypeVegetable, CropTypeFruit, CropTypeCashCrop, CropTypeOther:
		return true
	}
	return false
}

type AreaUnit string

const (
	AreaUnitAcre    AreaUnit = "acre"
	AreaUnitHectare AreaUnit = "hectare"
	AreaUnitBigha   AreaUnit = "bigha"
)

func (u AreaUnit) Valid() bool {
	return u == AreaUnitAcre || u == AreaUnitHectare || u == AreaUnitBigha
}

// CropStatus is the lifecycle of a crop record.
type CropStatus string

const (
	CropStatusPlanned   CropStatus = "Planned"
	CropStatusPlanted   CropStatus = "Planted"
	CropStatusGrowing   CropStatus = "Growing"
	CropStatusHarvested CropStatus = "Harvested"
	CropStatusFailed    CropStatus = "Failed"
)

func (s CropStatus) Valid() bool {
	switch s {
	case CropStatusPlanned, CropStatusPlanted, CropStatusGrowing, CropStatusHarvested, CropStatusFailed:
		return true
	}
	return false
}

type Season string

const (
	SeasonKharif    Season = "Kharif"
	SeasonRabi      Season = "Rabi"
	SeasonZaid      Season = "Zaid"
	SeasonPerennial Season = "Perennial"
)

func (s Season) Valid() bool {
	return s == SeasonKharif || s == SeasonRabi || s == SeasonZaid || s == SeasonPerennial
}

type YieldUnit string

const (
	YieldUnitKg      YieldUnit = "kg"
	YieldUnitQuintal YieldUnit = "quintal"
	YieldUnitTon     YieldUnit = "ton"
)

func (u YieldUnit) Valid() bool {
	return u == YieldUnitKg || u == YieldUnitQuintal || u == YieldUnitTon
}

type ResourceType string

const (
	ResourceSeed       ResourceType = "Seed"
	ResourceFertilizer ResourceType = "Fertilizer"
	ResourcePesticide  ResourceType = "Pesticide"
	ResourceEquipment  ResourceType = "Equipment"
	ResourceLabor      ResourceType = "Labor"
	ResourceWater      ResourceType = "Water"
	ResourceFuel       ResourceType = "Fuel"
	ResourceOther      ResourceType = "Other"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceSeed, ResourceFertilizer, ResourcePesticide, ResourceEquipment,
		ResourceLabor, ResourceWater, ResourceFuel, ResourceOther:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentPartial PaymentStatus = "Partial"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentPending || s == PaymentPartial
}

type SoilType string

const (
	SoilAlluvial SoilType = "Alluvial"
	SoilBlack    SoilType = "Black"
	SoilRed      SoilType = "Red"
	SoilLaterite SoilType = "Laterite"
	SoilDesert   SoilType = "Desert"
	SoilMountain SoilType = "Mountain"
	SoilClay     SoilType = "Clay"
	SoilSandy    SoilType = "Sandy"
	SoilLoamy    SoilType = "Loamy"
	SoilOther    SoilType = "Other"
)

func (s SoilType) Valid() bool {
	switch s {
	case SoilAlluvial, SoilBlack, SoilRed, SoilLaterite, SoilDesert,
		SoilMountain, SoilClay, SoilSandy, SoilLoamy, SoilOther:
		return true
	}
	return false
}

type IrrigationType string

const (
	IrrigationDrip      IrrigationType = "Drip"
	IrrigationSprinkler IrrigationType = "Sprinkler"
	IrrigationFlood     IrrigationType = "Flood"
	IrrigationRainFed   IrrigationType = "Rain-fed"
	IrrigationCanal     IrrigationType = "Canal"
	IrrigationTubeWell  IrrigationType = "Tube-well"
	IrrigationOther     IrrigationType = "Other"
)

func (t IrrigationType) Valid() bool {
	switch t {
	case IrrigationDrip, IrrigationSprinkler, IrrigationFlood, IrrigationRainFed,
		IrrigationCanal, IrrigationTubeWell, IrrigationOther:
		return true
	}
	return false
}
