// Package model defines the core domain models used throughout the application.
package model

// Category is a fine-grained product classification used during detection and
// validation, before it is collapsed into a persisted ComponentType.
type Category string

// Built-in categories.
const (
	CategoryCPU             Category = "cpu"
	CategoryGPU             Category = "gpu"
	CategoryMotherboard     Category = "motherboard"
	CategoryRAM             Category = "ram"
	CategoryStorage         Category = "storage"
	CategoryExternalStorage Category = "external-storage"
	CategoryPSU             Category = "psu"
	CategoryCase            Category = "case"
	CategoryCaseAccessory   Category = "case-accessory"
	CategoryCaseFan         Category = "case-fan"
	CategoryCooler          Category = "cooler"
	CategoryMonitor         Category = "monitor"
	CategoryHeadphones      Category = "headphones"
	CategoryKeyboard        Category = "keyboard"
	CategoryMouse           Category = "mouse"
	CategoryOpticalDrive    Category = "optical-drive"
	CategorySpeakers        Category = "speakers"
	CategoryUPS             Category = "ups"
	CategoryWebcam          Category = "webcam"
)

// categoryTypes collapses categories (and the legacy source names some
// datasets use) into persisted types.
var categoryTypes = map[Category]ComponentType{
	CategoryCPU:             TypeCPU,
	CategoryGPU:             TypeGPU,
	CategoryRAM:             TypeRAM,
	"memory":                TypeRAM,
	CategoryStorage:         TypeStorage,
	"internal-hard-drive":   TypeStorage,
	"external-hard-drive":   TypeStorage,
	CategoryExternalStorage: TypeStorage,
	CategoryMotherboard:     TypeMotherboard,
	CategoryPSU:             TypePSU,
	"power-supply":          TypePSU,
	CategoryCase:            TypeCase,
	CategoryCooler:          TypeCooler,
	"cpu-cooler":            TypeCooler,
	CategoryMonitor:         TypeMonitor,
	CategoryCaseFan:         TypePeripheral,
	CategoryCaseAccessory:   TypePeripheral,
	"fan-controller":        TypePeripheral,
	CategoryKeyboard:        TypePeripheral,
	CategoryMouse:           TypePeripheral,
	CategorySpeakers:        TypePeripheral,
	CategoryHeadphones:      TypePeripheral,
	"headset":               TypePeripheral,
	CategoryWebcam:          TypePeripheral,
	"wired-network-card":    TypePeripheral,
	"wireless-network-card": TypePeripheral,
	"sound-card":            TypePeripheral,
	CategoryOpticalDrive:    TypePeripheral,
	"thermal-paste":         TypePeripheral,
	CategoryUPS:             TypePeripheral,
	"os":                    TypePeripheral,
}

// BuiltinCategories returns the categories that ship with a rule in the
// default catalog, in rule-table order.
func BuiltinCategories() []Category {
	return []Category{
		CategoryCPU, CategoryGPU, CategoryMotherboard, CategoryRAM,
		CategoryStorage, CategoryExternalStorage, CategoryPSU, CategoryCase,
		CategoryCaseAccessory, CategoryCaseFan, CategoryCooler, CategoryMonitor,
		CategoryHeadphones, CategoryKeyboard, CategoryMouse, CategoryOpticalDrive,
		CategorySpeakers, CategoryUPS, CategoryWebcam,
	}
}

// ComponentType maps the category onto its persisted type. The mapping is
// total: anything without an explicit entry is a peripheral.
func (c Category) ComponentType() ComponentType {
	if t, ok := categoryTypes[c]; ok {
		return t
	}
	return TypePeripheral
}

// Mapped reports whether the category has an explicit persisted-type entry.
func (c Category) Mapped() bool {
	_, ok := categoryTypes[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}
