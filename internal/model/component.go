package model

import (
	"strings"
	"time"
)

// ComponentType is the persisted catalog type. It is a closed set; several
// categories collapse into one type.
type ComponentType string

// Persisted component types.
const (
	TypeCPU         ComponentType = "cpu"
	TypeGPU         ComponentType = "gpu"
	TypeRAM         ComponentType = "ram"
	TypeStorage     ComponentType = "storage"
	TypeMotherboard ComponentType = "motherboard"
	TypePSU         ComponentType = "psu"
	TypeCase        ComponentType = "case"
	TypeCooler      ComponentType = "cooler"
	TypeMonitor     ComponentType = "monitor"
	TypePeripheral  ComponentType = "peripheral"
)

// AllComponentTypes returns every persisted type in schema order.
func AllComponentTypes() []ComponentType {
	return []ComponentType{
		TypeCPU, TypeGPU, TypeRAM, TypeStorage, TypeMotherboard,
		TypePSU, TypeCase, TypeCooler, TypeMonitor, TypePeripheral,
	}
}

// Valid reports whether t is one of the persisted types.
func (t ComponentType) Valid() bool {
	for _, known := range AllComponentTypes() {
		if t == known {
			return true
		}
	}
	return false
}

func (t ComponentType) String() string {
	return string(t)
}

// Component is the persisted catalog entity, unique on (Type, Brand, Model).
type Component struct {
	LastUpdated time.Time
	Type        ComponentType
	Brand       string
	Model       string
	Currency    string
	ImageURL    string
	SourceURL   string
	Specs       Specs
	Price       float64
	ID          int64
}

// ComponentKey identifies a component row.
type ComponentKey struct {
	Type  ComponentType
	Brand string
	Model string
}

// Key returns the uniqueness key of the component.
func (c Component) Key() ComponentKey {
	return ComponentKey{Type: c.Type, Brand: c.Brand, Model: c.Model}
}

func (k ComponentKey) String() string {
	return strings.Join([]string{string(k.Type), k.Brand, k.Model}, "/")
}
