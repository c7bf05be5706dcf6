package rules

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Veraticus/partflow/internal/model"
)

// DefaultFilenameHints returns the built-in filename fragment table.
func DefaultFilenameHints() []FilenameHint {
	return []FilenameHint{
		{Match: "cpu-cooler", Category: model.CategoryCooler},
		{Match: "case-fan", Category: model.CategoryCaseFan},
		{Match: "case-accessory", Category: model.CategoryCaseAccessory},
		{Match: "external-hard-drive", Category: model.CategoryExternalStorage},
		{Match: "external-storage", Category: model.CategoryExternalStorage},
		{Match: "internal-hard-drive", Category: model.CategoryStorage},
		{Match: "hard-drive", Category: model.CategoryStorage},
		{Match: "hard_drive", Category: model.CategoryStorage},
		{Match: "video-card", Category: model.CategoryGPU},
		{Match: "graphics-card", Category: model.CategoryGPU},
		{Match: "video_cards", Category: model.CategoryGPU},
		{Match: "power-supply", Category: model.CategoryPSU},
		{Match: "power_supply", Category: model.CategoryPSU},
		{Match: "memory_ram", Category: model.CategoryRAM},
		{Match: "optical-drive", Category: model.CategoryOpticalDrive},
		{Match: "uninterruptible", Category: model.CategoryUPS},
		{Match: "cpu", Category: model.CategoryCPU},
		{Match: "processor", Category: model.CategoryCPU},
		{Match: "gpu", Category: model.CategoryGPU},
		{Match: "motherboard", Category: model.CategoryMotherboard},
		{Match: "mainboard", Category: model.CategoryMotherboard},
		{Match: "mobo", Category: model.CategoryMotherboard},
		{Match: "motherboards", Category: model.CategoryMotherboard},
		{Match: "ram", Category: model.CategoryRAM},
		{Match: "memory", Category: model.CategoryRAM},
		{Match: "storage", Category: model.CategoryStorage},
		{Match: "hdd", Category: model.CategoryStorage},
		{Match: "psu", Category: model.CategoryPSU},
		{Match: "case", Category: model.CategoryCase},
		{Match: "chassis", Category: model.CategoryCase},
		{Match: "cabinet", Category: model.CategoryCase},
		{Match: "cases", Category: model.CategoryCase},
		{Match: "cooler", Category: model.CategoryCooler},
		{Match: "monitor", Category: model.CategoryMonitor},
		{Match: "display", Category: model.CategoryMonitor},
		{Match: "headphones", Category: model.CategoryHeadphones},
		{Match: "headset", Category: model.CategoryHeadphones},
		{Match: "keyboard", Category: model.CategoryKeyboard},
		{Match: "mouse", Category: model.CategoryMouse},
		{Match: "optical", Category: model.CategoryOpticalDrive},
		{Match: "speakers", Category: model.CategorySpeakers},
		{Match: "speaker", Category: model.CategorySpeakers},
		{Match: "ups", Category: model.CategoryUPS},
		{Match: "webcam", Category: model.CategoryWebcam},
		{Match: "camera", Category: model.CategoryWebcam},
	}
}

// HintCategory derives a category from a source filename. An exact match of
// the base name (without extension) wins; otherwise the longest table entry
// contained in the name is used, earlier entries winning among equal lengths.
// It returns false when the filename carries no hint.
func (c *Catalog) HintCategory(filename string) (model.Category, bool) {
	base := filepath.Base(filename)
	name := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return "", false
	}

	for _, h := range c.hints {
		if h.Match == name {
			return h.Category, true
		}
	}

	ordered := make([]FilenameHint, len(c.hints))
	copy(ordered, c.hints)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Match) > len(ordered[j].Match)
	})

	for _, h := range ordered {
		if strings.Contains(name, h.Match) {
			return h.Category, true
		}
	}

	return "", false
}
