package normalize

import (
	"strings"

	"github.com/Veraticus/partflow/internal/model"
)

// SpecFields is the ordered allow-list of fields carried into Specs.
var SpecFields = []string{
	"speed", "cores", "threads", "chipset", "memory", "capacity", "wattage", "socket",
	"form_factor", "interface", "type", "clock_speed", "memory_size", "memory_type",
	"efficiency_rating", "core_count", "thread_count", "base_clock", "boost_clock",
	"memory_clock", "memory_bandwidth", "tdp", "efficiency", "modular", "sata_ports",
	"m2_slots", "pcie_slots", "dimms", "speed_mhz", "timing", "cas_latency", "size", "color",
	"rpm", "airflow", "noise_level", "pwm", "external_volume", "internal_35_bays", "side_panel",
	"frequency_response", "microphone", "wireless", "enclosure_type", "price_per_gb", "cache",
	"bd", "dvd", "cd", "bd_write", "dvd_write", "cd_write", "configuration", "capacity_w",
	"capacity_va", "resolutions", "connection", "focus_type", "os", "fov", "screen_size",
	"resolution", "refresh_rate", "response_time", "panel_type", "aspect_ratio",
	"tracking_method", "max_dpi", "hand_orientation", "style", "switches", "backlit",
	"tenkeyless", "connection_type", "modules", "first_word_latency", "max_memory",
	"memory_slots", "length",
}

// ExtractSpecs copies the allow-listed, non-empty fields of raw in
// allow-list order.
func ExtractSpecs(raw model.RawRecord) model.Specs {
	specs := model.Specs{}
	for _, key := range SpecFields {
		v, ok := raw[key]
		if !ok || isEmpty(v) {
			continue
		}
		specs = append(specs, model.SpecField{Key: key, Value: v})
	}
	return specs
}

// isEmpty treats nil, blank strings, zero numbers, false and empty
// collections as absent.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		return s == "" || s == "0"
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	if f, ok := ParsePrice(v); ok {
		return f == 0
	}
	return false
}
