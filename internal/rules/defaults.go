package rules

import "github.com/Veraticus/partflow/internal/model"

// DefaultRules returns the built-in category rules. Price ranges are in PHP.
// Order matters: detection breaks score ties in favour of earlier rules.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{
			Category:   model.CategoryCPU,
			Required:   []string{"processor", "cpu", "ryzen", "core i", "threadripper", "xeon", "pentium", "celeron", "athlon"},
			Brands:     []string{"AMD", "Intel"},
			Excluded:   []string{"cooler", "fan", "thermal", "paste", "bracket", "motherboard", "combo"},
			PriceRange: PriceRange{Min: 2000, Max: 150000},
			Patterns: []string{
				`ryzen\s+[3579]\s+\d{4}`,
				`core\s+i[3579]-\d{4,5}`,
				`threadripper`,
				`xeon`,
				`pentium`,
				`celeron`,
				`athlon`,
			},
		},
		{
			Category:   model.CategoryGPU,
			Required:   []string{"graphics", "video card", "gpu", "geforce", "radeon", "rtx", "gtx", "rx"},
			Brands:     []string{"NVIDIA", "AMD", "ASUS", "MSI", "Gigabyte", "EVGA", "Zotac", "Sapphire", "PowerColor", "XFX", "Palit", "Gainward", "Galax", "Inno3D"},
			Excluded:   []string{"cpu", "processor", "motherboard", "cable", "adapter", "riser"},
			PriceRange: PriceRange{Min: 3000, Max: 250000},
			Patterns: []string{
				`rtx\s*\d{4}(\s*ti|\s*super)?`,
				`gtx\s*\d{4}(\s*ti)?`,
				`rx\s*\d{4}(\s*xt)?`,
				`radeon\s+(rx|vega)`,
				`geforce`,
			},
		},
		{
			Category:   model.CategoryMotherboard,
			Required:   []string{"motherboard", "mainboard", "mobo", "chipset", "socket"},
			Brands:     []string{"ASUS", "MSI", "Gigabyte", "ASRock", "EVGA", "Biostar"},
			Excluded:   []string{"cpu", "gpu", "cooler", "cable", "bracket"},
			PriceRange: PriceRange{Min: 3000, Max: 100000},
			Patterns: []string{
				`[ABX]\d{3,4}`,
				`prime|rog|tuf|gaming|pro`,
				`socket\s*(am[45]|lga\s*\d{4})`,
			},
		},
		{
			Category:   model.CategoryRAM,
			Required:   []string{"memory", "ram", "ddr", "dimm"},
			Brands:     []string{"Corsair", "G.Skill", "Kingston", "Team", "Crucial", "ADATA", "Patriot", "HyperX"},
			Specs:      []string{"ddr4", "ddr5", "gb", "8gb", "16gb", "32gb", "64gb"},
			Excluded:   []string{"storage", "ssd", "hdd", "card reader", "flash drive"},
			PriceRange: PriceRange{Min: 800, Max: 80000},
			Patterns: []string{
				`ddr[45]`,
				`\d+gb`,
				`\d{4}mhz`,
				`(vengeance|trident|fury|elite|ripjaws)`,
			},
		},
		{
			Category:   model.CategoryStorage,
			Required:   []string{"ssd", "hdd", "hard drive", "nvme", "solid state", "storage"},
			Brands:     []string{"Samsung", "Western Digital", "WD", "Seagate", "Crucial", "Kingston", "ADATA", "Corsair", "Sandisk"},
			Specs:      []string{"nvme", "sata", "m.2", "2.5", "3.5", "pcie"},
			Excluded:   []string{"enclosure", "dock", "adapter", "cable", "case"},
			PriceRange: PriceRange{Min: 800, Max: 80000},
			Patterns: []string{
				`\d+gb|\d+tb`,
				`nvme|sata|m\.2`,
				`ssd|hdd`,
				`gen[34]`,
			},
		},
		{
			Category:   model.CategoryExternalStorage,
			Required:   []string{"external", "portable", "usb drive", "flash drive", "external hdd", "external ssd"},
			Brands:     []string{"Samsung", "Western Digital", "WD", "Seagate", "Crucial", "Kingston", "ADATA", "Corsair", "Sandisk", "Toshiba", "LaCie"},
			Specs:      []string{"usb", "portable", "external"},
			Excluded:   []string{"internal", "nvme", "m.2"},
			PriceRange: PriceRange{Min: 500, Max: 50000},
			Patterns: []string{
				`external`,
				`portable`,
				`usb\s*drive`,
				`flash\s*drive`,
			},
		},
		{
			Category:   model.CategoryPSU,
			Required:   []string{"power supply", "psu", "watt", "modular"},
			Brands:     []string{"Corsair", "Seasonic", "EVGA", "Cooler Master", "Thermaltake", "FSP", "Silverstone", "Be Quiet"},
			Specs:      []string{"bronze", "gold", "platinum", "titanium", "80 plus", "modular"},
			Excluded:   []string{"cable", "adapter", "ups", "surge"},
			PriceRange: PriceRange{Min: 1500, Max: 50000},
			Patterns: []string{
				`\d{3,4}w`,
				`(bronze|gold|platinum|titanium)`,
				`80\s*plus`,
				`(modular|semi-modular)`,
			},
		},
		{
			Category:   model.CategoryCase,
			Required:   []string{"case", "chassis", "tower", "cabinet"},
			Brands:     []string{"Corsair", "NZXT", "Cooler Master", "Thermaltake", "Fractal Design", "Phanteks", "Lian Li", "Deepcool"},
			Specs:      []string{"atx", "matx", "itx", "mid tower", "full tower"},
			Excluded:   []string{"fan", "cooler", "psu", "hard drive"},
			PriceRange: PriceRange{Min: 1000, Max: 50000},
			Patterns: []string{
				`(atx|matx|itx)`,
				`(mid|full|mini)\s*tower`,
				`chassis`,
			},
		},
		{
			Category:   model.CategoryCaseAccessory,
			Required:   []string{"led", "rgb", "lighting", "controller", "hub", "bracket", "adapter"},
			Brands:     []string{"NZXT", "Corsair", "Cooler Master", "Thermaltake", "Phanteks", "Lian Li", "Deepcool"},
			Specs:      []string{"rgb", "led", "controller", "hub"},
			Excluded:   []string{"fan", "cooler", "psu", "case"},
			PriceRange: PriceRange{Min: 200, Max: 20000},
			Patterns: []string{
				`hue|rgb|led|lighting`,
				`controller|hub`,
				`bracket|adapter`,
			},
		},
		{
			Category:   model.CategoryCaseFan,
			Required:   []string{"fan", "cooling fan", "case fan"},
			Brands:     []string{"Corsair", "Noctua", "Cooler Master", "Thermaltake", "be quiet!", "Arctic", "Lian Li", "Deepcool"},
			Specs:      []string{"fan", "rpm", "airflow", "pwm"},
			Excluded:   []string{"cpu cooler", "liquid cooler", "heatsink"},
			PriceRange: PriceRange{Min: 200, Max: 10000},
			Patterns: []string{
				`fan`,
				`\d+mm`,
				`rgb|led`,
				`pwm`,
			},
		},
		{
			Category:   model.CategoryCooler,
			Required:   []string{"cooler", "heatsink", "thermal", "liquid cooler", "aio"},
			Brands:     []string{"Noctua", "Cooler Master", "Corsair", "NZXT", "be quiet!", "Arctic", "Deepcool", "Thermaltake"},
			Specs:      []string{"cooler", "aio", "liquid", "heatsink"},
			Excluded:   []string{"case", "fan", "thermal paste"},
			PriceRange: PriceRange{Min: 500, Max: 30000},
			Patterns: []string{
				`cooler`,
				`aio|liquid`,
				`heatsink`,
			},
		},
		{
			Category:   model.CategoryMonitor,
			Required:   []string{"monitor", "display", "screen", "lcd", "led"},
			Brands:     []string{"ASUS", "Acer", "Dell", "Samsung", "LG", "BenQ", "MSI", "ViewSonic", "AOC"},
			Specs:      []string{"monitor", "display", "inch", "hz", "refresh rate"},
			Excluded:   []string{"tv", "projector", "stand"},
			PriceRange: PriceRange{Min: 3000, Max: 150000},
			Patterns: []string{
				`monitor|display`,
				`\d+"|\d+inch`,
				`\d+hz`,
			},
		},
		{
			Category:   model.CategoryHeadphones,
			Required:   []string{"headphone", "headset", "earphone", "earcup"},
			Brands:     []string{"Razer", "Logitech", "SteelSeries", "HyperX", "Corsair", "Sennheiser", "Audio-Technica", "Beyerdynamic"},
			Specs:      []string{"headphone", "headset", "audio"},
			Excluded:   []string{"speaker", "microphone only"},
			PriceRange: PriceRange{Min: 500, Max: 50000},
			Patterns: []string{
				`headphone|headset`,
				`audio|sound`,
				`gaming\s*headset`,
			},
		},
		{
			Category:   model.CategoryKeyboard,
			Required:   []string{"keyboard", "mechanical keyboard"},
			Brands:     []string{"Razer", "Logitech", "Corsair", "SteelSeries", "HyperX", "Cooler Master", "Ducky", "Keychron"},
			Specs:      []string{"keyboard", "mechanical", "rgb"},
			Excluded:   []string{"mouse", "keycap", "switch"},
			PriceRange: PriceRange{Min: 500, Max: 30000},
			Patterns: []string{
				`keyboard`,
				`mechanical`,
				`rgb`,
			},
		},
		{
			Category:   model.CategoryMouse,
			Required:   []string{"mouse", "gaming mouse"},
			Brands:     []string{"Razer", "Logitech", "SteelSeries", "Corsair", "HyperX", "Cooler Master"},
			Specs:      []string{"mouse", "gaming mouse", "dpi"},
			Excluded:   []string{"keyboard", "pad", "mat"},
			PriceRange: PriceRange{Min: 300, Max: 15000},
			Patterns: []string{
				`mouse`,
				`gaming\s*mouse`,
				`\d+dpi`,
			},
		},
		{
			Category:   model.CategoryOpticalDrive,
			Required:   []string{"optical", "dvd", "blu-ray", "cd", "burner"},
			Brands:     []string{"LG", "ASUS", "Pioneer", "Samsung"},
			Specs:      []string{"dvd", "blu-ray", "cd", "burner"},
			Excluded:   []string{"external", "case", "software"},
			PriceRange: PriceRange{Min: 1000, Max: 15000},
			Patterns: []string{
				`dvd|blu-ray|cd`,
				`burner|writer`,
				`optical`,
			},
		},
		{
			Category:   model.CategorySpeakers,
			Required:   []string{"speaker", "soundbar", "woofer"},
			Brands:     []string{"Logitech", "Creative", "Bose", "JBL", "Edifier", "Razer"},
			Specs:      []string{"speaker", "soundbar", "woofer"},
			Excluded:   []string{"headphone", "microphone"},
			PriceRange: PriceRange{Min: 500, Max: 50000},
			Patterns: []string{
				`speaker`,
				`soundbar`,
				`\d+\.\d`, // channel layouts: 2.0, 2.1, 5.1
			},
		},
		{
			Category:   model.CategoryUPS,
			Required:   []string{"ups", "uninterruptible", "battery backup"},
			Brands:     []string{"APC", "CyberPower", "Eaton", "Tripp Lite"},
			Specs:      []string{"ups", "uninterruptible", "va", "watt"},
			Excluded:   []string{"psu", "battery", "adapter"},
			PriceRange: PriceRange{Min: 2000, Max: 100000},
			Patterns: []string{
				`ups`,
				`uninterruptible`,
				`\d+va`,
			},
		},
		{
			Category:   model.CategoryWebcam,
			Required:   []string{"webcam", "camera", "web camera"},
			Brands:     []string{"Logitech", "Microsoft", "Razer", "Creative", "AverMedia"},
			Specs:      []string{"webcam", "camera", "1080p", "4k"},
			Excluded:   []string{"security camera", "action camera"},
			PriceRange: PriceRange{Min: 500, Max: 20000},
			Patterns: []string{
				`webcam`,
				`camera`,
				`\d+p|4k`,
			},
		},
	}
}

// DefaultBrandAliases returns the built-in brand alias table. Order matters:
// the first alias found in a model string decides the brand.
func DefaultBrandAliases() []BrandAlias {
	return []BrandAlias{
		{Brand: "ASUS", Aliases: []string{"asus", "tuf", "rog", "strix", "prime", "proart", "dual", "phoenix"}},
		{Brand: "MSI", Aliases: []string{"msi", "gaming x", "ventus", "suprim", "mech", "armor"}},
		{Brand: "Gigabyte", Aliases: []string{"gigabyte", "aorus", "gaming oc", "eagle", "windforce"}},
		{Brand: "ASRock", Aliases: []string{"asrock", "phantom", "taichi", "steel legend"}},
		{Brand: "EVGA", Aliases: []string{"evga", "ftw3", "xc3"}},
		{Brand: "Zotac", Aliases: []string{"zotac", "trinity", "amp"}},
		{Brand: "Sapphire", Aliases: []string{"sapphire", "nitro", "pulse"}},
		{Brand: "PowerColor", Aliases: []string{"powercolor", "red devil", "red dragon"}},
		{Brand: "XFX", Aliases: []string{"xfx", "speedster", "qick"}},
		{Brand: "Palit", Aliases: []string{"palit", "gamerock", "gamingpro"}},
		{Brand: "AMD", Aliases: []string{"amd", "ryzen", "radeon", "athlon", "threadripper"}},
		{Brand: "Intel", Aliases: []string{"intel", "core", "pentium", "celeron", "xeon"}},
		{Brand: "NVIDIA", Aliases: []string{"nvidia", "geforce"}},
		{Brand: "Corsair", Aliases: []string{"corsair", "vengeance", "dominator", "icue"}},
		{Brand: "G.Skill", Aliases: []string{"g.skill", "g skill", "gskill", "trident", "ripjaws"}},
		{Brand: "Kingston", Aliases: []string{"kingston", "hyperx", "fury"}},
		{Brand: "Team", Aliases: []string{"team", "team group", "t-force", "elite"}},
		{Brand: "Crucial", Aliases: []string{"crucial", "ballistix"}},
		{Brand: "ADATA", Aliases: []string{"adata", "xpg", "spectrix"}},
		{Brand: "Samsung", Aliases: []string{"samsung", "980", "990"}},
		{Brand: "Western Digital", Aliases: []string{"western digital", "wd", "wd_black", "wd black", "wd blue"}},
		{Brand: "Seagate", Aliases: []string{"seagate", "barracuda", "firecuda"}},
		{Brand: "Sandisk", Aliases: []string{"sandisk", "ultra", "extreme"}},
		{Brand: "Seasonic", Aliases: []string{"seasonic", "focus", "prime"}},
		{Brand: "Cooler Master", Aliases: []string{"cooler master", "masterbox", "masterwatt"}},
		{Brand: "Thermaltake", Aliases: []string{"thermaltake", "toughpower", "smart"}},
		{Brand: "FSP", Aliases: []string{"fsp", "hydro"}},
		{Brand: "Be Quiet", Aliases: []string{"be quiet", "be quiet!", "pure power", "straight power"}},
		{Brand: "NZXT", Aliases: []string{"nzxt", "h510", "h710"}},
		{Brand: "Fractal Design", Aliases: []string{"fractal", "fractal design", "define", "meshify"}},
		{Brand: "Phanteks", Aliases: []string{"phanteks", "eclipse"}},
		{Brand: "Lian Li", Aliases: []string{"lian li", "lian-li", "o11"}},
		{Brand: "Deepcool", Aliases: []string{"deepcool", "matrexx"}},
		{Brand: "Noctua", Aliases: []string{"noctua"}},
		{Brand: "Arctic", Aliases: []string{"arctic"}},
		{Brand: "Razer", Aliases: []string{"razer", "blackshark", "deathadder", "blackwidow"}},
		{Brand: "Logitech", Aliases: []string{"logitech", "g pro", "g305", "g502", "g903"}},
		{Brand: "SteelSeries", Aliases: []string{"steelseries", "arctis", "apex"}},
		{Brand: "HyperX", Aliases: []string{"hyperx", "cloud"}},
		{Brand: "Acer", Aliases: []string{"acer", "predator", "nitro"}},
		{Brand: "Dell", Aliases: []string{"dell", "alienware"}},
		{Brand: "LG", Aliases: []string{"lg"}},
		{Brand: "BenQ", Aliases: []string{"benq"}},
		{Brand: "ViewSonic", Aliases: []string{"viewsonic"}},
		{Brand: "AOC", Aliases: []string{"aoc"}},
		{Brand: "Creative", Aliases: []string{"creative", "labs", "pebble"}},
		{Brand: "APC", Aliases: []string{"apc"}},
		{Brand: "CyberPower", Aliases: []string{"cyberpower"}},
		{Brand: "Microsoft", Aliases: []string{"microsoft"}},
	}
}
