package airports

// builtinCityCodes maps destination display names to the IATA code of the
// city's primary (or closest major) airport. Harvest responses name cities,
// but calendar expansion needs airport codes; names missing here simply
// skip expansion, so the table favors destinations the explore surface
// actually returns.
var builtinCityCodes = map[string]string{
	// Europe
	"Lisbon":     "LIS",
	"Porto":      "OPO",
	"Faro":       "FAO",
	"Madrid":     "MAD",
	"Barcelona":  "BCN",
	"Paris":      "CDG",
	"London":     "LHR",
	"Dublin":     "DUB",
	"Amsterdam":  "AMS",
	"Rome":       "FCO",
	"Milan":      "MXP",
	"Venice":     "VCE",
	"Florence":   "FLR",
	"Athens":     "ATH",
	"Santorini":  "JTR",
	"Mykonos":    "JMK",
	"Istanbul":   "IST",
	"Antalya":    "AYT",
	"Vienna":     "VIE",
	"Prague":     "PRG",
	"Budapest":   "BUD",
	"Berlin":     "BER",
	"Munich":     "MUC",
	"Frankfurt":  "FRA",
	"Zurich":     "ZRH",
	"Geneva":     "GVA",
	"Copenhagen": "CPH",
	"Stockholm":  "ARN",
	"Oslo":       "OSL",
	"Helsinki":   "HEL",
	"Rovaniemi":  "RVN",
	"Reykjavik":  "KEF",
	"Edinburgh":  "EDI",
	"Glasgow":    "GLA",
	"Manchester": "MAN",
	"Brussels":   "BRU",
	"Nice":       "NCE",
	"Bordeaux":   "BOD",
	"Luxembourg": "LUX",
	"Malta":      "MLA",
	"Majorca":    "PMI",
	"Dubrovnik":  "DBV",
	"Split":      "SPU",
	"Zagreb":     "ZAG",
	"Krakow":     "KRK",
	"Warsaw":     "WAW",
	"Paphos":     "PFO",
	"Seville":    "SVQ",
	"Valencia":   "VLC",
	"Malaga":     "AGP",

	// North America
	"Mexico City":      "MEX",
	"Cancun":           "CUN",
	"Puerto Vallarta":  "PVR",
	"Cabo San Lucas":   "SJD",
	"Toronto":          "YYZ",
	"Montreal":         "YUL",
	"Halifax":          "YHZ",
	"Charlottetown":    "YYG",
	"Quebec City":      "YQB",
	"Vancouver":        "YVR",
	"Anchorage":        "ANC",
	"Fairbanks":        "FAI",
	"Honolulu":         "HNL",
	"Kauai":            "LIH",
	"Maui":             "OGG",
	"San Diego":        "SAN",
	"New Orleans":      "MSY",
	"Washington, D.C.": "DCA",
	"Bozeman":          "BZN",

	// Central America & Caribbean
	"San Jose":     "SJO",
	"Liberia":      "LIR",
	"Panama City":  "PTY",
	"Belize City":  "BZE",
	"San Salvador": "SAL",
	"Saint Lucia":  "UVF",
	"Barbados":     "BGI",
	"Bonaire":      "BON",
	"Curacao":      "CUR",
	"Aruba":        "AUA",
	"Nassau":       "NAS",
	"Montego Bay":  "MBJ",
	"Punta Cana":   "PUJ",
	"San Juan":     "SJU",
	"St. Thomas":   "STT",

	// South America
	"Rio de Janeiro": "GIG",
	"Sao Paulo":      "GRU",
	"Brasilia":       "BSB",
	"Salvador":       "SSA",
	"Manaus":         "MAO",
	"Buenos Aires":   "EZE",
	"Mendoza":        "MDZ",
	"Salta":          "SLA",
	"Ushuaia":        "USH",
	"Santiago":       "SCL",
	"Lima":           "LIM",
	"Cusco":          "CUZ",
	"Bogota":         "BOG",
	"Cartagena":      "CTG",
	"Medellin":       "MDE",
	"Santa Marta":    "SMR",
	"Quito":          "UIO",
	"Montevideo":     "MVD",
	"Punta del Este": "PDP",

	// Asia
	"Tokyo":            "NRT",
	"Osaka":            "KIX",
	"Seoul":            "ICN",
	"Taipei":           "TPE",
	"Hong Kong":        "HKG",
	"Bangkok":          "BKK",
	"Phuket":           "HKT",
	"Chiang Mai":       "CNX",
	"Singapore":        "SIN",
	"Kuala Lumpur":     "KUL",
	"Jakarta":          "CGK",
	"Bali":             "DPS",
	"Hanoi":            "HAN",
	"Ho Chi Minh City": "SGN",
	"Siem Reap":        "REP",
	"Manila":           "MNL",
	"Cebu":             "CEB",
	"Delhi":            "DEL",
	"Mumbai":           "BOM",
	"Bangalore":        "BLR",
	"Colombo":          "CMB",
	"Kathmandu":        "KTM",

	// Middle East
	"Dubai":        "DXB",
	"Abu Dhabi":    "AUH",
	"Doha":         "DOH",
	"Riyadh":       "RUH",
	"Kuwait City":  "KWI",
	"Bahrain":      "BAH",
	"Amman":        "AMM",
	"Petra":        "AMM",
	"Tel Aviv-Yafo": "TLV",
	"Jerusalem":    "TLV",
	"Tehran":       "IKA",
	"Erbil":        "EBL",
	"Sharjah":      "SHJ",
	"Salalah":      "SLL",
	"Cappadocia":   "ASR",

	// Africa
	"Marrakech":       "RAK",
	"Casablanca":      "CMN",
	"Cairo":           "CAI",
	"Luxor":           "LXR",
	"Sharm el-Sheikh": "SSH",
	"Nairobi":         "NBO",
	"Zanzibar":        "ZNZ",
	"Johannesburg":    "JNB",
	"Cape Town":       "CPT",
	"Durban":          "DUR",
	"Victoria Falls":  "VFA",
	"Addis Ababa":     "ADD",

	// Oceania
	"Sydney":       "SYD",
	"Melbourne":    "MEL",
	"Brisbane":     "BNE",
	"Perth":        "PER",
	"Auckland":     "AKL",
	"Christchurch": "CHC",
	"Queenstown":   "ZQN",
	"Fiji":         "NAN",
	"Tahiti":       "PPT",
	"Bora Bora":    "BOB",
	"Rangiroa":     "RGI",
}
