package rules

// Rules run against the folded (trimmed, lower-cased) value.
var raceRules = []Rule{
	{Name: "black", Pattern: `^black.*`, Replace: "Black"},
	{Name: "blk", Pattern: `^blk`, Replace: "Black"},
	// must run before the single-character cleanup below
	{Name: "hispanic", Pattern: `^.*hispanic.*$`, Replace: "Hispanic"},
	{Name: "spanish", Pattern: `^s?panish.*`, Replace: "Hispanic"},
	{Name: "white", Pattern: `^whi.*`, Replace: "White"},
	{Name: "wwh", Pattern: `^wwh`, Replace: "White"},
	{Name: "single-char", Pattern: `^\w$`, Replace: ""},
	{Name: "api", Pattern: `^api`, Replace: "Asian/Pacific Islander"},
	{Name: "asian", Pattern: `^.*asian.*$`, Replace: "Asian/Pacific Islander"},
	{Name: "alaskan", Pattern: `^.*alaskan.*$`, Replace: "Native American/Alaskan Native"},
	{Name: "unknown", Pattern: `^unknown$`, Replace: ""},
}

// Both patterns are anchored, so "female" never reaches the "male" rule.
var genderRules = []Rule{
	{Name: "male", Pattern: `^male.*`, Replace: "M"},
	{Name: "female", Pattern: `^female.*`, Replace: "F"},
	{Name: "upper", Op: "upper"},
}

var boolRules = []Rule{
	{Name: "no", Pattern: `^no?$`, Replace: "F"},
	{Name: "yes", Pattern: `^y(es)?$`, Replace: "T"},
	{Name: "upper", Op: "upper"},
}

const (
	RaceCascade   = "race"
	GenderCascade = "gender"
	BoolCascade   = "bool"
)

var (
	Race   = MustCompile(RaceCascade, raceRules)
	Gender = MustCompile(GenderCascade, genderRules)
	Bool   = MustCompile(BoolCascade, boolRules)

	RaceWhitelist = NewWhitelist(
		"Black",
		"Hispanic",
		"White",
		"Asian/Pacific Islander",
		"Native American/Alaskan Native",
		"",
	)
	GenderWhitelist  = NewWhitelist("M", "F", "X", "")
	FindingWhitelist = NewWhitelist("UN", "EX", "NS", "SU", "NC", "NA", "DS", "ZZ", "")
)

// Findings maps the exact (lower-cased) finding names to their codes.
var Findings = map[string]string{
	"unfounded":      "UN",
	"exonerated":     "EX",
	"not sustained":  "NS",
	"sustained":      "SU",
	"no cooperation": "NC",
	"no affidavit":   "NA",
	"discharged":     "DS",
	"unknown":        "ZZ",
}

// Directions maps the single-letter compass codes to full words.
var Directions = map[string]string{
	"W": "West",
	"E": "East",
	"S": "South",
	"N": "North",
}

// Defaults returns the built-in registry. Each call returns a fresh Set that
// shares the compiled cascades.
func Defaults() *Set {
	return &Set{
		Cascades: map[string]*Cascade{
			RaceCascade:   Race,
			GenderCascade: Gender,
			BoolCascade:   Bool,
		},
		Whitelists: map[string]Whitelist{
			RaceCascade:   RaceWhitelist,
			GenderCascade: GenderWhitelist,
			"finding":     FindingWhitelist,
		},
	}
}
