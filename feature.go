package ftp

import "strings"

// FeatureSet records which optional extensions a server advertised in its
// FEAT reply (spec.md §4.5). All fields default to false until Connect has
// completed feature negotiation.
type FeatureSet struct {
	MDTM bool
	SIZE bool
	MLST bool
	MLSD bool
	UTF8 bool
	MFMT bool
	EPSV bool
}

// parseFeatureLines turns a FEAT reply's lines into a FeatureSet. FEAT
// replies carry one feature per line, each indented with a single space;
// the first and last lines ("211-Features:" / "211 End") are not features
// and are ignored because they don't match any of the labels below.
func parseFeatureLines(lines []string) FeatureSet {
	var fs FeatureSet
	for _, line := range lines {
		word := strings.ToUpper(strings.TrimSpace(line))
		if sp := strings.IndexByte(word, ' '); sp >= 0 {
			word = word[:sp]
		}
		switch word {
		case "MDTM":
			fs.MDTM = true
		case "SIZE":
			fs.SIZE = true
		case "MLST":
			fs.MLST = true
			fs.MLSD = true // a server advertising MLST always supports MLSD too
		case "MLSD":
			fs.MLSD = true
		case "UTF8":
			fs.UTF8 = true
		case "MFMT":
			fs.MFMT = true
		case "EPSV":
			fs.EPSV = true
		}
	}
	return fs
}
