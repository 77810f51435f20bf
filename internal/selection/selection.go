// Package selection implements the policies that decide which preview
// entries are mirrored and where they land in the output tree.
package selection

import "strings"

// Policy carries the flags shaping inclusion and output path.
// SelOnly decides inclusion, the remaining flags only reshape paths.
type Policy struct {
	SelOnly    bool // keep only entries under a selection marker
	LevelUpSel bool // strip marker components from the output path
	TopLevel   bool // collapse every output path to the root
	AddPrefix  bool // prefix file names with their parent directory
}

// Decision is the per-entry outcome of a Policy.
type Decision struct {
	Include bool
	OutDir  []string // output directory segments
	Prefix  string   // file name prefix including separator, "" when unset
}

// IsMarker reports whether a directory name is a selection marker.
func IsMarker(name string) bool {
	switch strings.ToLower(name) {
	case "sel", "selected":
		return true
	}
	return false
}

// Decide applies the policy to one preview entry's directory segments.
// The returned OutDir may alias dir when no reshaping was needed.
func (p Policy) Decide(dir []string) Decision {
	marked := false
	for _, seg := range dir {
		if IsMarker(seg) {
			marked = true
			break
		}
	}
	if p.SelOnly && !marked {
		return Decision{}
	}

	stripped := dir
	if marked {
		stripped = stripMarkers(dir)
	}
	out := dir
	if p.LevelUpSel {
		out = stripped
	}
	var prefix string
	if p.AddPrefix {
		if n := len(stripped); n > 0 {
			prefix = stripped[n-1] + "__"
		}
	}
	if p.TopLevel {
		out = nil
	}
	return Decision{Include: true, OutDir: out, Prefix: prefix}
}

// stripMarkers returns dir without its marker segments. Always copies.
func stripMarkers(dir []string) []string {
	out := make([]string, 0, len(dir))
	for _, seg := range dir {
		if IsMarker(seg) {
			continue
		}
		out = append(out, seg)
	}
	return out
}
