// Package docspec extracts :type and :rtype declarations from doc text.
package docspec

import "regexp"

var (
	typeRe  = regexp.MustCompile(`(?i):type\s+(\w+):\s+(\*?[\w./-]+)`)
	rtypeRe = regexp.MustCompile(`(?i):rtype:\s+(\*?[\w./-]+)`)
)

// Param is one ":type name: ref" declaration.
type Param struct {
	Name string
	Ref  string
}

// Doc holds the declarations found in a documentation block.
type Doc struct {
	// Params in order of appearance.
	Params []Param
	// Return is the :rtype reference; empty when none is declared.
	Return string
}

// Parse scans doc for declarations. The first :rtype wins.
func Parse(doc string) Doc {
	var d Doc
	for _, m := range typeRe.FindAllStringSubmatch(doc, -1) {
		d.Params = append(d.Params, Param{Name: m[1], Ref: m[2]})
	}
	if m := rtypeRe.FindStringSubmatch(doc); m != nil {
		d.Return = m[1]
	}
	return d
}
