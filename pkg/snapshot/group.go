// SPDX-License-Identifier: GPL-3.0-or-later

package snapshot

import "strings"

// Grouper partitions family names into display groups by naming
// convention. It is pure and total over valid family names.
type Grouper struct {
	// Namespace is the platform's metric namespace marker. Families named
	// <namespace>_<segment>_... group under "<namespace>_<segment>"; all
	// other names group under their first underscore-delimited segment.
	Namespace string
}

// Prefix returns the display group for a family name. Names without an
// underscore are their own group.
func (g Grouper) Prefix(name string) string {
	if g.Namespace != "" {
		if rest, ok := strings.CutPrefix(name, g.Namespace+"_"); ok {
			if i := strings.IndexByte(rest, '_'); i != -1 {
				return name[:len(g.Namespace)+1+i]
			}
			return name
		}
	}
	if i := strings.IndexByte(name, '_'); i != -1 {
		return name[:i]
	}
	return name
}
