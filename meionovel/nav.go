package meionovel

import "strings"

// Navigation links of a chapter, each of the form "<novelSlug>/<chapterSlug>"
type Navigation struct {
	Prev string `json:"prev"`
	Next string `json:"next"`
	All  string `json:"all"`
}

// NavLink is a parsed navigation reference
type NavLink struct {
	Novel   string
	Chapter string
}

// ParseNavLink splits "<novelSlug>/<chapterSlug>". The novel slug is the first
// segment; the chapter slug is the rest, or the whole value when there is no
// separator.
func ParseNavLink(s string) (NavLink, bool) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return NavLink{}, false
	}
	novel, chapter, found := strings.Cut(s, "/")
	if !found {
		return NavLink{Novel: novel, Chapter: s}, true
	}
	return NavLink{Novel: novel, Chapter: chapter}, true
}

// PrevLink returns the previous chapter, if any
func (n *Navigation) PrevLink() (NavLink, bool) {
	if n == nil {
		return NavLink{}, false
	}
	return ParseNavLink(n.Prev)
}

// NextLink returns the next chapter, if any
func (n *Navigation) NextLink() (NavLink, bool) {
	if n == nil {
		return NavLink{}, false
	}
	return ParseNavLink(n.Next)
}

// NovelSlug returns the slug of the novel the chapter list belongs to
func (n *Navigation) NovelSlug() string {
	if n == nil {
		return ""
	}
	l, _ := ParseNavLink(n.All)
	return l.Novel
}
