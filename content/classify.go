package content

import (
	"regexp"
	"strings"
)

// Kind tags a rendered block
type Kind string

const (
	KindText         Kind = "text"
	KindIllustration Kind = "illustration"
)

// imageURLPattern matches an absolute image URL, optionally followed by a
// query string. Greedy, so the match runs to the last image extension.
var imageURLPattern = regexp.MustCompile(`(?i)https?://.*\.(?:jpg|jpeg|png|gif|webp|svg)(?:\?.*)?`)

const imgMarker = "<img"

// Classify decides whether item is narrative text or an illustration. The
// first matching rule wins: explicit type, image URL in data, image markup in
// data. Anything else, including unrecognised object data, is text.
func Classify(item Item) Kind {
	switch item.Type {
	case "image", "illustration":
		return KindIllustration
	}

	s, ok := item.DataString()
	if !ok {
		return KindText
	}
	if imageURLPattern.MatchString(s) {
		return KindIllustration
	}
	if hasImgMarkup(s) {
		return KindIllustration
	}
	return KindText
}

func hasImgMarkup(s string) bool {
	return strings.Contains(strings.ToLower(s), imgMarker)
}
