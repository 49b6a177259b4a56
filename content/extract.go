package content

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
)

// Illustration is the normalized image reference of an illustration item
type Illustration struct {
	ImageURL string
	Caption  string
}

// Extract resolves the image URL and caption of an item classified as an
// illustration. Later sources override earlier ones: a URL or markup parsed
// from data, then the explicit imageUrl and caption fields. When nothing
// yields a URL the raw data is used as is and the view falls back to a
// placeholder. Extract never fails; Caption is empty rather than missing.
func Extract(item Item) Illustration {
	var ill Illustration

	if s, ok := item.DataString(); ok {
		if m := imageURLPattern.FindString(s); m != "" {
			ill.ImageURL = m
			ill.Caption = strings.TrimSpace(strings.Replace(s, m, "", 1))
		} else if hasImgMarkup(s) {
			ill.ImageURL, ill.Caption, _ = imgFromMarkup(s)
		}
	} else if item.hasData() {
		ill.ImageURL, ill.Caption, _ = imgFromObject(item.Data)
	}

	if item.ImageURL != "" {
		ill.ImageURL = item.ImageURL
	}
	if item.Caption != "" {
		ill.Caption = item.Caption
	}

	if ill.ImageURL == "" && item.hasData() {
		ill.ImageURL = item.dataText()
	}
	return ill
}

// imgFromMarkup returns src and alt (falling back to title) of the first img
// element in fragment. It only tokenizes, so nesting and malformed markup are
// not repaired; the first well-formed img start tag wins.
func imgFromMarkup(fragment string) (src, caption string, ok bool) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" {
				continue
			}
			var alt, title string
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch string(key) {
				case "src":
					src = string(val)
				case "alt":
					alt = string(val)
				case "title":
					title = string(val)
				}
			}
			caption = alt
			if caption == "" {
				caption = title
			}
			return strings.TrimSpace(src), strings.TrimSpace(caption), true
		}
	}
}

// imgFromObject reads structured data such as {"url": "...", "alt": "..."}
func imgFromObject(raw json.RawMessage) (src, caption string, ok bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", "", false
	}
	src = firstString(obj, "imageUrl", "url", "src")
	caption = firstString(obj, "caption", "alt", "title")
	return src, caption, src != ""
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// UsableImageURL reports whether u can be handed to an image viewer: an
// http(s) URL, protocol-relative or site-relative. The verbatim fallback of
// Extract often is not.
func UsableImageURL(u string) bool {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "/") {
		return len(u) > 1 && !strings.ContainsAny(u, " \t\n<>\"")
	}
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return len(u) > len("https://") && !strings.ContainsAny(u, " \t\n<>\"")
}
