package editor

import (
	"strconv"
	"strings"
)

var defaultTranslations = map[string]string{
	"ITEM_SINGLE":        "{{count}} item",
	"ITEMS_MULTIPLE":     "{{count}} items",
	"KEY_NEW":            "Enter new key",
	"ERROR_KEY_EXISTS":   "Key already exists",
	"ERROR_INVALID_JSON": "Invalid JSON",
	"ERROR_UPDATE":       "Update unsuccessful",
	"ERROR_DELETE":       "Delete unsuccessful",
	"ERROR_ADD":          "Adding node unsuccessful",
	"ERROR_MOVE":         "Move unsuccessful",
	"ERROR_INVALID_DROP": "Cannot move a node into itself",
	"ERROR_INVALID_PATH": "Invalid path",
	"ERROR_RESTRICTED":   "Not permitted",
}

// Translate returns the localised string for key with "{{count}}"
// replaced by count. Unknown keys are returned as is.
func (e *Editor) Translate(key string, count int) string {
	s, ok := e.cfg.Translations[key]
	if !ok {
		s, ok = defaultTranslations[key]
	}
	if !ok {
		return key
	}
	return strings.ReplaceAll(s, "{{count}}", strconv.Itoa(count))
}

// ItemCount is the item count text shown next to a collection.
func (e *Editor) ItemCount(n int) string {
	if n == 1 {
		return e.Translate("ITEM_SINGLE", n)
	}
	return e.Translate("ITEMS_MULTIPLE", n)
}
