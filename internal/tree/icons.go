package tree

// typeIcons keys icons by decoded property type. The lookup is total: unmapped
// types fall back to DefaultIcon.
var typeIcons = map[string]string{
	"StructProperty": "◆",
	"ArrayProperty":  "▤",
	"MapProperty":    "▦",
	"BoolProperty":   "◐",
	"ByteProperty":   "•",
	"IntProperty":    "#",
	"Int64Property":  "#",
	"UInt64Property": "#",
	"FloatProperty":  "~",
	"DoubleProperty": "~",
	"StrProperty":    "❝",
	"TextProperty":   "❝",
	"NameProperty":   "@",
	"ObjectProperty": "◎",
}

const (
	// DefaultIcon marks nodes whose type has no dedicated icon.
	DefaultIcon = "·"
	// EqualsIcon marks the synthetic value row under a value leaf.
	EqualsIcon = "="
)

// IconFor returns the icon for a property type, falling back to DefaultIcon.
func IconFor(typ string) string {
	if icon, ok := typeIcons[typ]; ok {
		return icon
	}
	return DefaultIcon
}
