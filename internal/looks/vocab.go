package looks

import "strings"

// Wardrobe slots, normalized to lowercase. allSlots is the fixed assembly
// order: outerwear and tops first so bottoms and accessories are scored
// against the pieces that dominate the silhouette.
const (
	SlotBaseTop         = "base top"
	SlotOuterwear       = "outerwear"
	SlotPrimaryBottom   = "primary bottom"
	SlotSecondaryBottom = "secondary bottom"
	SlotFootwear        = "footwear"
	SlotAccessory       = "accessory"
)

var allSlots = []string{
	SlotOuterwear,
	SlotBaseTop,
	SlotPrimaryBottom,
	SlotSecondaryBottom,
	SlotFootwear,
	SlotAccessory,
}

// Dimensions a look can be coherent along, in selection priority order.
const (
	DimensionOccasion  = "occasion"
	DimensionAesthetic = "aesthetic"
	DimensionColor     = "color"
	DimensionFormality = "formality"
)

// Color-strategy cluster values within DimensionColor.
const (
	ColorMonochrome = "monochrome"
	ColorNeutral    = "neutral"
	ColorAccent     = "accent"
	ColorTonal      = "tonal"
)

var dimensionPriority = map[string]int{
	DimensionOccasion:  0,
	DimensionAesthetic: 1,
	DimensionColor:     2,
	DimensionFormality: 3,
}

var dimensionLabels = map[string]string{
	DimensionOccasion:  "Occasion",
	DimensionAesthetic: "Aesthetic",
	DimensionColor:     "Color",
	DimensionFormality: "Formality",
}

var neutralColors = map[string]bool{
	"black": true,
	"white": true,
	"gray":  true,
	"grey":  true,
	"navy":  true,
	"beige": true,
	"cream": true,
	"brown": true,
	"tan":   true,
}

// Hue families for tonal/accent color strategies. Navy, brown and beige are
// neutrals for palette purposes but still belong to a family here.
var warmColors = map[string]bool{
	"red":    true,
	"orange": true,
	"yellow": true,
	"brown":  true,
	"beige":  true,
}

var coolColors = map[string]bool{
	"blue":   true,
	"navy":   true,
	"green":  true,
	"teal":   true,
	"purple": true,
}

// Outerwear categories with a closed silhouette. A closed layer hides the top
// underneath, so it never pairs with a statement top.
var closedOuterwearCategories = map[string]bool{
	"hoodie":     true,
	"knit":       true,
	"puffer":     true,
	"zip jacket": true,
}

// Accessory catalog entries that cannot be worn as part of an outfit. The
// catalog files phone cases and drinkware under Accessory too; those must
// never land in a look.
var unwearableAccessoryTypes = []string{
	"phone case", "airpod case", "airpods case", "tablet case", "iphone case",
	"laptop case", "laptop sleeve", "earbud case", "headphone case",
	"sticker", "poster", "figurine", "toy", "collectible", "plush",
	"candle", "incense", "home decor", "decoration", "vase", "pillow",
	"blanket", "towel", "rug", "mat",
	"water bottle", "tumbler", "mug", "cup", "flask", "thermos",
	"notebook", "pen", "pencil", "mousepad", "coaster",
	"keychain", "key chain", "lanyard", "carabiner",
	"perfume", "fragrance", "cologne", "body spray", "aftershave",
}

var wearableAccessoryTypes = []string{
	"bracelet", "necklace", "chain", "pendant", "ring", "earring", "earrings",
	"watch", "smartwatch",
	"hat", "cap", "beanie", "bucket hat", "snapback", "fitted cap", "visor",
	"beret", "fedora", "baseball cap", "dad hat", "trucker hat",
	"sunglasses", "glasses", "eyewear", "shades",
	"bag", "backpack", "duffle", "duffel", "tote", "messenger bag", "crossbody",
	"shoulder bag", "sling bag", "fanny pack", "belt bag", "clutch", "purse",
	"handbag", "satchel", "briefcase",
	"scarf", "bandana", "headband", "balaclava",
	"belt", "suspenders",
	"gloves", "mittens",
	"tie", "bow tie", "pocket square",
	"wallet", "card holder", "card case",
}

// normalizeSlot lowercases and trims a slot name as stored in the catalog.
func normalizeSlot(slot string) string {
	return strings.ToLower(strings.TrimSpace(slot))
}

func normalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}

func isNeutralColor(color string) bool {
	return neutralColors[normalizeColor(color)]
}

// hueFamily returns "warm", "cool" or "" for colors outside both families.
func hueFamily(color string) string {
	c := normalizeColor(color)
	switch {
	case warmColors[c]:
		return "warm"
	case coolColors[c]:
		return "cool"
	default:
		return ""
	}
}

// isAccentPair reports whether two colors sit in opposite hue families.
func isAccentPair(a, b string) bool {
	fa, fb := hueFamily(a), hueFamily(b)
	if fa == "" || fb == "" {
		return false
	}
	return fa != fb
}

func sameHueFamily(a, b string) bool {
	fa, fb := hueFamily(a), hueFamily(b)
	return fa != "" && fa == fb
}

// hasOverlapFold reports whether two tag sets share a value,
// case-insensitively. Empty sets are handled by the caller.
func hasOverlapFold(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[strings.ToLower(v)] = true
	}
	for _, v := range b {
		if set[strings.ToLower(v)] {
			return true
		}
	}
	return false
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func containsAnySubstring(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
