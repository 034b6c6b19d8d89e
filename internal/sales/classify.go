package sales

import (
	"regexp"
	"strconv"
	"strings"
)

// categoryRule matches either the lowercased title or the uppercased
// SKU. Rule order is load-bearing: the first match wins, so broad
// patterns must come after the specific ones they would shadow.
type categoryRule struct {
	pattern  *regexp.Regexp
	category string
	sku      bool
}

func titleRule(pattern, category string) categoryRule {
	return categoryRule{pattern: regexp.MustCompile(pattern), category: category}
}

func skuRule(pattern, category string) categoryRule {
	return categoryRule{pattern: regexp.MustCompile(pattern), category: category, sku: true}
}

var categoryRules = []categoryRule{
	// Program books
	titleRule(`program\s*book|programme\s*book|souvenir\s*program`, "Program Books"),
	skuRule(`BOOK$|SOUV$`, "Program Books"),
	skuRule(`^POLARBOOK`, "Program Books"),

	// Apparel
	titleRule(`t-?shirt|tee\b|shirt`, "Apparel - T-Shirts"),
	titleRule(`hoodie|sweatshirt|sweater|pullover`, "Apparel - Hoodies/Sweatshirts"),
	titleRule(`jacket|coat|outerwear`, "Apparel - Outerwear"),
	titleRule(`hat|cap|beanie`, "Apparel - Headwear"),
	titleRule(`socks?|sock\b`, "Apparel - Socks"),

	// Accessories
	titleRule(`poster|print|art\s*print`, "Posters & Prints"),
	titleRule(`mug|cup|tumbler|drinkware`, "Drinkware"),
	titleRule(`pin|enamel\s*pin|lapel`, "Pins & Badges"),
	titleRule(`keychain|key\s*chain|lanyard`, "Keychains & Lanyards"),
	titleRule(`bag|tote|backpack|pouch`, "Bags & Totes"),
	titleRule(`sticker|decal`, "Stickers"),
	titleRule(`magnet`, "Magnets"),
	titleRule(`patch|iron.on`, "Patches"),

	// Collectibles
	titleRule(`wand|replica`, "Collectibles & Replicas"),
	titleRule(`ornament`, "Ornaments"),
	titleRule(`figure|figurine|statue`, "Figures & Statues"),

	// Media
	titleRule(`vinyl|record|lp\b|album`, "Vinyl & Music"),
	titleRule(`cd\b|soundtrack`, "CDs & Soundtracks"),
	titleRule(`dvd|blu-?ray|video`, "DVDs & Video"),

	// Tickets & events
	titleRule(`ticket|admission|vip|meet.*greet|photo\s*op`, "Tickets & Experiences"),

	// Bundles
	titleRule(`bundle|pack|set|collection|combo`, "Bundles & Sets"),

	// Gift cards
	titleRule(`gift\s*card|e-?gift|voucher`, "Gift Cards"),
}

var filmNames = map[int]string{
	1: "Harry Potter 1 (Sorcerer's Stone)",
	2: "Harry Potter 2 (Chamber of Secrets)",
	3: "Harry Potter 3 (Prisoner of Azkaban)",
	4: "Harry Potter 4 (Goblet of Fire)",
	5: "Harry Potter 5 (Order of the Phoenix)",
	6: "Harry Potter 6 (Half-Blood Prince)",
	7: "Harry Potter 7 (Deathly Hallows Pt 1)",
	8: "Harry Potter 8 (Deathly Hallows Pt 2)",
}

var (
	// Greedy digit run, so HP10 reads as film 10, never film 1.
	hpSKUPattern   = regexp.MustCompile(`HP(\d+)`)
	hpTitlePattern = regexp.MustCompile(`(?:film\s*#?|#)(\d+)\b`)
)

// showDetector maps a title regex or SKU prefix onto a fixed display
// name. Tried in declaration order after the Harry Potter special case.
type showDetector struct {
	title     *regexp.Regexp
	skuPrefix string
	name      string
}

var showDetectors = []showDetector{
	{regexp.MustCompile(`\bpolar\s*express\b`), "POLAR", "The Polar Express"},
	{regexp.MustCompile(`\belf\b`), "ELF", "Elf"},
	{regexp.MustCompile(`\bhome\s*alone\b`), "HA", "Home Alone"},
	{regexp.MustCompile(`\bgodfather\b`), "GF", "The Godfather"},
	{regexp.MustCompile(`\bstar\s*trek\b`), "ST", "Star Trek"},
	{regexp.MustCompile(`\bjurassic\b`), "JP", "Jurassic Park"},
	{regexp.MustCompile(`\bback\s*to.*future\b`), "BTTF", "Back to the Future"},
	{regexp.MustCompile(`\bgladiator\b`), "GLAD", "Gladiator"},
	{regexp.MustCompile(`\btitanic\b`), "TIT", "Titanic"},
}

// titleSuffixes get stripped off the end of a title when no detector
// matched, leaving the show name the merch was printed for.
var titleSuffixes = []string{
	"- Program Book",
	"- Souvenir Program",
	"Program Book",
	"Souvenir Program",
	"- Collector Edition",
	"Collector Book",
}

/// Classify labels one line item. It is a pure function of (title, sku):
// no state, no iteration-order dependence.
func Classify(title, sku string) (category, show string) {
	return classifyCategory(title, sku), extractShow(title, sku)
}

func classifyCategory(title, sku string) string {
	titleLower := strings.ToLower(title)
	skuUpper := strings.ToUpper(sku)

	for _, rule := range categoryRules {
		if rule.sku {
			if rule.pattern.MatchString(skuUpper) {
				return rule.category
			}
		} else if rule.pattern.MatchString(titleLower) {
			return rule.category
		}
	}
	return "Other"
}

func extractShow(title, sku string) string {
	titleLower := strings.ToLower(title)
	skuUpper := strings.ToUpper(sku)

	if strings.Contains(titleLower, "harry potter") || strings.HasPrefix(skuUpper, "HP") {
		if m := hpSKUPattern.FindStringSubmatch(skuUpper); m != nil {
			if name := filmName(m[1]); name != "" {
				return name
			}
		}
		if m := hpTitlePattern.FindStringSubmatch(titleLower); m != nil {
			if name := filmName(m[1]); name != "" {
				return name
			}
		}
		return "Harry Potter (Unspecified)"
	}

	for _, d := range showDetectors {
		if d.title.MatchString(titleLower) || strings.HasPrefix(skuUpper, d.skuPrefix) {
			return d.name
		}
	}

	return cleanShowTitle(title)
}

// filmName resolves a parsed installment number; numbers outside the
// known range return "" so the caller falls through to the generic
// "(Unspecified)" label.
func filmName(digits string) string {
	num, err := strconv.Atoi(digits)
	if err != nil {
		return ""
	}
	return filmNames[num]
}

// cleanShowTitle strips one known merch suffix, but only when it sits
// at (or within a few characters of) the end of the title, so a
// mid-title occurrence is left alone. Only the first matching suffix is
// stripped; a stacked remainder stays part of the show name.
func cleanShowTitle(title string) string {
	clean := strings.TrimSpace(title)
	for _, suffix := range titleSuffixes {
		idx := strings.LastIndex(strings.ToLower(clean), strings.ToLower(suffix))
		if idx < 0 {
			continue
		}
		if idx > len(clean)-len(suffix)-5 {
			clean = strings.Trim(clean[:idx], " -")
			break
		}
	}
	if clean == "" {
		return "Unknown Show"
	}
	return clean
}
