package validator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/feedcheck/feedcheck/pkg/feed"
)

// evaluateRecord runs every rule family against one record, in family order.
// Families never short-circuit on earlier failures.
func (rn *run) evaluateRecord(idx int, r feed.Record) {
	id := r.ID()

	rn.checkFlags(idx, id, r)
	rn.checkIdentity(idx, r)
	rn.checkText(idx, id, r)
	rn.checkLinks(idx, id, r)
	rn.checkCategorization(idx, id, r)
	rn.checkPhysical(idx, id, r)
	rn.checkPricing(idx, id, r)
	rn.checkAvailability(idx, id, r)
	rn.checkVariants(idx, id, r)
	rn.checkPickup(idx, id, r)
	rn.checkMerchant(idx, id, r)
	rn.checkRelationship(idx, id, r)
	rn.checkRecommendedEmpty(idx, id, r)
	rn.trackOptional(r)
	rn.checkUnknownKeys(idx, id, r)
}

// checkFlags validates enable_search/enable_checkout and their dependency.
// The flags are case-sensitive lower-case booleans.
func (rn *run) checkFlags(idx int, id string, r feed.Record) {
	es := r.Get("enable_search")
	ec := r.Get("enable_checkout")

	if !rn.tables.InEnum("boolean", es) {
		rn.push(idx, id, "enable_search", "OF-100", SeverityError,
			`enable_search must be "true" or "false" (lower-case).`, es)
	}
	if !rn.tables.InEnum("boolean", ec) {
		rn.push(idx, id, "enable_checkout", "OF-101", SeverityError,
			`enable_checkout must be "true" or "false" (lower-case).`, ec)
	}
	if ec == "true" && es != "true" {
		rn.push(idx, id, "enable_checkout", "OF-102", SeverityError,
			"enable_checkout can only be true when enable_search is true.", ec)
	}
}

// checkIdentity validates the id field and tracks duplicates across the run.
// The duplicate check keys on the normalized string value, not case-folded;
// only the second and later occurrences are flagged.
func (rn *run) checkIdentity(idx int, r feed.Record) {
	id := r.Get("id")
	if id == "" {
		rn.push(idx, id, "id", "OF-110", SeverityError, "id is required.", id)
		return
	}

	if utf8.RuneCountInString(id) > 100 {
		rn.push(idx, id, "id", "OF-111", SeverityError,
			"id exceeds 100 characters.", truncate(id, 120))
	}
	if !rn.tables.MatchPattern("id_charset", id) {
		rn.push(idx, id, "id", "OF-112", SeverityWarning,
			"id should be alphanumeric plus . _ - only.", id)
	}
	if _, dup := rn.seenIDs[id]; dup {
		rn.push(idx, id, "id", "OF-113", SeverityError, "Duplicate id found.", id)
	}
	rn.seenIDs[id] = struct{}{}
}

func (rn *run) checkText(idx int, id string, r feed.Record) {
	title := r.Get("title")
	if title == "" {
		rn.push(idx, id, "title", "OF-120", SeverityError, "title is required.", title)
	} else {
		if utf8.RuneCountInString(title) > 150 {
			rn.push(idx, id, "title", "OF-121", SeverityWarning,
				"title exceeds 150 characters.", truncate(title, 180))
		}
		if isAllUpper(title) {
			rn.push(idx, id, "title", "OF-122", SeverityWarning,
				"Avoid ALL-CAPS titles.", title)
		}
	}

	desc := r.Get("description")
	if desc == "" {
		rn.push(idx, id, "description", "OF-130", SeverityError, "description is required.", desc)
	} else {
		if utf8.RuneCountInString(desc) > 5000 {
			rn.push(idx, id, "description", "OF-131", SeverityWarning,
				"description exceeds 5,000 characters.", truncate(desc, 80))
		}
		if rn.tables.MatchPattern("html_tag", desc) {
			rn.push(idx, id, "description", "OF-132", SeverityWarning,
				"description should be plain text (HTML detected).", truncate(desc, 80))
		}
	}
}

// checkLinks validates the required link/image_link URLs and the optional
// media links, which only warn when malformed.
func (rn *run) checkLinks(idx int, id string, r feed.Record) {
	link := r.Get("link")
	if link == "" {
		rn.push(idx, id, "link", "OF-140", SeverityError, "link is required.", link)
	} else if !rn.tables.MatchPattern("url", link) {
		rn.push(idx, id, "link", "OF-141", SeverityError,
			"link must be a valid http(s) URL.", link)
	}

	img := r.Get("image_link")
	if img == "" {
		rn.push(idx, id, "image_link", "OF-190", SeverityError, "image_link is required.", img)
	} else if !rn.tables.MatchPattern("url", img) {
		rn.push(idx, id, "image_link", "OF-191", SeverityError,
			"image_link must be a valid http(s) URL.", img)
	}

	if v := r.Get("video_link"); v != "" && !rn.tables.MatchPattern("url", v) {
		rn.push(idx, id, "video_link", "OF-250", SeverityWarning,
			"video_link must be a valid http(s) URL.", v)
	}
	if m := r.Get("model_3d_link"); m != "" && !rn.tables.MatchPattern("url", m) {
		rn.push(idx, id, "model_3d_link", "OF-251", SeverityWarning,
			"model_3d_link must be a valid http(s) URL.", m)
	}
}

func (rn *run) checkCategorization(idx int, id string, r feed.Record) {
	pc := r.Get("product_category")
	if pc == "" {
		rn.push(idx, id, "product_category", "OF-150", SeverityError,
			"product_category is required.", pc)
	} else if !strings.Contains(pc, ">") {
		rn.push(idx, id, "product_category", "OF-151", SeverityWarning,
			"product_category should use '>' as a separator (e.g., A > B).", pc)
	}

	brand := r.Get("brand")
	if brand == "" {
		rn.push(idx, id, "brand", "OF-160", SeverityError, "brand is required.", brand)
	} else if utf8.RuneCountInString(brand) > 70 {
		rn.push(idx, id, "brand", "OF-161", SeverityWarning,
			"brand exceeds 70 characters.", truncate(brand, 90))
	}

	material := r.Get("material")
	if material == "" {
		rn.push(idx, id, "material", "OF-170", SeverityError, "material is required.", material)
	} else if utf8.RuneCountInString(material) > 100 {
		rn.push(idx, id, "material", "OF-171", SeverityWarning,
			"material exceeds 100 characters.", truncate(material, 120))
	}
}

// checkPhysical validates weight and the length/width/height trio. Supplying
// some but not all dimensions is a warning, as are missing units.
func (rn *run) checkPhysical(idx int, id string, r feed.Record) {
	weight := r.Get("weight")
	if weight == "" {
		rn.push(idx, id, "weight", "OF-180", SeverityError,
			"weight is required (e.g., '1.5 lb').", weight)
	} else if !rn.tables.MatchPattern("weight", weight) {
		rn.push(idx, id, "weight", "OF-181", SeverityError,
			"weight must be a positive number with unit (lb, lbs, kg, g, oz).", weight)
	}

	dimFields := []string{"length", "width", "height"}
	var provided []string
	for _, f := range dimFields {
		if r.Get(f) != "" {
			provided = append(provided, r.Get(f))
		}
	}
	if len(provided) > 0 && len(provided) != len(dimFields) {
		rn.push(idx, id, "length/width/height", "OF-240", SeverityWarning,
			"Provide all of length, width, and height when using individual dimension fields.",
			strings.Join(provided, ", "))
	}
	for _, f := range dimFields {
		if v := r.Get(f); v != "" && !rn.tables.MatchPattern("dimension", v) {
			rn.push(idx, id, f, "OF-241", SeverityWarning,
				fmt.Sprintf("%s should include units (mm/cm/in).", f), v)
		}
	}
}

// checkPricing validates price, the sale_price coupling, and the
// unit_pricing_measure/base_measure pairing.
func (rn *run) checkPricing(idx int, id string, r feed.Record) {
	price := r.Get("price")
	if price == "" {
		rn.push(idx, id, "price", "OF-200", SeverityError, "price is required.", price)
	} else if !rn.tables.MatchPattern("price", price) {
		rn.push(idx, id, "price", "OF-201", SeverityError,
			`price must be "<number> <ISO4217>", e.g., "79.99 USD".`, price)
	}

	if sp := r.Get("sale_price"); sp != "" {
		if !rn.tables.MatchPattern("price", sp) {
			rn.push(idx, id, "sale_price", "OF-260", SeverityError,
				`sale_price must be "<number> <ISO4217>".`, sp)
		} else {
			pAmount, pOK := parsePriceAmount(price)
			spAmount, spOK := parsePriceAmount(sp)
			if pOK && spOK && spAmount > pAmount {
				rn.push(idx, id, "sale_price", "OF-261", SeverityError,
					"sale_price must be less than or equal to price.", sp)
			}
		}

		spd := r.Get("sale_price_effective_date")
		re := rn.tables.Pattern("date_range")
		m := re.FindStringSubmatch(spd)
		if spd == "" || m == nil {
			rn.push(idx, id, "sale_price_effective_date", "OF-262", SeverityError,
				"sale_price_effective_date is required with sale_price and must be 'YYYY-MM-DD / YYYY-MM-DD'.", spd)
		} else if m[1] >= m[2] {
			rn.push(idx, id, "sale_price_effective_date", "OF-263", SeverityError,
				"sale_price_effective_date start must precede end.", spd)
		}
	}

	upm := r.Get("unit_pricing_measure")
	bm := r.Get("base_measure")
	if (upm != "" || bm != "") && (upm == "" || bm == "") {
		rn.push(idx, id, "unit_pricing_measure/base_measure", "OF-270", SeverityError,
			"unit_pricing_measure and base_measure must be provided together.",
			fmt.Sprintf("%s | %s", upm, bm))
	}
}

// checkAvailability validates availability, inventory_quantity, the preorder
// date dependency, and the optional expiration_date.
func (rn *run) checkAvailability(idx int, id string, r feed.Record) {
	avail := strings.ToLower(r.Get("availability"))
	if avail == "" {
		rn.push(idx, id, "availability", "OF-210", SeverityError,
			"availability is required.", avail)
	} else if !rn.tables.InEnum("availability", avail) {
		rn.push(idx, id, "availability", "OF-211", SeverityError,
			`availability must be one of: "in_stock", "out_of_stock", "preorder".`, avail)
	}

	invq := r.Get("inventory_quantity")
	if invq == "" {
		rn.push(idx, id, "inventory_quantity", "OF-212", SeverityError,
			"inventory_quantity is required.", invq)
	} else if !validQuantity(invq) {
		rn.push(idx, id, "inventory_quantity", "OF-213", SeverityError,
			"inventory_quantity must be a non-negative integer.", invq)
	}

	if avail == "preorder" {
		ad := r.Get("availability_date")
		if ad == "" || !rn.tables.MatchPattern("iso_date", ad) || !rn.isFutureDate(ad) {
			rn.push(idx, id, "availability_date", "OF-214", SeverityError,
				"availability_date (YYYY-MM-DD) is required for preorder and must be a future date.", ad)
		}
	}

	if exp := r.Get("expiration_date"); exp != "" {
		if !rn.tables.MatchPattern("iso_date", exp) || !rn.isFutureDate(exp) {
			rn.push(idx, id, "expiration_date", "OF-280", SeverityWarning,
				"expiration_date must be a future ISO date (YYYY-MM-DD).", exp)
		}
	}
}

// checkVariants enforces the item_group_id dependency when any variant
// attribute is present, plus the variant enum shapes.
func (rn *run) checkVariants(idx int, id string, r feed.Record) {
	if variantHint(r) && r.Get("item_group_id") == "" {
		rn.push(idx, id, "item_group_id", "OF-230", SeverityError,
			"item_group_id is required when variant attributes are present.", r.Get("item_group_id"))
	}

	if g := r.Get("gender"); g != "" && !rn.tables.InEnum("gender", strings.ToLower(g)) {
		rn.push(idx, id, "gender", "OF-231", SeverityWarning,
			`gender must be one of: "male", "female", "unisex".`, g)
	}
	if ss := r.Get("size_system"); ss != "" && !rn.tables.MatchPattern("country_alpha2", ss) {
		rn.push(idx, id, "size_system", "OF-232", SeverityWarning,
			"size_system must be a 2-letter ISO 3166 country code.", ss)
	}
	if c := r.Get("condition"); c != "" && !rn.tables.InEnum("condition", strings.ToLower(c)) {
		rn.push(idx, id, "condition", "OF-233", SeverityWarning,
			`condition must be one of: "new", "refurbished", "used".`, c)
	}
	if ag := r.Get("age_group"); ag != "" && !rn.tables.InEnum("age_group", strings.ToLower(ag)) {
		rn.push(idx, id, "age_group", "OF-234", SeverityWarning,
			`age_group must be one of: "newborn", "infant", "toddler", "kids", "adult".`, ag)
	}
}

func (rn *run) checkPickup(idx int, id string, r feed.Record) {
	if pm := r.Get("pickup_method"); pm != "" && !rn.tables.InEnum("pickup_method", pm) {
		rn.push(idx, id, "pickup_method", "OF-281", SeverityWarning,
			`pickup_method must be one of: "in_store", "reserve", "not_supported".`, pm)
	}
	if sla := r.Get("pickup_sla"); sla != "" && !rn.tables.MatchPattern("pickup_sla", sla) {
		rn.push(idx, id, "pickup_sla", "OF-282", SeverityWarning,
			"pickup_sla should be a positive integer + unit (e.g., '1 day').", sla)
	}
}

// checkMerchant validates seller identity, the checkout policy dependencies,
// and the returns contract.
func (rn *run) checkMerchant(idx int, id string, r feed.Record) {
	sn := r.Get("seller_name")
	if sn == "" {
		rn.push(idx, id, "seller_name", "OF-290", SeverityError, "seller_name is required.", sn)
	} else if utf8.RuneCountInString(sn) > 70 {
		rn.push(idx, id, "seller_name", "OF-291", SeverityWarning,
			"seller_name exceeds 70 characters.", truncate(sn, 80))
	}

	su := r.Get("seller_url")
	if su == "" {
		rn.push(idx, id, "seller_url", "OF-292", SeverityError, "seller_url is required.", su)
	} else if !rn.tables.MatchPattern("url", su) {
		rn.push(idx, id, "seller_url", "OF-293", SeverityError,
			"seller_url must be a valid http(s) URL.", su)
	}

	if r.Get("enable_checkout") == "true" {
		if spp := r.Get("seller_privacy_policy"); spp == "" || !rn.tables.MatchPattern("url", spp) {
			rn.push(idx, id, "seller_privacy_policy", "OF-294", SeverityError,
				"seller_privacy_policy URL is required when enable_checkout is true.", spp)
		}
		if tos := r.Get("seller_tos"); tos == "" || !rn.tables.MatchPattern("url", tos) {
			rn.push(idx, id, "seller_tos", "OF-295", SeverityError,
				"seller_tos URL is required when enable_checkout is true.", tos)
		}
	}

	if rp := r.Get("return_policy"); rp == "" || !rn.tables.MatchPattern("url", rp) {
		rn.push(idx, id, "return_policy", "OF-296", SeverityError,
			"return_policy URL is required.", rp)
	}

	rw := r.Get("return_window")
	if rw == "" {
		rn.push(idx, id, "return_window", "OF-297", SeverityError,
			"return_window (days) is required.", rw)
	} else if days, err := strconv.Atoi(rw); err != nil || days <= 0 {
		rn.push(idx, id, "return_window", "OF-298", SeverityError,
			"return_window must be a positive integer (days).", rw)
	}
}

func (rn *run) checkRelationship(idx int, id string, r feed.Record) {
	if rt := r.Get("relationship_type"); rt != "" && !rn.tables.InEnum("relationship_type", rt) {
		rn.push(idx, id, "relationship_type", "OF-299", SeverityWarning,
			"relationship_type must be one of the documented values.", rt)
	}
}

// checkRecommendedEmpty warns for recommended fields supplied as a key but
// left blank. Context-dependent fields are only checked inside the context
// that makes them meaningful.
func (rn *run) checkRecommendedEmpty(idx int, id string, r feed.Record) {
	for _, f := range rn.tables.Recommended {
		if !r.Has(f) || r.Get(f) != "" {
			continue
		}
		if !recommendedApplies(f, r) {
			continue
		}
		rn.push(idx, id, f, "OF-REC", SeverityWarning,
			fmt.Sprintf("%q is recommended but empty.", f), r.Get(f))
	}
}

// recommendedApplies gates the recommended-but-empty check for fields that
// only carry meaning in a specific record context.
func recommendedApplies(field string, r feed.Record) bool {
	switch field {
	case "availability_date":
		return strings.ToLower(r.Get("availability")) == "preorder"
	case "seller_privacy_policy", "seller_tos":
		return r.Get("enable_checkout") == "true"
	case "color", "size", "size_system", "gender", "item_group_id":
		return variantHint(r)
	}
	return true
}

// trackOptional records which recommended fields appeared as a key, feeding
// the dataset-level opportunity pass.
func (rn *run) trackOptional(r feed.Record) {
	for _, f := range rn.tables.Recommended {
		if r.Has(f) {
			rn.seenOptional[f] = struct{}{}
		}
	}
}

// checkUnknownKeys warns about keys outside the canonical vocabulary that
// are an edit or two away from a known field, a common source of silently
// ignored data.
func (rn *run) checkUnknownKeys(idx int, id string, r feed.Record) {
	var unknown []string
	for k := range r {
		if !rn.tables.IsKnown(k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	for _, k := range unknown {
		if suggestion, ok := feed.Suggest(k, rn.vocab); ok {
			rn.push(idx, id, k, "OF-090", SeverityWarning,
				fmt.Sprintf("Unknown field %q; did you mean %q?", k, suggestion), "")
		}
	}
}

// variantHint reports whether any variant attribute carries a value.
func variantHint(r feed.Record) bool {
	for _, f := range []string{"color", "size", "size_system", "gender"} {
		if r.Get(f) != "" {
			return true
		}
	}
	return false
}

// validQuantity reports whether s is a non-negative quantity. Fractional
// values like "2.9" truncate and are accepted, but only plain decimal syntax
// counts: NaN, infinities, and hex floats are rejected.
func validQuantity(s string) bool {
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 0
	}
	qty, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return false
	}
	// ParseFloat also accepts hex float syntax, which no feed legitimately
	// uses.
	return !strings.ContainsAny(s, "xX")
}

// parsePriceAmount extracts the numeric amount from a "<number> <CUR>" value.
func parsePriceAmount(v string) (float64, bool) {
	parts := strings.Fields(strings.TrimSpace(v))
	if len(parts) != 2 {
		return 0, false
	}
	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// isFutureDate reports whether s is a well-formed ISO date strictly after
// the run's injected current date.
func (rn *run) isFutureDate(s string) bool {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	return t.After(rn.today)
}

// isAllUpper reports whether s contains at least one cased character and no
// lower-case ones.
func isAllUpper(s string) bool {
	upper := strings.ToUpper(s)
	return s == upper && upper != strings.ToLower(s)
}

// truncate shortens s to at most n runes for use as a sample value.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
