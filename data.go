/*
File: data.go
Version: 1.1.0
Description: Static data tables used by the feature extractor, the pattern
             matcher and the trust/category classifiers. Kept in one place so
             tuning does not require touching pipeline code.
*/

package main

// trustedDomains is the curated allow list of well-known registrable domains.
// Matching is exact or dot-suffix after stripping a leading "www.".
var trustedDomains = map[string]struct{}{
	"google.com":     {},
	"gmail.com":      {},
	"youtube.com":    {},
	"facebook.com":   {},
	"instagram.com":  {},
	"twitter.com":    {},
	"x.com":          {},
	"microsoft.com":  {},
	"office.com":     {},
	"outlook.com":    {},
	"linkedin.com":   {},
	"apple.com":      {},
	"icloud.com":     {},
	"amazon.com":     {},
	"paypal.com":     {},
	"github.com":     {},
	"dropbox.com":    {},
	"netflix.com":    {},
	"spotify.com":    {},
	"wikipedia.org":  {},
	"adobe.com":      {},
	"cloudflare.com": {},
	"wordpress.com":  {},
	"yahoo.com":      {},
	"twitch.tv":      {},
	"reddit.com":     {},
	"pinterest.com":  {},
	"ebay.com":       {},
	"zoom.us":        {},
	"slack.com":      {},
	"shopify.com":    {},
}

// domainCategories maps well-known registrable domains to a display category.
// Domains not listed here are classified by categoryKeywords, defaulting to
// "general".
var domainCategories = map[string]string{
	"google.com":     "Search Engine",
	"gmail.com":      "Email Service",
	"youtube.com":    "Video Platform",
	"facebook.com":   "Social Media",
	"instagram.com":  "Social Media",
	"twitter.com":    "Social Media",
	"x.com":          "Social Media",
	"microsoft.com":  "Technology",
	"office.com":     "Productivity",
	"outlook.com":    "Email Service",
	"linkedin.com":   "Professional Network",
	"apple.com":      "Technology",
	"icloud.com":     "Cloud Storage",
	"amazon.com":     "E-Commerce",
	"paypal.com":     "Financial Service",
	"github.com":     "Developer Platform",
	"dropbox.com":    "Cloud Storage",
	"netflix.com":    "Streaming",
	"spotify.com":    "Streaming",
	"wikipedia.org":  "Reference",
	"adobe.com":      "Technology",
	"cloudflare.com": "Infrastructure",
	"wordpress.com":  "Publishing",
	"yahoo.com":      "Web Portal",
	"twitch.tv":      "Streaming",
	"reddit.com":     "Social Media",
	"pinterest.com":  "Social Media",
	"ebay.com":       "E-Commerce",
	"zoom.us":        "Communication",
	"slack.com":      "Communication",
	"shopify.com":    "E-Commerce",
}

// trustedTLDs are regulated suffixes that cannot be bulk-registered
// anonymously. They raise the popularity heuristic, never the trust verdict.
var trustedTLDs = map[string]struct{}{
	"gov": {}, "edu": {}, "mil": {},
	"uk": {}, "ca": {}, "au": {}, "nz": {}, "jp": {}, "fr": {}, "de": {},
	"it": {}, "es": {}, "dk": {}, "ch": {}, "se": {}, "no": {}, "fi": {},
	"ie": {}, "nl": {},
	"museum": {}, "post": {}, "int": {}, "aero": {}, "coop": {},
	"name": {}, "jobs": {}, "travel": {},
}

// categoryKeywords classify domains that are not on the curated list by
// vocabulary found in the registrable name.
var categoryKeywords = map[string][]string{
	"technology":    {"tech", "software", "hardware", "cloud", "data", "hosting", "app", "device"},
	"search_engine": {"search", "google", "bing", "yahoo", "baidu", "yandex", "duckduckgo"},
	"social_media":  {"social", "community", "connect", "network", "share", "follow", "friend", "post", "like"},
	"ecommerce":     {"shop", "store", "buy", "sell", "market", "price", "deal", "discount", "order", "shipping"},
	"news":          {"news", "journal", "times", "daily", "post", "herald", "tribune", "gazette", "press"},
	"education":     {"edu", "learn", "course", "class", "school", "college", "university", "academy", "training"},
	"finance":       {"bank", "finance", "money", "invest", "loan", "credit", "insurance", "pay", "tax"},
	"healthcare":    {"health", "medical", "doctor", "hospital", "clinic", "care", "patient", "therapy", "wellness"},
	"government":    {"gov", "government", "state", "federal", "county", "city", "agency", "department", "official"},
	"entertainment": {"entertainment", "game", "play", "fun", "movie", "film", "music", "video", "stream", "theater"},
	"travel":        {"travel", "trip", "tour", "hotel", "flight", "vacation", "booking", "reservation", "destination"},
}

// riskyTLDScores is the lexical TLD risk table. TLDs not present score
// defaultTLDScore.
var riskyTLDScores = map[string]float64{
	"xyz":    0.7,
	"top":    0.65,
	"loan":   0.85,
	"bid":    0.8,
	"online": 0.75,
	"site":   0.7,
	"club":   0.65,
	"stream": 0.8,
	"icu":    0.75,
	"live":   0.6,
	"vip":    0.7,
	"fit":    0.6,
	"tk":     0.8,
	"ml":     0.75,
	"ga":     0.75,
	"cf":     0.7,
}

const defaultTLDScore = 0.2

// patternSuspiciousTLDs feeds the "Suspicious TLD" signature. Broader than the
// lexical score table on purpose: the pattern is a binary flag, the score table
// is graded.
var patternSuspiciousTLDs = map[string]struct{}{
	"tk": {}, "ml": {}, "ga": {}, "cf": {}, "gq": {},
	"top": {}, "xyz": {}, "online": {}, "site": {}, "club": {},
	"icu": {}, "pw": {}, "rest": {}, "zip": {},
}

// highRiskSuspiciousTLDs and mediumRiskSuspiciousTLDs grade the reputation
// feature rep_suspicious_tld_category (2 / 1 / 0).
var highRiskSuspiciousTLDs = map[string]struct{}{
	"tk": {}, "ml": {}, "ga": {}, "cf": {}, "gq": {},
	"xyz": {}, "top": {}, "icu": {}, "rest": {}, "zip": {},
}

var mediumRiskSuspiciousTLDs = map[string]struct{}{
	"online": {}, "site": {}, "club": {}, "live": {},
	"vip": {}, "fit": {}, "pw": {},
}

// featureKeywords are phishing lure words counted by the keyword_count
// feature (lowercased substring match).
var featureKeywords = []string{
	"login", "signin", "account", "secure", "update", "verify",
	"confirm", "banking", "payment", "wallet", "ebay", "paypal",
}

// patternKeywords feed the "Suspicious keywords" signature. Broader than the
// feature list, it also covers pressure vocabulary like "suspended" and
// "unusual" that lure words alone miss.
var patternKeywords = []string{
	"login", "signin", "verify", "secure", "account", "update",
	"confirm", "password", "credential", "wallet", "authenticate",
	"verification", "banking", "security", "alert", "suspended", "unusual",
}

// urlShorteners are matched against the base domain exactly or as a parent of
// a subdomain.
var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co", "is.gd",
	"buff.ly", "ow.ly", "rebrand.ly", "tr.im",
}

// brandTerms are looked for in page titles to detect impersonation of a brand
// the serving domain does not own.
var brandTerms = []string{
	"google", "facebook", "apple", "microsoft", "amazon", "paypal",
	"netflix", "instagram", "twitter", "linkedin", "ebay", "chase",
	"wellsfargo", "bankofamerica", "dropbox", "adobe", "outlook",
}

// ctSuspiciousNameTerms flag certificate common names that embed credential
// harvesting vocabulary.
var ctSuspiciousNameTerms = []string{"secure", "login", "banking", "verify"}

// highRiskCountries (ISO 3166-1 alpha-2) feed the rep_suspicious_country and
// geo_suspicious_country features.
var highRiskCountries = map[string]struct{}{
	"RU": {}, "CN": {}, "IR": {}, "KP": {}, "NG": {},
}

// suspiciousRegistrars are substring-matched (lowercased) against the WHOIS
// registrar field. These registrars are disproportionately represented in
// abuse feeds, the flag is a weak signal on its own.
var suspiciousRegistrars = []string{"namecheap", "namesilo", "porkbun"}

// flaggedHostingOrgs mark large hosting/CDN organizations whose IP space is a
// frequent home for throwaway phishing infrastructure. Substring-matched
// against the geolocation org field; contributes 0.5 to rep_ip_blacklisted.
var flaggedHostingOrgs = []string{"Cloudflare", "OVH", "DigitalOcean", "Amazon"}
